package domain

import (
	"net/url"
	"path"
	"strings"
)

// MediaKind способ отправки медиа
type MediaKind string

const (
	MediaKindPhoto    MediaKind = "photo"
	MediaKindDocument MediaKind = "document"
)

// imageExtensions расширения, которые отправляются через sendPhoto
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// DetectMediaKind определяет тип медиа по расширению файла в URL (без учёта регистра)
// Всё, что не картинка, отправляется как документ
func DetectMediaKind(mediaURL string) MediaKind {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil && u.Path != "" {
		p = u.Path
	}

	ext := strings.ToLower(path.Ext(p))
	if _, ok := imageExtensions[ext]; ok {
		return MediaKindPhoto
	}
	return MediaKindDocument
}

// OutgoingMessage сообщение для отправки через Telegram Bot API
type OutgoingMessage struct {
	ChatID           ChatID
	Text             string
	MediaURL         string
	ReplyToMessageID int
	ParseMode        string
}

// HasMedia проверяет, есть ли медиа во вложении
func (m *OutgoingMessage) HasMedia() bool {
	return m.MediaURL != ""
}

// MediaKind тип медиа; пустая строка, если медиа нет
func (m *OutgoingMessage) MediaKind() MediaKind {
	if !m.HasMedia() {
		return ""
	}
	return DetectMediaKind(m.MediaURL)
}

// Caption подпись к медиа: текст сообщения уходит в caption, а не отдельным сообщением
func (m *OutgoingMessage) Caption() string {
	if !m.HasMedia() {
		return ""
	}
	return m.Text
}

// MessageResult результат отправки сообщения
type MessageResult struct {
	MessageID int   `json:"messageId"`
	ChatID    int64 `json:"chatId"`
	Success   bool  `json:"success"`
}

// HistoryMessage сообщение из истории чата, собранное из updates
type HistoryMessage struct {
	ID     int    `json:"id"`
	FromID int64  `json:"fromId"`
	Text   string `json:"text"`
	Date   int    `json:"date"`
	HTML   string `json:"html"`
}

// ContainsFold проверяет вхождение подстроки без учёта регистра
func (m HistoryMessage) ContainsFold(query string) bool {
	if m.Text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(m.Text), strings.ToLower(query))
}

// InviteLinkOptions параметры создания ссылки-приглашения
type InviteLinkOptions struct {
	ExpireDate  *int64
	MemberLimit *int
	Name        string
}

// BanOptions параметры бана участника
type BanOptions struct {
	UntilDate      *int64
	RevokeMessages bool
}
