package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

// Body тело запроса: нужен хотя бы один из message и media
type Body struct {
	Message          string `json:"message" validate:"required_without=Media,max=4096"`
	Media            string `json:"media" validate:"omitempty,url"`
	ReplyToMessageID int    `json:"replyToMessageId" validate:"omitempty,gt=0"`
	ParseMode        string `json:"parseMode" validate:"omitempty,oneof=Markdown MarkdownV2 HTML"`
}

func (b *Body) ToDomain(chatID string) *domain.OutgoingMessage {
	return &domain.OutgoingMessage{
		ChatID:           domain.ChatID(chatID),
		Text:             b.Message,
		MediaURL:         b.Media,
		ReplyToMessageID: b.ReplyToMessageID,
		ParseMode:        b.ParseMode,
	}
}
