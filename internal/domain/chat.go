package domain

import (
	"strconv"
	"strings"
)

// MemberStatus статус участника чата в Telegram
type MemberStatus string

const (
	MemberStatusCreator       MemberStatus = "creator"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusMember        MemberStatus = "member"
	MemberStatusRestricted    MemberStatus = "restricted"
	MemberStatusLeft          MemberStatus = "left"
	MemberStatusKicked        MemberStatus = "kicked"
)

// IsAdmin проверяет, является ли статус административным
func (s MemberStatus) IsAdmin() bool {
	return s == MemberStatusCreator || s == MemberStatusAdministrator
}

// ChatID идентификатор чата: числовой id или @username
// Передаётся в Telegram без изменений
type ChatID string

// String возвращает идентификатор как есть
func (c ChatID) String() string {
	return string(c)
}

// IsUsername проверяет, задан ли чат через @username
func (c ChatID) IsUsername() bool {
	return strings.HasPrefix(string(c), "@")
}

// TrimAt убирает ведущий @ (используется только для истории сообщений)
func (c ChatID) TrimAt() string {
	return strings.TrimPrefix(string(c), "@")
}

// Int64 возвращает числовое значение, если идентификатор числовой
func (c ChatID) Int64() (int64, bool) {
	id, err := strconv.ParseInt(string(c), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ChatInfo проекция объекта чата из Telegram
type ChatInfo struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	Username    *string `json:"username,omitempty"`
	Type        *string `json:"type,omitempty"`
	MemberCount *int    `json:"memberCount,omitempty"`
	Description *string `json:"description,omitempty"`
	InviteLink  *string `json:"inviteLink,omitempty"`
}

// ChatAdmin проекция участника чата с административным статусом
type ChatAdmin struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username,omitempty"`
	FirstName   string       `json:"firstName,omitempty"`
	LastName    string       `json:"lastName,omitempty"`
	IsBot       bool         `json:"isBot"`
	Status      MemberStatus `json:"status"`
	CustomTitle *string      `json:"customTitle,omitempty"`
}
