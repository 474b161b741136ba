package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

type Response struct {
	ChatID         string             `json:"chatId"`
	Count          int                `json:"count"`
	Administrators []domain.ChatAdmin `json:"administrators"`
}
