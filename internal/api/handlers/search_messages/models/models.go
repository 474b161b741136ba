package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

const DefaultLimit = 10

type Query struct {
	Token  string `json:"token" validate:"required"`
	ChatID string `json:"chatId" validate:"required"`
	Query  string `json:"query" validate:"required"`
	Limit  int    `json:"limit" validate:"min=1,max=100"`
}

type Response struct {
	Query    string                  `json:"query"`
	Count    int                     `json:"count"`
	Messages []domain.HistoryMessage `json:"messages"`
}
