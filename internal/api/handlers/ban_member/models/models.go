package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID int64  `json:"userId" validate:"gt=0"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

type Body struct {
	UntilDate      *int64 `json:"untilDate" validate:"omitempty,gte=0"`
	RevokeMessages bool   `json:"revokeMessages"`
}

func (b *Body) ToDomain() domain.BanOptions {
	return domain.BanOptions{
		UntilDate:      b.UntilDate,
		RevokeMessages: b.RevokeMessages,
	}
}

// Response Success - подтверждение от Telegram
type Response struct {
	Success bool   `json:"success"`
	ChatID  string `json:"chatId"`
	UserID  int64  `json:"userId"`
}
