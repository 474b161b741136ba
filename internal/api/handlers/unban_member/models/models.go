package models

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID int64  `json:"userId" validate:"gt=0"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

// Response Success - подтверждение от Telegram
type Response struct {
	Success bool   `json:"success"`
	ChatID  string `json:"chatId"`
	UserID  int64  `json:"userId"`
}
