package models

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

type Response struct {
	ChatID     string `json:"chatId"`
	InviteLink string `json:"inviteLink"`
}
