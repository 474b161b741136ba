package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

// Body ограничения полей совпадают с ограничениями Bot API
type Body struct {
	ExpireDate  *int64 `json:"expireDate" validate:"omitempty,gt=0"`
	MemberLimit *int   `json:"memberLimit" validate:"omitempty,min=1,max=99999"`
	Name        string `json:"name" validate:"omitempty,max=32"`
}

func (b *Body) ToDomain() domain.InviteLinkOptions {
	return domain.InviteLinkOptions{
		ExpireDate:  b.ExpireDate,
		MemberLimit: b.MemberLimit,
		Name:        b.Name,
	}
}

type Response struct {
	ChatID     string `json:"chatId"`
	InviteLink string `json:"inviteLink"`
}
