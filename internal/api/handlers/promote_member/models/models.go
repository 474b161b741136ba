package models

import "github.com/m04kA/SMC-TelegramGateway/internal/domain"

type Params struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID int64  `json:"userId" validate:"gt=0"`
}

type Query struct {
	Token string `json:"token" validate:"required"`
}

// Body флаги прав; отсутствующий флаг берётся из политики по умолчанию
type Body struct {
	CanManageChat       *bool `json:"canManageChat"`
	CanPostMessages     *bool `json:"canPostMessages"`
	CanEditMessages     *bool `json:"canEditMessages"`
	CanDeleteMessages   *bool `json:"canDeleteMessages"`
	CanManageVideoChats *bool `json:"canManageVideoChats"`
	CanRestrictMembers  *bool `json:"canRestrictMembers"`
	CanPromoteMembers   *bool `json:"canPromoteMembers"`
	CanChangeInfo       *bool `json:"canChangeInfo"`
	CanInviteUsers      *bool `json:"canInviteUsers"`
	CanPinMessages      *bool `json:"canPinMessages"`
}

func (b *Body) ToDomain() domain.PromotePermissions {
	p := domain.DefaultPromotePermissions()

	apply(&p.CanManageChat, b.CanManageChat)
	apply(&p.CanPostMessages, b.CanPostMessages)
	apply(&p.CanEditMessages, b.CanEditMessages)
	apply(&p.CanDeleteMessages, b.CanDeleteMessages)
	apply(&p.CanManageVideoChats, b.CanManageVideoChats)
	apply(&p.CanRestrictMembers, b.CanRestrictMembers)
	apply(&p.CanPromoteMembers, b.CanPromoteMembers)
	apply(&p.CanChangeInfo, b.CanChangeInfo)
	apply(&p.CanInviteUsers, b.CanInviteUsers)
	apply(&p.CanPinMessages, b.CanPinMessages)

	return p
}

func apply(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// Response Success - подтверждение от Telegram
type Response struct {
	Success     bool                      `json:"success"`
	ChatID      string                    `json:"chatId"`
	UserID      int64                     `json:"userId"`
	Permissions domain.PromotePermissions `json:"permissions"`
}
