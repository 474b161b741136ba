package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

// Chat объект чата из getChat
// members_count отсутствует в tgbotapi.Chat, но может прийти от upstream
type Chat struct {
	tgbotapi.Chat
	MembersCount *int `json:"members_count,omitempty"`
}

// SendMessageRequest параметры sendMessage
type SendMessageRequest struct {
	ChatID           string
	Text             string
	ParseMode        string
	ReplyToMessageID int
}

// SendMediaRequest параметры sendPhoto / sendDocument
type SendMediaRequest struct {
	ChatID           string
	URL              string
	Caption          string
	ParseMode        string
	ReplyToMessageID int
}

// CreateInviteLinkRequest параметры createChatInviteLink
type CreateInviteLinkRequest struct {
	ChatID      string
	ExpireDate  *int64
	MemberLimit *int
	Name        string
}

// BanMemberRequest параметры banChatMember
type BanMemberRequest struct {
	ChatID         string
	UserID         int64
	UntilDate      *int64
	RevokeMessages bool
}

// PromoteMemberRequest параметры promoteChatMember
type PromoteMemberRequest struct {
	ChatID      string
	UserID      int64
	Permissions domain.PromotePermissions
}

// GetUpdatesRequest параметры getUpdates
type GetUpdatesRequest struct {
	Offset  int
	Limit   int
	Timeout int
}
