package telegram

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
)

// Client интерфейс клиента Telegram Bot API
// Каждый метод выполняет ровно один HTTP вызов, токен передаётся на каждый вызов
type Client interface {
	GetChatMembersCount(ctx context.Context, token, chatID string) (int, error)
	GetChatAdministrators(ctx context.Context, token, chatID string) ([]tgbotapi.ChatMember, error)
	GetChat(ctx context.Context, token, chatID string) (*tgclient.Chat, error)

	SendMessage(ctx context.Context, token string, req tgclient.SendMessageRequest) (*tgbotapi.Message, error)
	SendPhoto(ctx context.Context, token string, req tgclient.SendMediaRequest) (*tgbotapi.Message, error)
	SendDocument(ctx context.Context, token string, req tgclient.SendMediaRequest) (*tgbotapi.Message, error)

	CreateChatInviteLink(ctx context.Context, token string, req tgclient.CreateInviteLinkRequest) (string, error)
	ExportChatInviteLink(ctx context.Context, token, chatID string) (string, error)

	BanChatMember(ctx context.Context, token string, req tgclient.BanMemberRequest) (bool, error)
	UnbanChatMember(ctx context.Context, token, chatID string, userID int64) (bool, error)
	PromoteChatMember(ctx context.Context, token string, req tgclient.PromoteMemberRequest) (bool, error)

	DeleteWebhook(ctx context.Context, token string) (bool, error)
	GetUpdates(ctx context.Context, token string, req tgclient.GetUpdatesRequest) ([]json.RawMessage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
