package create_invite_link

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

// TelegramService интерфейс сервиса Telegram
type TelegramService interface {
	CreateInviteLink(ctx context.Context, token string, chatID domain.ChatID, opts domain.InviteLinkOptions) (string, error)
}

// ErrorHandler интерфейс обработчика ошибок
type ErrorHandler interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}
