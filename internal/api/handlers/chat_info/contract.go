package chat_info

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

// TelegramService интерфейс сервиса Telegram
type TelegramService interface {
	ChatInfo(ctx context.Context, token string, chatID domain.ChatID) (*domain.ChatInfo, error)
}

// ErrorHandler интерфейс обработчика ошибок
type ErrorHandler interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}
