package ban_member

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

// TelegramService интерфейс сервиса Telegram
type TelegramService interface {
	BanMember(ctx context.Context, token string, chatID domain.ChatID, userID int64, opts domain.BanOptions) (bool, error)
}

// ErrorHandler интерфейс обработчика ошибок
type ErrorHandler interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
