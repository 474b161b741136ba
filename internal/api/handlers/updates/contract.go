package updates

import (
	"context"
	"encoding/json"
	"net/http"
)

// TelegramService интерфейс сервиса Telegram
type TelegramService interface {
	Updates(ctx context.Context, token string, offset, limit int) ([]json.RawMessage, error)
}

// ErrorHandler интерфейс обработчика ошибок
type ErrorHandler interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}
