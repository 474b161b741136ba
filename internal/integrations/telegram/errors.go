package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrRequest возвращается, когда запрос не дошёл до Telegram (сеть, таймаут, отмена)
	ErrRequest = errors.New("telegram client: request failed")

	// ErrDecodeResponse возвращается при некорректном ответе Telegram
	ErrDecodeResponse = errors.New("telegram client: invalid response")

	// ErrAPI возвращается, когда Telegram ответил ok=false или не-2xx статусом
	ErrAPI = errors.New("telegram client: api error")
)

// APIError ошибка вызова Telegram Bot API с описанием от upstream
type APIError struct {
	Method      string
	Description string
	StatusCode  int           // HTTP статус ответа, 0 если ответа не было
	ErrorCode   int           // error_code из тела ответа
	RetryAfter  time.Duration // Retry-After из заголовка или parameters.retry_after
	Err         error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Method, e.Description)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimited проверяет, ответил ли Telegram 429
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.ErrorCode == http.StatusTooManyRequests
}

// AsAPIError извлекает *APIError из цепочки ошибок
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimited проверяет, является ли ошибка ответом 429 от Telegram
func IsRateLimited(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsRateLimited()
}
