package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind тип ошибки приложения
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindUpstream       Kind = "upstream"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

// Коды ошибок, отдаваемые клиенту в конверте
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	CodeUpstream       = "TELEGRAM_API_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

// FieldError описывает одно нарушенное ограничение входных данных
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error единый тип ошибки с HTTP статусом и безопасным для клиента описанием
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Details    any
	HTTPStatus int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation ошибка валидации запроса (400), перечисляет все нарушенные поля
func Validation(message string, fields []FieldError) *Error {
	return &Error{
		Kind:       KindValidation,
		Code:       CodeValidation,
		Message:    message,
		Details:    fields,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Authentication ошибка аутентификации маркетплейса (401)
func Authentication(message string) *Error {
	return &Error{
		Kind:       KindAuthentication,
		Code:       CodeAuthentication,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RateLimited превышение локального лимита или исчерпание повторов к upstream (429)
func RateLimited(message string, cause error) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Code:       CodeRateLimit,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		Cause:      cause,
	}
}

// Upstream ошибка Telegram Bot API (500) с описанием от upstream
func Upstream(message string, details any, cause error) *Error {
	return &Error{
		Kind:       KindUpstream,
		Code:       CodeUpstream,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NotFound неизвестный маршрут (404)
func NotFound(message string) *Error {
	return &Error{
		Kind:       KindNotFound,
		Code:       CodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// Internal всё, что не удалось классифицировать (500)
func Internal(cause error) *Error {
	return &Error{
		Kind:       KindInternal,
		Code:       CodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// From приводит произвольную ошибку к *Error
// Неклассифицированные ошибки становятся InternalError
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return Internal(err)
}

// IsKind проверяет тип ошибки в цепочке
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
