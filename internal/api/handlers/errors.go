package handlers

import (
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ErrorResponder единственная точка преобразования ошибок в ответ
// Полная цепочка ошибки пишется в лог, клиент получает только code, message и details
type ErrorResponder struct {
	logger      Logger
	development bool
}

// NewErrorResponder создает обработчик ошибок
// В режиме development текст неклассифицированных ошибок отдаётся клиенту в details
func NewErrorResponder(logger Logger, development bool) *ErrorResponder {
	return &ErrorResponder{
		logger:      logger,
		development: development,
	}
}

// Handle пишет ответ для ошибки
func (e *ErrorResponder) Handle(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	if appErr == nil {
		appErr = apperror.Internal(nil)
	}

	requestID := w.Header().Get(RequestIDHeader)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		e.logger.Error("[%s] %s %s failed: %v", requestID, r.Method, r.URL.Path, err)
	} else {
		e.logger.Warn("[%s] %s %s rejected: %v", requestID, r.Method, r.URL.Path, err)
	}

	body := ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Kind == apperror.KindInternal && e.development && appErr.Cause != nil {
		body.Details = appErr.Cause.Error()
	}

	RespondError(w, appErr.HTTPStatus, body)
}

// NotFound ответ для неизвестного маршрута
func (e *ErrorResponder) NotFound(w http.ResponseWriter, r *http.Request) {
	e.Handle(w, r, apperror.NotFound(fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path)))
}

// NotFoundHandler обработчик для mux.Router.NotFoundHandler и MethodNotAllowedHandler
func (e *ErrorResponder) NotFoundHandler() http.Handler {
	return http.HandlerFunc(e.NotFound)
}
