package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequestLogger присваивает запросу идентификатор и пишет строку лога по завершении
// Входящий X-Request-ID сохраняется, иначе генерируется новый
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(handlers.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(handlers.RequestIDHeader, requestID)

			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logger.Info("[%s] %s %s %d %s (ip: %s)",
				requestID, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), clientIP(r, false))
		})
	}
}
