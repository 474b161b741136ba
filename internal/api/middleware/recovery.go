package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
)

// ErrorHandler пишет ответ для ошибки
type ErrorHandler interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}

// Recovery превращает панику обработчика в InternalError
func Recovery(errs ErrorHandler, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("Panic while serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					errs.Handle(w, r, apperror.Internal(fmt.Errorf("panic: %v", rec)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
