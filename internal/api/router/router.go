package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/administrators"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/ban_member"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/chat_history"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/chat_info"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/create_invite_link"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/export_invite_link"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/health"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/members_count"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/promote_member"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/root"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/search_messages"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/send_message"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/unban_member"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/updates"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/middleware"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
)

const (
	// APIPrefix префикс маршрутов Telegram
	APIPrefix = "/api/telegram"
	// guardedPrefix всё под /api проходит проверку маркетплейса и общий лимитер, включая неизвестные пути
	guardedPrefix = "/api"
)

// TelegramService все возможности сервиса, которые отдаются через HTTP
type TelegramService interface {
	members_count.TelegramService
	administrators.TelegramService
	chat_info.TelegramService
	send_message.TelegramService
	create_invite_link.TelegramService
	export_invite_link.TelegramService
	ban_member.TelegramService
	unban_member.TelegramService
	promote_member.TelegramService
	updates.TelegramService
	chat_history.TelegramService
	search_messages.TelegramService
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Deps зависимости роутера
type Deps struct {
	Service       TelegramService
	Binder        *validation.Binder
	Errors        *handlers.ErrorResponder
	Gate          *middleware.Gate
	APILimiter    *middleware.RateLimiter
	StrictLimiter *middleware.RateLimiter
	Metrics       middleware.HTTPObserver // nil - без HTTP метрик
	Health        *health.Handler
	Root          *root.Handler
	Logger        Logger

	// MetricsPath и MetricsHandler; endpoint не регистрируется, если MetricsHandler nil
	MetricsPath    string
	MetricsHandler http.Handler

	RequestTimeout time.Duration // 0 - без ограничения
	MaxBodyBytes   int64         // 0 - middleware.DefaultMaxBodyBytes
}

// New собирает HTTP обработчик сервиса
// Порядок для /api: проверка RapidAPI, общий лимитер, маршрутизация, строгий лимитер маршрута, тариф, обработчик
func New(d Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = d.Errors.NotFoundHandler()
	r.MethodNotAllowedHandler = d.Errors.NotFoundHandler()

	if d.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(d.Metrics))
	}

	// Публичные endpoints
	r.HandleFunc("/", d.Root.Handle).Methods(http.MethodGet)
	r.HandleFunc("/health", d.Health.Handle).Methods(http.MethodGet)
	if d.MetricsHandler != nil {
		r.Handle(d.MetricsPath, d.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix(APIPrefix).Subrouter()

	gated := d.Gate.Handler
	strict := func(fn middleware.GatedHandlerFunc) http.HandlerFunc {
		return d.StrictLimiter.Wrap(gated(d.Gate.Premium(fn)))
	}

	// Чат
	api.HandleFunc("/chat/{chatId}/members/count",
		gated(members_count.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)
	api.HandleFunc("/chat/{chatId}/administrators",
		gated(administrators.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)
	api.HandleFunc("/chat/{chatId}/info",
		gated(chat_info.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)
	api.HandleFunc("/chat/{chatId}/message",
		gated(send_message.NewHandler(d.Service, d.Binder, d.Errors, d.Logger).Handle)).Methods(http.MethodPost)

	// Ссылки-приглашения
	api.HandleFunc("/chat/{chatId}/invite-link",
		strict(create_invite_link.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodPost)
	api.HandleFunc("/chat/{chatId}/invite-link/export",
		gated(d.Gate.Premium(export_invite_link.NewHandler(d.Service, d.Binder, d.Errors).Handle))).Methods(http.MethodGet)

	// Модерация
	api.HandleFunc("/chat/{chatId}/member/{userId}/ban",
		strict(ban_member.NewHandler(d.Service, d.Binder, d.Errors, d.Logger).Handle)).Methods(http.MethodPost)
	api.HandleFunc("/chat/{chatId}/member/{userId}/unban",
		strict(unban_member.NewHandler(d.Service, d.Binder, d.Errors, d.Logger).Handle)).Methods(http.MethodPost)
	api.HandleFunc("/chat/{chatId}/member/{userId}/promote",
		strict(promote_member.NewHandler(d.Service, d.Binder, d.Errors, d.Logger).Handle)).Methods(http.MethodPost)

	// Обновления и история
	api.HandleFunc("/updates",
		gated(updates.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)
	api.HandleFunc("/history",
		gated(chat_history.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)
	api.HandleFunc("/search",
		gated(search_messages.NewHandler(d.Service, d.Binder, d.Errors).Handle)).Methods(http.MethodGet)

	// Проверка маркетплейса и общий лимитер до маршрутизации
	guarded := d.Gate.Middleware(d.APILimiter.Middleware(r))
	dispatch := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == guardedPrefix || strings.HasPrefix(req.URL.Path, guardedPrefix+"/") {
			guarded.ServeHTTP(w, req)
			return
		}
		r.ServeHTTP(w, req)
	})

	var h http.Handler = dispatch
	h = middleware.BodyLimit(d.MaxBodyBytes)(h)
	h = middleware.Timeout(d.RequestTimeout)(h)
	h = middleware.Recovery(d.Errors, d.Logger)(h)
	return middleware.RequestLogger(d.Logger)(h)
}
