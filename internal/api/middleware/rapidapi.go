package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

// Заголовки, которые добавляет шлюз RapidAPI
const (
	HeaderRapidAPIProxySecret  = "X-RapidAPI-Proxy-Secret"
	HeaderRapidAPIUser         = "X-RapidAPI-User"
	HeaderRapidAPISubscription = "X-RapidAPI-Subscription"
)

const (
	msgInvalidProxySecret = "Invalid or missing RapidAPI key"

	gateReasonMissingSecret = "missing_secret"
	gateReasonInvalidSecret = "invalid_secret"
	gateReasonSubscription  = "subscription"
)

// GateObserver считает отказы маркетплейса
type GateObserver interface {
	IncGateRejection(reason string)
}

// GatedHandlerFunc обработчик, получающий контекст маркетплейса явным параметром
// rc равен nil, когда режим маркетплейса выключен
type GatedHandlerFunc func(w http.ResponseWriter, r *http.Request, rc *domain.RapidAPIContext)

// GateConfig настройки режима маркетплейса
type GateConfig struct {
	Enabled      bool
	ProxySecret  string
	PremiumTiers []string
}

// Gate проверка запросов маркетплейса RapidAPI
// DISABLED: всё пропускается; ENABLED: требуется совпадение X-RapidAPI-Proxy-Secret
type Gate struct {
	cfg      GateConfig
	errs     ErrorHandler
	observer GateObserver
	logger   Logger
}

// NewGate создает Gate
func NewGate(cfg GateConfig, errs ErrorHandler, observer GateObserver, logger Logger) *Gate {
	return &Gate{
		cfg:      cfg,
		errs:     errs,
		observer: observer,
		logger:   logger,
	}
}

// Enabled включён ли режим маркетплейса
func (g *Gate) Enabled() bool {
	return g.cfg.Enabled
}

// Middleware проверяет секрет прокси до любых других обработчиков /api
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		secret := r.Header.Get(HeaderRapidAPIProxySecret)
		if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(g.cfg.ProxySecret)) != 1 {
			reason := gateReasonInvalidSecret
			if secret == "" {
				reason = gateReasonMissingSecret
			}
			g.reject(reason)
			g.logger.Warn("Unauthorized marketplace request from %s: %s", clientIP(r, false), reason)
			g.errs.Handle(w, r, apperror.Authentication(msgInvalidProxySecret))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler строит контекст маркетплейса из заголовков и передаёт его обработчику
func (g *Gate) Handler(fn GatedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(w, r, g.contextFor(r))
	}
}

// RequireSubscription пропускает только разрешённые тарифы; в выключенном режиме ничего не проверяет
func (g *Gate) RequireSubscription(allowed []string, fn GatedHandlerFunc) GatedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, rc *domain.RapidAPIContext) {
		if !g.cfg.Enabled || len(allowed) == 0 {
			fn(w, r, rc)
			return
		}

		if !rc.HasSubscription(allowed) {
			g.reject(gateReasonSubscription)
			g.errs.Handle(w, r, apperror.Authentication(
				fmt.Sprintf("This feature requires a %s subscription", strings.Join(allowed, " or ")),
			))
			return
		}

		fn(w, r, rc)
	}
}

// Premium ограничивает обработчик тарифами из настройки premium_tiers
func (g *Gate) Premium(fn GatedHandlerFunc) GatedHandlerFunc {
	return g.RequireSubscription(g.cfg.PremiumTiers, fn)
}

func (g *Gate) contextFor(r *http.Request) *domain.RapidAPIContext {
	if !g.cfg.Enabled {
		return nil
	}

	return domain.NewRapidAPIContext(
		r.Header.Get(HeaderRapidAPIUser),
		r.Header.Get(HeaderRapidAPISubscription),
		r.Header.Get(HeaderRapidAPIProxySecret),
	)
}

func (g *Gate) reject(reason string) {
	if g.observer != nil {
		g.observer.IncGateRejection(reason)
	}
}
