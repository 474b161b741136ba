package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
)

// RateLimitObserver считает отказы локального ограничителя
type RateLimitObserver interface {
	IncRateLimitRejection(limiter string)
}

// RateLimitConfig ограничение: не более Max запросов с одного IP за Window
type RateLimitConfig struct {
	Name              string
	Window            time.Duration
	Max               int
	Message           string
	TrustForwardedFor bool
	EntryTTL          time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничитель запросов по IP клиента на token bucket
// Ёмкость bucket равна Max, пополнение Max за Window
type RateLimiter struct {
	cfg      RateLimitConfig
	errs     ErrorHandler
	observer RateLimitObserver
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

// NewRateLimiter создает ограничитель
func NewRateLimiter(cfg RateLimitConfig, errs ErrorHandler, observer RateLimitObserver) *RateLimiter {
	if cfg.Max <= 0 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = cfg.Window
	}

	return &RateLimiter{
		cfg:      cfg,
		errs:     errs,
		observer: observer,
		now:      time.Now,
		entries:  make(map[string]*limiterEntry),
	}
}

// Middleware применяет ограничение к обработчику
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.allow(clientIP(r, l.cfg.TrustForwardedFor)) {
			next.ServeHTTP(w, r)
			return
		}

		if l.observer != nil {
			l.observer.IncRateLimitRejection(l.cfg.Name)
		}
		w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
		l.errs.Handle(w, r, apperror.RateLimited(l.cfg.Message, nil))
	})
}

// Wrap применяет ограничение к одному обработчику маршрута
func (l *RateLimiter) Wrap(fn http.HandlerFunc) http.HandlerFunc {
	return l.Middleware(fn).ServeHTTP
}

// Prune удаляет ограничители клиентов, не появлявшихся дольше EntryTTL
// Возвращает число удалённых записей
func (l *RateLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > l.cfg.EntryTTL {
			delete(l.entries, key)
			removed++
		}
	}

	return removed
}

// Name имя ограничителя для логов и метрик
func (l *RateLimiter) Name() string {
	return l.cfg.Name
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(l.cfg.Window/time.Duration(l.cfg.Max)), l.cfg.Max),
		}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// retryAfterSeconds время до появления следующего токена
func (l *RateLimiter) retryAfterSeconds() int {
	seconds := int(math.Ceil((l.cfg.Window / time.Duration(l.cfg.Max)).Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientIP адрес клиента; X-Forwarded-For учитывается только за доверенным прокси
func clientIP(r *http.Request, trustForwardedFor bool) string {
	if trustForwardedFor {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
			if first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
