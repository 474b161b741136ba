package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/telegram/chat/1/invite-link", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_PerClient(t *testing.T) {
	observer := newCountingObserver()
	limiter := NewRateLimiter(RateLimitConfig{
		Name:    "strict",
		Window:  time.Minute,
		Max:     2,
		Message: "Too many requests on this sensitive operation",
	}, newResponder(), observer)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	srv := limiter.Wrap(okHandler)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, requestFrom("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":"RATE_LIMIT_EXCEEDED"`)
	assert.Equal(t, 1, observer.limiter["strict"])

	// другой клиент не затронут
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// через половину окна появляется один токен
	now = now.Add(30 * time.Second)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, requestFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Prune(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{Name: "api", Window: time.Minute, Max: 10}, newResponder(), nil)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	srv := limiter.Wrap(okHandler)
	srv.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:1"))

	now = now.Add(30 * time.Second)
	srv.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.2:1"))

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, limiter.Prune())
	assert.Len(t, limiter.entries, 1)
	assert.Contains(t, limiter.entries, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.0.2.10", clientIP(req, false))
	assert.Equal(t, "203.0.113.7", clientIP(req, true))
}
