package health

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
)

type Response struct {
	Success     bool    `json:"success"`
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

type Handler struct {
	startedAt   time.Time
	environment string
	now         func() time.Time
}

func NewHandler(startedAt time.Time, environment string) *Handler {
	return &Handler{
		startedAt:   startedAt,
		environment: environment,
		now:         time.Now,
	}
}

// Handle uptime в секундах с момента старта процесса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	handlers.RespondJSON(w, http.StatusOK, Response{
		Success:     true,
		Status:      "healthy",
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(h.startedAt).Seconds(),
		Environment: h.environment,
	})
}
