package root

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
)

type Endpoints struct {
	Health string `json:"health"`
	API    string `json:"api"`
}

type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

type Handler struct {
	name    string
	version string
}

func NewHandler(name, version string) *Handler {
	return &Handler{
		name:    name,
		version: version,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: h.name,
		Status:  "online",
		Version: h.version,
		Endpoints: Endpoints{
			Health: "/health",
			API:    "/api",
		},
	})
}
