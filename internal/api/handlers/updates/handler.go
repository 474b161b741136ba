package updates

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/updates/models"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

type Handler struct {
	service TelegramService
	binder  *validation.Binder
	errs    ErrorHandler
}

func NewHandler(service TelegramService, binder *validation.Binder, errs ErrorHandler) *Handler {
	return &Handler{
		service: service,
		binder:  binder,
		errs:    errs,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, _ *domain.RapidAPIContext) {
	// Извлекаем token, offset и limit
	in := h.binder.Bind(r)
	query := models.Query{
		Token:  in.Token(),
		Offset: in.QueryInt("offset", 0),
		Limit:  in.QueryInt("limit", models.DefaultLimit),
	}
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	updates, err := h.service.Updates(r.Context(), query.Token, query.Offset, query.Limit)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Возвращаем обновления как есть
	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		Count:   len(updates),
		Updates: updates,
	})
}
