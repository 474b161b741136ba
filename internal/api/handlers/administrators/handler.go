package administrators

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/administrators/models"
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
	// Извлекаем chatId и token
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId")}
	query := models.Query{Token: in.Token()}
	in.Validate(validation.LocationParams, params)
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Получаем администраторов (с повторами при 429)
	admins, err := h.service.Administrators(r.Context(), query.Token, domain.ChatID(params.ChatID))
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Возвращаем список администраторов
	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		ChatID:         params.ChatID,
		Count:          len(admins),
		Administrators: admins,
	})
}
