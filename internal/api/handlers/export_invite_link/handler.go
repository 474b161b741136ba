package export_invite_link

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/export_invite_link/models"
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

// Handle перевыпускает основную ссылку: предыдущая основная ссылка перестаёт работать
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, _ *domain.RapidAPIContext) {
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId")}
	query := models.Query{Token: in.Token()}
	in.Validate(validation.LocationParams, params)
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Перевыпускаем основную ссылку
	link, err := h.service.ExportInviteLink(r.Context(), query.Token, domain.ChatID(params.ChatID))
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		ChatID:     params.ChatID,
		InviteLink: link,
	})
}
