package members_count

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/members_count/models"
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
	// Извлекаем chatId из URL параметров
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId")}
	query := models.Query{Token: in.Token()}
	in.Validate(validation.LocationParams, params)
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Запрашиваем количество участников
	count, err := h.service.MembersCount(r.Context(), query.Token, domain.ChatID(params.ChatID))
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Возвращаем результат
	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		ChatID:       params.ChatID,
		MembersCount: count,
	})
}
