package chat_history

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/chat_history/models"
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
	in := h.binder.Bind(r)
	query := models.Query{
		Token:  in.Token(),
		ChatID: in.Query("chatId"),
		Limit:  in.QueryInt("limit", models.DefaultLimit),
		Offset: in.QueryInt("offset", 0),
	}
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Читаем историю через getUpdates
	messages, err := h.service.History(r.Context(), query.Token, domain.ChatID(query.ChatID), query.Limit, query.Offset)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		Count:    len(messages),
		Messages: messages,
	})
}
