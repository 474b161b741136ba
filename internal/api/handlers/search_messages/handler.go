package search_messages

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/search_messages/models"
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

// Handle ищет только среди последних limit сообщений: у Bot API нет поиска по чату
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, _ *domain.RapidAPIContext) {
	// Извлекаем параметры поиска
	in := h.binder.Bind(r)
	query := models.Query{
		Token:  in.Token(),
		ChatID: in.Query("chatId"),
		Query:  in.Query("query"),
		Limit:  in.QueryInt("limit", models.DefaultLimit),
	}
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Ищем по тексту среди последних сообщений
	messages, err := h.service.Search(r.Context(), query.Token, domain.ChatID(query.ChatID), query.Query, query.Limit)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, models.Response{
		Query:    query.Query,
		Count:    len(messages),
		Messages: messages,
	})
}
