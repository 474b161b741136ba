package send_message

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/send_message/models"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

type Handler struct {
	service TelegramService
	binder  *validation.Binder
	errs    ErrorHandler
	logger  Logger
}

func NewHandler(service TelegramService, binder *validation.Binder, errs ErrorHandler, logger Logger) *Handler {
	return &Handler{
		service: service,
		binder:  binder,
		errs:    errs,
		logger:  logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, _ *domain.RapidAPIContext) {
	// Извлекаем параметры и тело сообщения
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId")}
	query := models.Query{Token: in.Token()}
	var body models.Body
	in.Body(&body)
	in.Validate(validation.LocationParams, params)
	in.Validate(validation.LocationQuery, query)
	in.Validate(validation.LocationBody, body)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Отправляем текст или медиа через сервисный слой
	msg := body.ToDomain(params.ChatID)
	result, err := h.service.SendMessage(r.Context(), query.Token, msg)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if msg.HasMedia() {
		h.logger.Info("Sent %s message %d to chat %d", msg.MediaKind(), result.MessageID, result.ChatID)
	} else {
		h.logger.Info("Sent text message %d to chat %d", result.MessageID, result.ChatID)
	}

	// Возвращаем id отправленного сообщения
	handlers.RespondSuccess(w, http.StatusOK, result)
}
