package ban_member

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/ban_member/models"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

const msgMemberBanned = "Member banned successfully"

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

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, rc *domain.RapidAPIContext) {
	// Извлекаем параметры, query и тело; ошибки копятся до общей проверки
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId"), UserID: in.ParamInt64("userId")}
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

	// Баним участника через сервисный слой
	ok, err := h.service.BanMember(r.Context(), query.Token, domain.ChatID(params.ChatID), params.UserID, body.ToDomain())
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if rc != nil {
		h.logger.Info("Ban of member %d in chat %s requested by %s (%s)", params.UserID, params.ChatID, rc.User, rc.Subscription)
	}

	// Возвращаем подтверждение Telegram
	handlers.RespondSuccessMessage(w, http.StatusOK, msgMemberBanned, models.Response{
		Success: ok,
		ChatID:  params.ChatID,
		UserID:  params.UserID,
	})
}
