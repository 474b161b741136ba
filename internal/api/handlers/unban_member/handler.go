package unban_member

import (
	"net/http"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/unban_member/models"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
)

const msgMemberUnbanned = "Member unbanned successfully"

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
	in := h.binder.Bind(r)
	params := models.Params{ChatID: in.Param("chatId"), UserID: in.ParamInt64("userId")}
	query := models.Query{Token: in.Token()}
	in.Validate(validation.LocationParams, params)
	in.Validate(validation.LocationQuery, query)
	if err := in.Err(); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	// Разбаниваем участника
	ok, err := h.service.UnbanMember(r.Context(), query.Token, domain.ChatID(params.ChatID), params.UserID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if rc != nil {
		h.logger.Info("Unban of member %d in chat %s requested by %s (%s)", params.UserID, params.ChatID, rc.User, rc.Subscription)
	}

	handlers.RespondSuccessMessage(w, http.StatusOK, msgMemberUnbanned, models.Response{
		Success: ok,
		ChatID:  params.ChatID,
		UserID:  params.UserID,
	})
}
