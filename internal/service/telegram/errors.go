package telegram

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
	"github.com/m04kA/SMC-TelegramGateway/pkg/retry"
)

// Сообщения об ошибках по операциям, к ним добавляется описание от Telegram
const (
	opMembersCount     = "unable to get members count"
	opAdministrators   = "unable to get administrators"
	opChatInfo         = "unable to get chat info"
	opSendMessage      = "unable to send message"
	opSendPhoto        = "unable to send photo"
	opSendDocument     = "unable to send document"
	opCreateInviteLink = "unable to create invite link"
	opExportInviteLink = "unable to export invite link"
	opBanMember        = "unable to ban member"
	opUnbanMember      = "unable to unban member"
	opPromoteMember    = "unable to promote member"
	opUpdates          = "unable to get updates"
	opHistory          = "unable to get chat history"
)

const (
	msgRetriesExhausted = "Telegram rate limit exceeded, retries exhausted"
	msgWaitTooLong      = "Telegram rate limit exceeded, retry later"
)

// UpstreamDetails детали ошибки Telegram, отдаваемые клиенту
type UpstreamDetails struct {
	Method         string `json:"method"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
	ErrorCode      int    `json:"errorCode,omitempty"`
}

// toAppError приводит ошибку клиента Telegram к ошибке приложения
func toAppError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, retry.ErrRetriesExhausted) {
		return apperror.RateLimited(msgRetriesExhausted, err)
	}
	if errors.Is(err, retry.ErrWaitTooLong) {
		return apperror.RateLimited(msgWaitTooLong, err)
	}

	if apiErr, ok := tgclient.AsAPIError(err); ok {
		return apperror.Upstream(
			fmt.Sprintf("%s: %s", op, apiErr.Description),
			UpstreamDetails{
				Method:         apiErr.Method,
				UpstreamStatus: apiErr.StatusCode,
				ErrorCode:      apiErr.ErrorCode,
			},
			err,
		)
	}

	return apperror.Upstream(fmt.Sprintf("%s: %v", op, err), nil, err)
}
