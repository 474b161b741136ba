package unban_member

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/handlertest"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/unban_member/models"
	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
	"github.com/m04kA/SMC-TelegramGateway/pkg/logger"
)

type fakeService struct {
	userID    int64
	err       error
	unconfirm bool
}

func (f *fakeService) UnbanMember(_ context.Context, _ string, _ domain.ChatID, userID int64) (bool, error) {
	f.userID = userID
	return f.err == nil && !f.unconfirm, f.err
}

func TestHandler_Handle(t *testing.T) {
	service := &fakeService{}
	rec := httptest.NewRecorder()
	NewHandler(service, handlertest.Binder(), handlertest.Responder(), logger.NewNop()).Handle(rec,
		handlertest.Request(http.MethodPost, "/api/chat/-100/unban/55?token=t", "", map[string]string{"chatId": "-100", "userId": "55"}), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Response
	resp := handlertest.Decode(t, rec, &got)
	assert.Equal(t, "Member unbanned successfully", resp.Message)
	assert.Equal(t, models.Response{Success: true, ChatID: "-100", UserID: 55}, got)
	assert.Equal(t, int64(55), service.userID)
}

func TestHandler_Handle_UpstreamError(t *testing.T) {
	service := &fakeService{err: apperror.Upstream("unable to unban member: Bad Request: not enough rights", nil, nil)}
	rec := httptest.NewRecorder()
	NewHandler(service, handlertest.Binder(), handlertest.Responder(), logger.NewNop()).Handle(rec,
		handlertest.Request(http.MethodPost, "/api/chat/-100/unban/55?token=t", "", map[string]string{"chatId": "-100", "userId": "55"}), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := handlertest.Decode(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "unable to unban member: Bad Request: not enough rights", resp.Error.Message)
}

func TestHandler_Handle_NotConfirmed(t *testing.T) {
	service := &fakeService{unconfirm: true}
	rec := httptest.NewRecorder()
	NewHandler(service, handlertest.Binder(), handlertest.Responder(), logger.NewNop()).Handle(rec,
		handlertest.Request(http.MethodPost, "/api/chat/-100/unban/55?token=t", "", map[string]string{"chatId": "-100", "userId": "55"}), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Response
	handlertest.Decode(t, rec, &got)
	assert.False(t, got.Success)
}
