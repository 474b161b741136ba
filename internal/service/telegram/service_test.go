package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
	"github.com/m04kA/SMC-TelegramGateway/pkg/logger"
	"github.com/m04kA/SMC-TelegramGateway/pkg/ptr"
	"github.com/m04kA/SMC-TelegramGateway/pkg/retry"
)

const token = "123:abc"

// fakeClient подменяет клиент Telegram, записывая вызванные методы
type fakeClient struct {
	calls []string

	membersCount func() (int, error)
	admins       func() ([]tgbotapi.ChatMember, error)
	chat         func() (*tgclient.Chat, error)
	send         func(method string, text, media, caption string) (*tgbotapi.Message, error)
	inviteLink   func(req tgclient.CreateInviteLinkRequest) (string, error)
	boolResult   func(method string) (bool, error)
	updates      func(req tgclient.GetUpdatesRequest) ([]json.RawMessage, error)

	lastBan     tgclient.BanMemberRequest
	lastPromote tgclient.PromoteMemberRequest
}

func (f *fakeClient) record(method string) {
	f.calls = append(f.calls, method)
}

func (f *fakeClient) GetChatMembersCount(_ context.Context, _, _ string) (int, error) {
	f.record("getChatMembersCount")
	return f.membersCount()
}

func (f *fakeClient) GetChatAdministrators(_ context.Context, _, _ string) ([]tgbotapi.ChatMember, error) {
	f.record("getChatAdministrators")
	return f.admins()
}

func (f *fakeClient) GetChat(_ context.Context, _, _ string) (*tgclient.Chat, error) {
	f.record("getChat")
	return f.chat()
}

func (f *fakeClient) SendMessage(_ context.Context, _ string, req tgclient.SendMessageRequest) (*tgbotapi.Message, error) {
	f.record("sendMessage")
	return f.send("sendMessage", req.Text, "", "")
}

func (f *fakeClient) SendPhoto(_ context.Context, _ string, req tgclient.SendMediaRequest) (*tgbotapi.Message, error) {
	f.record("sendPhoto")
	return f.send("sendPhoto", "", req.URL, req.Caption)
}

func (f *fakeClient) SendDocument(_ context.Context, _ string, req tgclient.SendMediaRequest) (*tgbotapi.Message, error) {
	f.record("sendDocument")
	return f.send("sendDocument", "", req.URL, req.Caption)
}

func (f *fakeClient) CreateChatInviteLink(_ context.Context, _ string, req tgclient.CreateInviteLinkRequest) (string, error) {
	f.record("createChatInviteLink")
	return f.inviteLink(req)
}

func (f *fakeClient) ExportChatInviteLink(_ context.Context, _, _ string) (string, error) {
	f.record("exportChatInviteLink")
	return "https://t.me/+primary", nil
}

func (f *fakeClient) BanChatMember(_ context.Context, _ string, req tgclient.BanMemberRequest) (bool, error) {
	f.record("banChatMember")
	f.lastBan = req
	return f.boolResult("banChatMember")
}

func (f *fakeClient) UnbanChatMember(_ context.Context, _, _ string, _ int64) (bool, error) {
	f.record("unbanChatMember")
	return f.boolResult("unbanChatMember")
}

func (f *fakeClient) PromoteChatMember(_ context.Context, _ string, req tgclient.PromoteMemberRequest) (bool, error) {
	f.record("promoteChatMember")
	f.lastPromote = req
	return f.boolResult("promoteChatMember")
}

func (f *fakeClient) DeleteWebhook(_ context.Context, _ string) (bool, error) {
	f.record("deleteWebhook")
	return f.boolResult("deleteWebhook")
}

func (f *fakeClient) GetUpdates(_ context.Context, _ string, req tgclient.GetUpdatesRequest) ([]json.RawMessage, error) {
	f.record("getUpdates")
	return f.updates(req)
}

func alwaysTrue(string) (bool, error) { return true, nil }

type fakeSleeper struct {
	slept []time.Duration
}

func (s *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return nil
}

func newTestService(client *fakeClient, sleeper *fakeSleeper) *Service {
	retrier := retry.New(retry.DefaultPolicy(), retry.WithSleep(sleeper.sleep))
	return NewService(client, retrier, logger.NewNop())
}

func rateLimited(wait time.Duration) error {
	return &tgclient.APIError{
		Method:      "getChatAdministrators",
		Description: "Too Many Requests",
		StatusCode:  http.StatusTooManyRequests,
		ErrorCode:   http.StatusTooManyRequests,
		RetryAfter:  wait,
		Err:         tgclient.ErrAPI,
	}
}

func TestService_Administrators_RetriesOnRateLimit(t *testing.T) {
	responses := []error{rateLimited(2 * time.Second), rateLimited(4 * time.Second), nil}
	attempt := 0

	client := &fakeClient{
		admins: func() ([]tgbotapi.ChatMember, error) {
			err := responses[attempt]
			attempt++
			if err != nil {
				return nil, err
			}
			return []tgbotapi.ChatMember{
				{User: &tgbotapi.User{ID: 1, FirstName: "Ann", UserName: "ann"}, Status: "creator"},
				{User: &tgbotapi.User{ID: 2, IsBot: true}, Status: "administrator", CustomTitle: "helper"},
			}, nil
		},
	}
	sleeper := &fakeSleeper{}

	admins, err := newTestService(client, sleeper).Administrators(context.Background(), token, "-100")

	require.NoError(t, err)
	assert.Len(t, client.calls, 3)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.slept)

	require.Len(t, admins, 2)
	assert.Equal(t, domain.ChatAdmin{ID: 1, Username: "ann", FirstName: "Ann", Status: domain.MemberStatusCreator}, admins[0])
	assert.True(t, admins[1].IsBot)
	assert.Equal(t, ptr.NilIfZero("helper"), admins[1].CustomTitle)
}

func TestService_Administrators_SkipsNonAdminStatuses(t *testing.T) {
	client := &fakeClient{
		admins: func() ([]tgbotapi.ChatMember, error) {
			return []tgbotapi.ChatMember{
				{User: &tgbotapi.User{ID: 1}, Status: "creator"},
				{User: &tgbotapi.User{ID: 2}, Status: "member"},
				{User: &tgbotapi.User{ID: 3}, Status: "administrator"},
				{User: &tgbotapi.User{ID: 4}, Status: "kicked"},
			}, nil
		},
	}

	admins, err := newTestService(client, &fakeSleeper{}).Administrators(context.Background(), token, "-100")

	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, int64(1), admins[0].ID)
	assert.Equal(t, int64(3), admins[1].ID)
}

func TestService_Administrators_RetriesExhausted(t *testing.T) {
	client := &fakeClient{
		admins: func() ([]tgbotapi.ChatMember, error) {
			return nil, rateLimited(0)
		},
	}
	sleeper := &fakeSleeper{}

	_, err := newTestService(client, sleeper).Administrators(context.Background(), token, "-100")

	require.Error(t, err)
	assert.Len(t, client.calls, 5)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, sleeper.slept)

	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindRateLimit, appErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
}

func TestService_Administrators_LongRetryAfterFailsFast(t *testing.T) {
	client := &fakeClient{
		admins: func() ([]tgbotapi.ChatMember, error) {
			return nil, rateLimited(3600 * time.Second)
		},
	}
	sleeper := &fakeSleeper{}

	_, err := newTestService(client, sleeper).Administrators(context.Background(), token, "-100")

	require.Error(t, err)
	assert.Len(t, client.calls, 1)
	assert.Empty(t, sleeper.slept)

	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindRateLimit, appErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
	assert.Equal(t, "Telegram rate limit exceeded, retry later", appErr.Message)
}

func TestService_UpstreamErrorIsNotRetried(t *testing.T) {
	client := &fakeClient{
		membersCount: func() (int, error) {
			return 0, &tgclient.APIError{
				Method:      "getChatMembersCount",
				Description: "Bad Request: chat not found",
				StatusCode:  http.StatusBadRequest,
				ErrorCode:   400,
				Err:         tgclient.ErrAPI,
			}
		},
	}

	_, err := newTestService(client, &fakeSleeper{}).MembersCount(context.Background(), token, "@nobody")

	require.Error(t, err)
	assert.Len(t, client.calls, 1)

	appErr := apperror.From(err)
	assert.Equal(t, apperror.KindUpstream, appErr.Kind)
	assert.Equal(t, apperror.CodeUpstream, appErr.Code)
	assert.Contains(t, appErr.Message, "Bad Request: chat not found")
	assert.Equal(t, UpstreamDetails{Method: "getChatMembersCount", UpstreamStatus: 400, ErrorCode: 400}, appErr.Details)
	assert.ErrorIs(t, err, tgclient.ErrAPI)
}

func TestService_ChatInfo(t *testing.T) {
	client := &fakeClient{
		chat: func() (*tgclient.Chat, error) {
			return &tgclient.Chat{
				Chat:         tgbotapi.Chat{ID: -100, Type: "supergroup", Title: "Gophers"},
				MembersCount: ptr.NilIfZero(12),
			}, nil
		},
	}

	info, err := newTestService(client, &fakeSleeper{}).ChatInfo(context.Background(), token, "-100")

	require.NoError(t, err)
	assert.Equal(t, int64(-100), info.ID)
	assert.Equal(t, ptr.NilIfZero("Gophers"), info.Title)
	assert.Equal(t, ptr.NilIfZero("supergroup"), info.Type)
	assert.Equal(t, ptr.NilIfZero(12), info.MemberCount)
	assert.Nil(t, info.Username)
	assert.Nil(t, info.Description)
	assert.Nil(t, info.InviteLink)
}

func TestService_SendMessage(t *testing.T) {
	type sent struct {
		method, text, media, caption string
	}

	tests := []struct {
		name string
		msg  domain.OutgoingMessage
		want sent
	}{
		{
			name: "text",
			msg:  domain.OutgoingMessage{ChatID: "-100", Text: "hi"},
			want: sent{method: "sendMessage", text: "hi"},
		},
		{
			name: "photo with caption",
			msg:  domain.OutgoingMessage{ChatID: "-100", Text: "look", MediaURL: "https://example.com/cat.JPG"},
			want: sent{method: "sendPhoto", media: "https://example.com/cat.JPG", caption: "look"},
		},
		{
			name: "document",
			msg:  domain.OutgoingMessage{ChatID: "-100", MediaURL: "https://example.com/report.pdf"},
			want: sent{method: "sendDocument", media: "https://example.com/report.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sent
			client := &fakeClient{
				send: func(method, text, media, caption string) (*tgbotapi.Message, error) {
					got = sent{method: method, text: text, media: media, caption: caption}
					return &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: -100}}, nil
				},
			}

			result, err := newTestService(client, &fakeSleeper{}).SendMessage(context.Background(), token, &tt.msg)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, client.calls, 1)
			assert.Equal(t, &domain.MessageResult{MessageID: 9, ChatID: -100, Success: true}, result)
		})
	}
}

func TestService_SendMessage_Empty(t *testing.T) {
	client := &fakeClient{}

	_, err := newTestService(client, &fakeSleeper{}).SendMessage(context.Background(), token, &domain.OutgoingMessage{ChatID: "-100"})

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, client.calls)
}

func TestService_Moderation(t *testing.T) {
	client := &fakeClient{boolResult: alwaysTrue}
	svc := newTestService(client, &fakeSleeper{})
	ctx := context.Background()

	ok, err := svc.BanMember(ctx, token, "-100", 7, domain.BanOptions{UntilDate: ptr.NilIfZero(int64(1800000000)), RevokeMessages: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tgclient.BanMemberRequest{ChatID: "-100", UserID: 7, UntilDate: ptr.NilIfZero(int64(1800000000)), RevokeMessages: true}, client.lastBan)

	ok, err = svc.UnbanMember(ctx, token, "-100", 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.PromoteMember(ctx, token, "-100", 7, domain.DefaultPromotePermissions())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, client.lastPromote.Permissions.CanInviteUsers)

	assert.Equal(t, []string{"banChatMember", "unbanChatMember", "promoteChatMember"}, client.calls)
}

func TestService_InviteLinks(t *testing.T) {
	client := &fakeClient{
		inviteLink: func(req tgclient.CreateInviteLinkRequest) (string, error) {
			assert.Equal(t, "promo", req.Name)
			assert.Equal(t, ptr.NilIfZero(5), req.MemberLimit)
			return "https://t.me/+extra", nil
		},
	}
	svc := newTestService(client, &fakeSleeper{})

	link, err := svc.CreateInviteLink(context.Background(), token, "-100", domain.InviteLinkOptions{Name: "promo", MemberLimit: ptr.NilIfZero(5)})
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+extra", link)

	link, err = svc.ExportInviteLink(context.Background(), token, "-100")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/+primary", link)
}

func TestService_Updates(t *testing.T) {
	client := &fakeClient{
		updates: func(req tgclient.GetUpdatesRequest) ([]json.RawMessage, error) {
			assert.Equal(t, tgclient.GetUpdatesRequest{Offset: 3, Limit: 20, Timeout: updatesPollTimeout}, req)
			return nil, nil
		},
	}

	updates, err := newTestService(client, &fakeSleeper{}).Updates(context.Background(), token, 3, 20)

	require.NoError(t, err)
	assert.NotNil(t, updates)
	assert.Empty(t, updates)
	assert.Equal(t, []string{"getUpdates"}, client.calls)
}

func TestService_RequestFailure(t *testing.T) {
	client := &fakeClient{
		membersCount: func() (int, error) {
			return 0, errors.New("connection refused")
		},
	}

	_, err := newTestService(client, &fakeSleeper{}).MembersCount(context.Background(), token, "-100")

	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
}
