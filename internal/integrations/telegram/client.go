package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// DefaultAPIEndpoint формат URL методов Bot API: токен, имя метода
	DefaultAPIEndpoint = tgbotapi.APIEndpoint

	// DefaultTimeout ограничение на один вызов upstream
	DefaultTimeout = 30 * time.Second

	outcomeOK          = "ok"
	outcomeRateLimited = "rate_limited"
	outcomeAPIError    = "api_error"
	outcomeFailed      = "failed"
)

// Observer получает результат каждого вызова Bot API
type Observer interface {
	ObserveUpstreamCall(method, outcome string, duration time.Duration)
}

// Client клиент Telegram Bot API с токеном на каждый вызов
type Client struct {
	apiEndpoint string
	httpClient  *http.Client
	observer    Observer
}

// Option настройка клиента
type Option func(*Client)

// WithHTTPClient подменяет http клиент
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithObserver подключает сбор метрик
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient создает новый экземпляр клиента Telegram Bot API
func NewClient(apiEndpoint string, timeout time.Duration, opts ...Option) *Client {
	if apiEndpoint == "" {
		apiEndpoint = DefaultAPIEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		apiEndpoint: apiEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetChatMembersCount возвращает количество участников чата
func (c *Client) GetChatMembersCount(ctx context.Context, token, chatID string) (int, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", chatID)

	var count int
	if err := c.call(ctx, token, "getChatMembersCount", params, &count); err != nil {
		return 0, err
	}

	return count, nil
}

// GetChatAdministrators возвращает администраторов чата
func (c *Client) GetChatAdministrators(ctx context.Context, token, chatID string) ([]tgbotapi.ChatMember, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", chatID)

	var members []tgbotapi.ChatMember
	if err := c.call(ctx, token, "getChatAdministrators", params, &members); err != nil {
		return nil, err
	}

	return members, nil
}

// GetChat возвращает информацию о чате
func (c *Client) GetChat(ctx context.Context, token, chatID string) (*Chat, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", chatID)

	var chat Chat
	if err := c.call(ctx, token, "getChat", params, &chat); err != nil {
		return nil, err
	}

	return &chat, nil
}

// SendMessage отправляет текстовое сообщение
func (c *Client) SendMessage(ctx context.Context, token string, req SendMessageRequest) (*tgbotapi.Message, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", req.ChatID)
	params.AddNonEmpty("text", req.Text)
	params.AddNonEmpty("parse_mode", req.ParseMode)
	params.AddNonZero("reply_to_message_id", req.ReplyToMessageID)

	return c.sendMessage(ctx, token, "sendMessage", params)
}

// SendPhoto отправляет фото по URL, текст уходит в caption
func (c *Client) SendPhoto(ctx context.Context, token string, req SendMediaRequest) (*tgbotapi.Message, error) {
	return c.sendMessage(ctx, token, "sendPhoto", mediaParams("photo", req))
}

// SendDocument отправляет документ по URL, текст уходит в caption
func (c *Client) SendDocument(ctx context.Context, token string, req SendMediaRequest) (*tgbotapi.Message, error) {
	return c.sendMessage(ctx, token, "sendDocument", mediaParams("document", req))
}

// CreateChatInviteLink создаёт дополнительную ссылку-приглашение
func (c *Client) CreateChatInviteLink(ctx context.Context, token string, req CreateInviteLinkRequest) (string, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", req.ChatID)
	params.AddNonEmpty("name", req.Name)
	if req.ExpireDate != nil {
		params["expire_date"] = strconv.FormatInt(*req.ExpireDate, 10)
	}
	if req.MemberLimit != nil {
		params["member_limit"] = strconv.Itoa(*req.MemberLimit)
	}

	var link tgbotapi.ChatInviteLink
	if err := c.call(ctx, token, "createChatInviteLink", params, &link); err != nil {
		return "", err
	}

	return link.InviteLink, nil
}

// ExportChatInviteLink генерирует новую основную ссылку-приглашение
func (c *Client) ExportChatInviteLink(ctx context.Context, token, chatID string) (string, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", chatID)

	var link string
	if err := c.call(ctx, token, "exportChatInviteLink", params, &link); err != nil {
		return "", err
	}

	return link, nil
}

// BanChatMember банит участника чата
func (c *Client) BanChatMember(ctx context.Context, token string, req BanMemberRequest) (bool, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", req.ChatID)
	params["user_id"] = strconv.FormatInt(req.UserID, 10)
	if req.UntilDate != nil {
		params["until_date"] = strconv.FormatInt(*req.UntilDate, 10)
	}
	params["revoke_messages"] = strconv.FormatBool(req.RevokeMessages)

	return c.callBool(ctx, token, "banChatMember", params)
}

// UnbanChatMember снимает бан; ничего не делает, если участник не забанен
func (c *Client) UnbanChatMember(ctx context.Context, token, chatID string, userID int64) (bool, error) {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", chatID)
	params["user_id"] = strconv.FormatInt(userID, 10)
	params["only_if_banned"] = "true"

	return c.callBool(ctx, token, "unbanChatMember", params)
}

// PromoteChatMember назначает участника администратором, все флаги передаются явно
func (c *Client) PromoteChatMember(ctx context.Context, token string, req PromoteMemberRequest) (bool, error) {
	p := req.Permissions

	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", req.ChatID)
	params["user_id"] = strconv.FormatInt(req.UserID, 10)
	params["can_manage_chat"] = strconv.FormatBool(p.CanManageChat)
	params["can_post_messages"] = strconv.FormatBool(p.CanPostMessages)
	params["can_edit_messages"] = strconv.FormatBool(p.CanEditMessages)
	params["can_delete_messages"] = strconv.FormatBool(p.CanDeleteMessages)
	params["can_manage_video_chats"] = strconv.FormatBool(p.CanManageVideoChats)
	params["can_restrict_members"] = strconv.FormatBool(p.CanRestrictMembers)
	params["can_promote_members"] = strconv.FormatBool(p.CanPromoteMembers)
	params["can_change_info"] = strconv.FormatBool(p.CanChangeInfo)
	params["can_invite_users"] = strconv.FormatBool(p.CanInviteUsers)
	params["can_pin_messages"] = strconv.FormatBool(p.CanPinMessages)

	return c.callBool(ctx, token, "promoteChatMember", params)
}

// DeleteWebhook удаляет webhook, без этого getUpdates недоступен
func (c *Client) DeleteWebhook(ctx context.Context, token string) (bool, error) {
	params := tgbotapi.Params{}
	params["drop_pending_updates"] = "false"

	return c.callBool(ctx, token, "deleteWebhook", params)
}

// GetUpdates возвращает updates в исходном виде
func (c *Client) GetUpdates(ctx context.Context, token string, req GetUpdatesRequest) ([]json.RawMessage, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", req.Offset)
	params.AddNonZero("limit", req.Limit)
	params.AddNonZero("timeout", req.Timeout)

	var updates []json.RawMessage
	if err := c.call(ctx, token, "getUpdates", params, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

func mediaParams(field string, req SendMediaRequest) tgbotapi.Params {
	params := tgbotapi.Params{}
	params.AddNonEmpty("chat_id", req.ChatID)
	params.AddNonEmpty(field, req.URL)
	params.AddNonEmpty("caption", req.Caption)
	params.AddNonEmpty("parse_mode", req.ParseMode)
	params.AddNonZero("reply_to_message_id", req.ReplyToMessageID)
	return params
}

func (c *Client) sendMessage(ctx context.Context, token, method string, params tgbotapi.Params) (*tgbotapi.Message, error) {
	var msg tgbotapi.Message
	if err := c.call(ctx, token, method, params, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

func (c *Client) callBool(ctx context.Context, token, method string, params tgbotapi.Params) (bool, error) {
	var ok bool
	if err := c.call(ctx, token, method, params, &ok); err != nil {
		return false, err
	}

	return ok, nil
}

// call выполняет ровно один запрос к Bot API и декодирует result в out
func (c *Client) call(ctx context.Context, token, method string, params tgbotapi.Params, out any) error {
	recorder := &responseRecorder{ctx: ctx, client: c.httpClient}

	// Не используем tgbotapi.NewBotAPI: он делает лишний вызов getMe
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: recorder,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(c.apiEndpoint)

	start := time.Now()
	resp, err := bot.MakeRequest(method, params)
	err = c.normalizeError(method, token, recorder, err)
	if err == nil && out != nil {
		if decodeErr := json.Unmarshal(resp.Result, out); decodeErr != nil {
			err = &APIError{
				Method:      method,
				Description: fmt.Sprintf("decode result: %v", decodeErr),
				StatusCode:  recorder.statusCode,
				Err:         ErrDecodeResponse,
			}
		}
	}

	c.observe(method, err, time.Since(start))

	return err
}

func (c *Client) normalizeError(method, token string, recorder *responseRecorder, err error) error {
	if err == nil {
		if recorder.statusCode >= http.StatusMultipleChoices {
			return &APIError{
				Method:      method,
				Description: http.StatusText(recorder.statusCode),
				StatusCode:  recorder.statusCode,
				RetryAfter:  parseRetryAfter(recorder.header.Get("Retry-After")),
				Err:         ErrAPI,
			}
		}
		return nil
	}

	apiErr := &APIError{
		Method:     method,
		StatusCode: recorder.statusCode,
		RetryAfter: parseRetryAfter(recorder.header.Get("Retry-After")),
	}

	var tgErr *tgbotapi.Error
	switch {
	case errors.As(err, &tgErr):
		apiErr.Err = ErrAPI
		apiErr.Description = tgErr.Message
		apiErr.ErrorCode = tgErr.Code
		if apiErr.RetryAfter == 0 && tgErr.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(tgErr.RetryAfter) * time.Second
		}
	case !recorder.responded:
		apiErr.Err = ErrRequest
		apiErr.Description = redactToken(err.Error(), token)
	default:
		apiErr.Err = ErrDecodeResponse
		apiErr.Description = redactToken(err.Error(), token)
	}

	if apiErr.Description == "" {
		apiErr.Description = http.StatusText(recorder.statusCode)
	}

	return apiErr
}

func (c *Client) observe(method string, err error, duration time.Duration) {
	if c.observer == nil {
		return
	}

	outcome := outcomeOK
	if err != nil {
		switch apiErr, ok := AsAPIError(err); {
		case ok && apiErr.IsRateLimited():
			outcome = outcomeRateLimited
		case ok && errors.Is(apiErr, ErrAPI):
			outcome = outcomeAPIError
		default:
			outcome = outcomeFailed
		}
	}

	c.observer.ObserveUpstreamCall(method, outcome, duration)
}

// responseRecorder привязывает контекст запроса и запоминает статус и заголовки ответа,
// которые tgbotapi не отдаёт наружу
type responseRecorder struct {
	ctx        context.Context
	client     *http.Client
	responded  bool
	statusCode int
	header     http.Header
}

func (r *responseRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := r.client.Do(req.WithContext(r.ctx))
	if err != nil {
		return nil, err
	}

	r.responded = true
	r.statusCode = resp.StatusCode
	r.header = resp.Header

	return resp, nil
}

// parseRetryAfter разбирает Retry-After: секунды или HTTP-дата
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}

// redactToken убирает токен бота из текста ошибки: net/http включает URL с токеном
func redactToken(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<redacted>")
}
