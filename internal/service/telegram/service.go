package telegram

import (
	"context"
	"encoding/json"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramGateway/internal/apperror"
	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
	"github.com/m04kA/SMC-TelegramGateway/pkg/ptr"
	"github.com/m04kA/SMC-TelegramGateway/pkg/retry"
)

const msgEmptyMessage = "message or media is required"

// Service сервис возможностей Telegram: один метод на одну операцию Bot API
// Единственный потребитель клиента Telegram
type Service struct {
	client  Client
	retrier *retry.Retrier
	logger  Logger
}

// NewService создает новый экземпляр Telegram сервиса
// retrier применяется только к получению списка администраторов
func NewService(client Client, retrier *retry.Retrier, logger Logger) *Service {
	if retrier == nil {
		retrier = retry.New(retry.DefaultPolicy())
	}

	return &Service{
		client:  client,
		retrier: retrier,
		logger:  logger,
	}
}

// MembersCount возвращает количество участников чата
func (s *Service) MembersCount(ctx context.Context, token string, chatID domain.ChatID) (int, error) {
	count, err := s.client.GetChatMembersCount(ctx, token, chatID.String())
	if err != nil {
		return 0, toAppError(opMembersCount, err)
	}

	return count, nil
}

// Administrators возвращает администраторов чата
// Это единственная операция с повторами на 429: она только читает данные
func (s *Service) Administrators(ctx context.Context, token string, chatID domain.ChatID) ([]domain.ChatAdmin, error) {
	members, err := retry.Do(ctx, s.retrier, func(ctx context.Context) ([]tgbotapi.ChatMember, error) {
		return s.client.GetChatAdministrators(ctx, token, chatID.String())
	}, classifyRateLimit)
	if err != nil {
		return nil, toAppError(opAdministrators, err)
	}

	// Проекция только для административных статусов
	admins := make([]domain.ChatAdmin, 0, len(members))
	for _, member := range members {
		if !domain.MemberStatus(member.Status).IsAdmin() {
			continue
		}
		admins = append(admins, toChatAdmin(member))
	}

	return admins, nil
}

// ChatInfo возвращает проекцию объекта чата
func (s *Service) ChatInfo(ctx context.Context, token string, chatID domain.ChatID) (*domain.ChatInfo, error) {
	chat, err := s.client.GetChat(ctx, token, chatID.String())
	if err != nil {
		return nil, toAppError(opChatInfo, err)
	}

	return &domain.ChatInfo{
		ID:          chat.ID,
		Title:       ptr.NilIfZero(chat.Title),
		Username:    ptr.NilIfZero(chat.UserName),
		Type:        ptr.NilIfZero(chat.Type),
		MemberCount: chat.MembersCount,
		Description: ptr.NilIfZero(chat.Description),
		InviteLink:  ptr.NilIfZero(chat.InviteLink),
	}, nil
}

// SendMessage отправляет текст или медиа
// При наличии медиа текст уходит в caption, отдельное текстовое сообщение не отправляется
func (s *Service) SendMessage(ctx context.Context, token string, msg *domain.OutgoingMessage) (*domain.MessageResult, error) {
	if msg.Text == "" && !msg.HasMedia() {
		return nil, apperror.Validation(msgEmptyMessage, []apperror.FieldError{
			{Path: "body.message", Message: msgEmptyMessage},
		})
	}

	var (
		sent *tgbotapi.Message
		err  error
		op   string
	)

	switch msg.MediaKind() {
	case domain.MediaKindPhoto:
		op = opSendPhoto
		sent, err = s.client.SendPhoto(ctx, token, toMediaRequest(msg))
	case domain.MediaKindDocument:
		op = opSendDocument
		sent, err = s.client.SendDocument(ctx, token, toMediaRequest(msg))
	default:
		op = opSendMessage
		sent, err = s.client.SendMessage(ctx, token, tgclient.SendMessageRequest{
			ChatID:           msg.ChatID.String(),
			Text:             msg.Text,
			ParseMode:        msg.ParseMode,
			ReplyToMessageID: msg.ReplyToMessageID,
		})
	}
	if err != nil {
		return nil, toAppError(op, err)
	}

	result := &domain.MessageResult{
		MessageID: sent.MessageID,
		Success:   true,
	}
	if sent.Chat != nil {
		result.ChatID = sent.Chat.ID
	} else if id, ok := msg.ChatID.Int64(); ok {
		result.ChatID = id
	}

	return result, nil
}

// CreateInviteLink создаёт дополнительную ссылку-приглашение
func (s *Service) CreateInviteLink(ctx context.Context, token string, chatID domain.ChatID, opts domain.InviteLinkOptions) (string, error) {
	link, err := s.client.CreateChatInviteLink(ctx, token, tgclient.CreateInviteLinkRequest{
		ChatID:      chatID.String(),
		ExpireDate:  opts.ExpireDate,
		MemberLimit: opts.MemberLimit,
		Name:        opts.Name,
	})
	if err != nil {
		return "", toAppError(opCreateInviteLink, err)
	}

	return link, nil
}

// ExportInviteLink перевыпускает основную ссылку-приглашение
func (s *Service) ExportInviteLink(ctx context.Context, token string, chatID domain.ChatID) (string, error) {
	link, err := s.client.ExportChatInviteLink(ctx, token, chatID.String())
	if err != nil {
		return "", toAppError(opExportInviteLink, err)
	}

	return link, nil
}

// BanMember банит участника чата
func (s *Service) BanMember(ctx context.Context, token string, chatID domain.ChatID, userID int64, opts domain.BanOptions) (bool, error) {
	ok, err := s.client.BanChatMember(ctx, token, tgclient.BanMemberRequest{
		ChatID:         chatID.String(),
		UserID:         userID,
		UntilDate:      opts.UntilDate,
		RevokeMessages: opts.RevokeMessages,
	})
	if err != nil {
		return false, toAppError(opBanMember, err)
	}

	s.logger.Info("Member %d banned in chat %s", userID, chatID)
	return ok, nil
}

// UnbanMember снимает бан с участника
func (s *Service) UnbanMember(ctx context.Context, token string, chatID domain.ChatID, userID int64) (bool, error) {
	ok, err := s.client.UnbanChatMember(ctx, token, chatID.String(), userID)
	if err != nil {
		return false, toAppError(opUnbanMember, err)
	}

	s.logger.Info("Member %d unbanned in chat %s", userID, chatID)
	return ok, nil
}

// PromoteMember назначает участника администратором с указанными правами
func (s *Service) PromoteMember(ctx context.Context, token string, chatID domain.ChatID, userID int64, permissions domain.PromotePermissions) (bool, error) {
	ok, err := s.client.PromoteChatMember(ctx, token, tgclient.PromoteMemberRequest{
		ChatID:      chatID.String(),
		UserID:      userID,
		Permissions: permissions,
	})
	if err != nil {
		return false, toAppError(opPromoteMember, err)
	}

	s.logger.Info("Member %d promoted in chat %s", userID, chatID)
	return ok, nil
}

// Updates возвращает updates бота без преобразования
func (s *Service) Updates(ctx context.Context, token string, offset, limit int) ([]json.RawMessage, error) {
	updates, err := s.client.GetUpdates(ctx, token, tgclient.GetUpdatesRequest{
		Offset:  offset,
		Limit:   limit,
		Timeout: updatesPollTimeout,
	})
	if err != nil {
		return nil, toAppError(opUpdates, err)
	}

	if updates == nil {
		updates = []json.RawMessage{}
	}

	return updates, nil
}

func toMediaRequest(msg *domain.OutgoingMessage) tgclient.SendMediaRequest {
	return tgclient.SendMediaRequest{
		ChatID:           msg.ChatID.String(),
		URL:              msg.MediaURL,
		Caption:          msg.Caption(),
		ParseMode:        msg.ParseMode,
		ReplyToMessageID: msg.ReplyToMessageID,
	}
}

func toChatAdmin(member tgbotapi.ChatMember) domain.ChatAdmin {
	admin := domain.ChatAdmin{
		Status:      domain.MemberStatus(member.Status),
		CustomTitle: ptr.NilIfZero(member.CustomTitle),
	}

	if member.User != nil {
		admin.ID = member.User.ID
		admin.Username = member.User.UserName
		admin.FirstName = member.User.FirstName
		admin.LastName = member.User.LastName
		admin.IsBot = member.User.IsBot
	}

	return admin
}

// classifyRateLimit повторяет только ответы 429, ожидание берётся из Retry-After
func classifyRateLimit(err error) (bool, time.Duration) {
	apiErr, ok := tgclient.AsAPIError(err)
	if !ok || !apiErr.IsRateLimited() {
		return false, 0
	}

	return true, apiErr.RetryAfter
}
