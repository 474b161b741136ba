package telegram

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-TelegramGateway/internal/domain"
	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
)

// updatesPollTimeout таймаут long polling getUpdates в секундах
const updatesPollTimeout = 10

// History собирает историю чата из updates бота
// getUpdates недоступен при активном webhook, поэтому webhook сначала удаляется
func (s *Service) History(ctx context.Context, token string, chatID domain.ChatID, limit, offset int) ([]domain.HistoryMessage, error) {
	if _, err := s.client.DeleteWebhook(ctx, token); err != nil {
		return nil, toAppError(opHistory, err)
	}

	updates, err := s.client.GetUpdates(ctx, token, tgclient.GetUpdatesRequest{
		Offset:  offset,
		Limit:   limit,
		Timeout: updatesPollTimeout,
	})
	if err != nil {
		return nil, toAppError(opHistory, err)
	}

	return s.filterHistory(updates, chatID.TrimAt()), nil
}

// Search ищет сообщения по подстроке без учёта регистра в последней странице истории
// Порядок сообщений сохраняется
func (s *Service) Search(ctx context.Context, token string, chatID domain.ChatID, query string, limit int) ([]domain.HistoryMessage, error) {
	history, err := s.History(ctx, token, chatID, limit, 0)
	if err != nil {
		return nil, err
	}

	found := make([]domain.HistoryMessage, 0, len(history))
	for _, msg := range history {
		if msg.ContainsFold(query) {
			found = append(found, msg)
		}
	}

	return found, nil
}

// filterHistory оставляет сообщения и посты канала из указанного чата
// target сравнивается с id чата или его username
func (s *Service) filterHistory(updates []json.RawMessage, target string) []domain.HistoryMessage {
	messages := make([]domain.HistoryMessage, 0, len(updates))

	for _, raw := range updates {
		var update tgbotapi.Update
		if err := json.Unmarshal(raw, &update); err != nil {
			s.logger.Warn("Skipping undecodable update: %v", err)
			continue
		}

		post := update.ChannelPost
		if post == nil {
			post = update.Message
		}
		if post == nil || post.Chat == nil || !chatMatches(post.Chat, target) {
			continue
		}

		messages = append(messages, toHistoryMessage(post))
	}

	return messages
}

func chatMatches(chat *tgbotapi.Chat, target string) bool {
	if strconv.FormatInt(chat.ID, 10) == target {
		return true
	}
	return chat.UserName != "" && strings.EqualFold(chat.UserName, target)
}

func toHistoryMessage(post *tgbotapi.Message) domain.HistoryMessage {
	msg := domain.HistoryMessage{
		ID:   post.MessageID,
		Text: post.Text,
		Date: post.Date,
		HTML: post.Text,
	}

	switch {
	case post.SenderChat != nil:
		msg.FromID = post.SenderChat.ID
	case post.From != nil:
		msg.FromID = post.From.ID
	}

	return msg
}
