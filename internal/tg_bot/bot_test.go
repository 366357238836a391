package tgbot

import (
	"context"
	"errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
	"testing"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func TestNotifier_SendsStatusMessage(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifierWithSender(sender, 42, zap.NewNop().Sugar())

	err := notifier.Notify(context.Background(), evaluation.Notification{
		OpportunityID: uuid.New(),
		Title:         "Digital services",
		Status:        models.Evaluation(1),
		Note:          "stage 1 of 3 finalized",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	message, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), message.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, message.ParseMode)
	assert.Contains(t, message.Text, "*Digital services*")
	assert.Contains(t, message.Text, "Evaluation (stage 2)")
	assert.Contains(t, message.Text, "stage 1 of 3 finalized")
}

func TestNotifier_WrapsSendErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	notifier := NewNotifierWithSender(sender, 42, zap.NewNop().Sugar())

	err := notifier.Notify(context.Background(), evaluation.Notification{Status: models.StatusOf(models.OpportunityAwarded)})
	assert.ErrorContains(t, err, "chat not found")
}

func TestNotifier_CanceledContext(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifierWithSender(sender, 42, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, notifier.Notify(ctx, evaluation.Notification{}), context.Canceled)
	assert.Empty(t, sender.sent)
}
