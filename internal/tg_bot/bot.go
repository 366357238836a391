package tgbot

import (
	"context"
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"procurement_evaluation_system/configs"
	"procurement_evaluation_system/internal/evaluation"
	"procurement_evaluation_system/internal/tg_bot/extension"
)

// Sender is the part of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts opportunity status changes to one Telegram chat.
type Notifier struct {
	sender Sender
	chatID int64
	logger *zap.SugaredLogger
}

var _ evaluation.Notifier = (*Notifier)(nil)

func NewNotifier(config configs.Telegram, logger *zap.SugaredLogger) (*Notifier, error) {
	logger.Info("creating bot")
	bot, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Infow("bot created", "username", bot.Self.UserName)

	return NewNotifierWithSender(bot, config.ChatID, logger), nil
}

func NewNotifierWithSender(sender Sender, chatID int64, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{sender: sender, chatID: chatID, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, notification evaluation.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := extension.StatusMessage(n.chatID, notification)
	if _, err := n.sender.Send(message); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	n.logger.Debugw("notification sent", "opportunity_id", notification.OpportunityID, "status", notification.Status.String())
	return nil
}
