package extension

import (
	"fmt"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
	"strings"
)

// StatusLabel renders a status for people, e.g. "Evaluation (stage 2)".
func StatusLabel(status models.OpportunityStatus) string {
	label := cases.Title(language.English).String(strings.ReplaceAll(status.Kind.String(), "_", " "))
	if status.IsEvaluation() {
		return fmt.Sprintf("%s (stage %d)", label, status.Stage+1)
	}
	return label
}

func StatusMessage(chatID int64, notification evaluation.Notification) tgbotapi.MessageConfig {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, notification.Title))
	fmt.Fprintf(&b, "Status: %s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, StatusLabel(notification.Status)))
	if notification.Note != "" {
		fmt.Fprintf(&b, "\n_%s_", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, notification.Note))
	}

	message := tgbotapi.NewMessage(chatID, b.String())
	message.ParseMode = tgbotapi.ModeMarkdown
	message.DisableWebPagePreview = true
	return message
}
