package render

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"procurement_evaluation_system/internal/db/models"
	"strings"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.FgWhite, color.Bold)
	mutedStyle   = color.New(color.Faint)
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed)

	printer = message.NewPrinter(language.English)
)

func FormatSuccess(msg string) string {
	return successStyle.Sprintf("✓ %s", msg)
}

// FormatError keeps only the last part of a wrapped error chain.
func FormatError(msg string) string {
	parts := strings.Split(msg, ": ")
	last := parts[len(parts)-1]
	if len(parts) > 1 {
		last = parts[len(parts)-2] + ": " + last
	}
	return errorStyle.Sprintf("✗ %s", last)
}

// FormatPrice groups thousands, e.g. 1,250,000.00.
func FormatPrice(price float64) string {
	return printer.Sprintf("%.2f", price)
}

func opportunityStatusStyle(status models.OpportunityStatus) *color.Color {
	switch status.Kind {
	case models.OpportunityAwarded:
		return successStyle
	case models.OpportunitySuspended, models.OpportunityCanceled:
		return errorStyle
	case models.OpportunityEvaluation:
		return warningStyle
	default:
		return labelStyle
	}
}

func proposalStatusStyle(status models.ProposalStatus) *color.Color {
	switch status {
	case models.ProposalStatusAwarded:
		return successStyle
	case models.ProposalStatusDisqualified, models.ProposalStatusWithdrawn, models.ProposalStatusNotAwarded:
		return errorStyle
	case models.ProposalStatusUnderReview, models.ProposalStatusEvaluated:
		return warningStyle
	default:
		return labelStyle
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Format.Header = text.FormatDefault
	return t
}
