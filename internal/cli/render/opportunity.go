package render

import (
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"io"
	"procurement_evaluation_system/internal"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/tg_bot/extension"
	"strings"
)

func RenderOpportunity(out io.Writer, o *models.Opportunity) {
	fmt.Fprintln(out)
	titleStyle.Fprintf(out, "%s\n", o.Title)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("ID:      "), o.ID)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Kind:    "), o.Kind)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Status:  "), opportunityStatusStyle(o.Status).Sprint(extension.StatusLabel(o.Status)))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Deadline:"), internal.FormatDateTime(o.ProposalDeadline))
	fmt.Fprintf(out, "%s %d%%\n", labelStyle.Sprint("Price:   "), o.PriceWeight)

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "Stage", "Weight", "Max score", "Minimum", "State"})
	for i, stage := range o.Stages {
		state := ""
		switch {
		case i < o.StagesFinalized:
			state = "finalized"
		case o.Status.IsEvaluation() && o.Status.Stage == i:
			state = "active"
		}
		minimum := "-"
		if stage.MinimumPercentage > 0 {
			minimum = fmt.Sprintf("%.0f%%", stage.MinimumPercentage)
		}
		t.AppendRow(table.Row{i + 1, stage.Type.Label(), fmt.Sprintf("%d%%", stage.Weight), stage.Scale(), minimum, state})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	fmt.Fprintln(out)
	t.Render()
}

// RenderHistory prints ledger entries oldest first.
func RenderHistory(out io.Writer, entries []models.LedgerEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history")
		return
	}

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"When", "Kind", "Value", "Actor", "Note"})
	for _, entry := range entries {
		actor := "system"
		if entry.ActorID != nil {
			actor = entry.ActorID.String()
		}
		t.AppendRow(table.Row{
			internal.FormatDateTime(entry.CreatedAt),
			entry.Kind,
			entry.Value,
			mutedStyle.Sprint(actor),
			entry.Note,
		})
	}
	fmt.Fprintln(out)
	t.Render()
}
