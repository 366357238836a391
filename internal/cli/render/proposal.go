package render

import (
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"io"
	"procurement_evaluation_system/internal"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
	"strings"
)

func RenderProposal(out io.Writer, p *models.Proposal) {
	proponent := "-"
	if p.Proponent.Proponent != nil {
		proponent = fmt.Sprintf("%s (%s)", p.Proponent.DisplayName(), p.Proponent.Kind())
	}

	fmt.Fprintln(out)
	titleStyle.Fprintf(out, "Proposal %s\n", p.ID)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Opportunity:"), p.OpportunityID)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Proponent:  "), proponent)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Status:     "), proposalStatusStyle(p.Status).Sprint(p.Status))
	if p.SubmittedAt != nil {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Submitted:  "), internal.Format(*p.SubmittedAt))
	}
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Price:      "), FormatPrice(p.Price))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Price score:"), evaluation.FormatScore(p.PriceScore))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Total:      "), evaluation.FormatScore(p.TotalScore))

	if len(p.StageResults) == 0 {
		return
	}

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Stage", "Raw", "Percentage", "Outcome"})
	for _, result := range p.StageResults {
		outcome := "pending"
		if result.IsFinalized() {
			outcome = "screened out"
			if result.Advanced {
				outcome = "advanced"
			}
		}
		pct := result.Percentage
		t.AppendRow(table.Row{result.Stage + 1, result.RawScore, evaluation.FormatScore(&pct), outcome})
	}
	fmt.Fprintln(out)
	t.Render()
}
