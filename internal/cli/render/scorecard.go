package render

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"io"
	"procurement_evaluation_system/internal/evaluation"
	"procurement_evaluation_system/internal/tg_bot/extension"
	"sort"
)

func RenderScorecard(out io.Writer, card *evaluation.Scorecard) {
	fmt.Fprintln(out)
	titleStyle.Fprintf(out, "%s\n", card.Title)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Sprint("Status:"), opportunityStatusStyle(card.Status).Sprint(extension.StatusLabel(card.Status)))

	if len(card.Rows) == 0 {
		fmt.Fprintln(out, "No proposals")
		return
	}

	header := table.Row{"Rank", "Proponent", "Status", "Price"}
	for i, label := range card.StageLabels {
		header = append(header, fmt.Sprintf("%s (%d%%)", label, card.StageWeights[i]))
	}
	header = append(header, fmt.Sprintf("Price score (%d%%)", card.PriceWeight), "Total")

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(header)
	for _, row := range card.Rows {
		r := table.Row{row.Rank, row.Proponent, proposalStatusStyle(row.Status).Sprint(row.Status), FormatPrice(row.Price)}
		for _, stage := range row.Stages {
			r = append(r, stage)
		}
		r = append(r, row.PriceScore, row.TotalScore)
		t.AppendRow(r)
	}

	configs := []table.ColumnConfig{{Number: 4, Align: text.AlignRight}}
	for i := 0; i < len(card.StageLabels)+2; i++ {
		configs = append(configs, table.ColumnConfig{Number: 5 + i, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	fmt.Fprintln(out)
	t.Render()
}

func RenderRanking(out io.Writer, ranking []evaluation.RankedProposal) {
	if len(ranking) == 0 {
		fmt.Fprintln(out, "No ranked proposals")
		return
	}

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Rank", "Proposal", "Total"})
	for _, r := range ranking {
		total := r.TotalScore
		t.AppendRow(table.Row{r.Rank, r.ProposalID, evaluation.FormatScore(&total)})
	}
	t.Render()
}

// RenderSuggestions prints the screening hint for each contender, sorted by proposal id.
func RenderSuggestions(out io.Writer, suggestions map[uuid.UUID]bool) {
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No contenders")
		return
	}

	ids := make([]uuid.UUID, 0, len(suggestions))
	for id := range suggestions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	t := newTable()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Proposal", "Suggestion"})
	for _, id := range ids {
		suggestion := errorStyle.Sprint("screen out")
		if suggestions[id] {
			suggestion = successStyle.Sprint("advance")
		}
		t.AppendRow(table.Row{id, suggestion})
	}
	t.Render()
}
