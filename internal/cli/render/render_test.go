package render

import (
	"bytes"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/evaluation"
	"testing"
	"time"
)

func init() {
	color.NoColor = true
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,250,000.00", FormatPrice(1250000))
	assert.Equal(t, "99.50", FormatPrice(99.5))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "✗ forbidden: only proponents may create proposals",
		FormatError("create proposal: forbidden: only proponents may create proposals"))
	assert.Equal(t, "✗ boom", FormatError("boom"))
}

func TestRenderScorecard_UnavailableCells(t *testing.T) {
	card := &evaluation.Scorecard{
		Title:        "Digital services",
		Status:       models.Evaluation(1),
		StageLabels:  []string{"Team Questions", "Code Challenge"},
		StageWeights: []int{30, 40},
		PriceWeight:  30,
		Rows: []evaluation.ScorecardRow{
			{ProposalID: uuid.New(), Proponent: "Acme", Status: models.ProposalStatusEvaluated, Price: 1000,
				Stages: []string{"80.00", "-"}, PriceScore: "-", TotalScore: "-", Rank: "-"},
		},
	}

	var out bytes.Buffer
	RenderScorecard(&out, card)

	assert.Contains(t, out.String(), "Digital services")
	assert.Contains(t, out.String(), "Evaluation (stage 2)")
	assert.Contains(t, out.String(), "Team Questions (30%)")
	assert.Contains(t, out.String(), "Price score (30%)")
	assert.Contains(t, out.String(), "Acme")
	assert.Contains(t, out.String(), "80.00")
	assert.Contains(t, out.String(), "1,000.00")
}

func TestRenderOpportunity(t *testing.T) {
	o := &models.Opportunity{
		ID:               uuid.New(),
		Title:            "Digital services",
		Kind:             models.OpportunityKindMultiStage,
		Status:           models.Evaluation(0),
		PriceWeight:      30,
		ProposalDeadline: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Stages: []models.EvaluationStage{
			{Type: models.StageTypeTeamQuestions, Weight: 30, MinimumPercentage: 60},
			{Type: models.StageTypeCodeChallenge, Weight: 40},
		},
	}

	var out bytes.Buffer
	RenderOpportunity(&out, o)

	assert.Contains(t, out.String(), "01.03.2026 12:00 UTC")
	assert.Contains(t, out.String(), "Evaluation (stage 1)")
	assert.Contains(t, out.String(), "Code Challenge")
	assert.Contains(t, out.String(), "active")
	assert.Contains(t, out.String(), "60%")
}

func TestRenderHistory_SystemActor(t *testing.T) {
	var out bytes.Buffer
	RenderHistory(&out, []models.LedgerEntry{{
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Kind:      models.LedgerEntryStatus,
		Value:     "evaluation:0",
		Note:      "proposal deadline passed",
	}})

	assert.Contains(t, out.String(), "01.03.2026 12:00 UTC")
	assert.Contains(t, out.String(), "system")
	assert.Contains(t, out.String(), "evaluation:0")
	assert.Contains(t, out.String(), "proposal deadline passed")
}

func TestRenderSuggestions(t *testing.T) {
	var out bytes.Buffer
	RenderSuggestions(&out, map[uuid.UUID]bool{uuid.New(): true, uuid.New(): false})

	assert.Contains(t, out.String(), "advance")
	assert.Contains(t, out.String(), "screen out")
}
