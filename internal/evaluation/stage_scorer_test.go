package evaluation

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"procurement_evaluation_system/internal/db/models"
	"testing"
	"time"
)

func evaluatingOpportunity(t *testing.T, owner models.Actor) *models.Opportunity {
	t.Helper()
	o := newTestOpportunity(t, owner)
	o.Status = models.Evaluation(0)
	return o
}

func reviewedProposal(o *models.Opportunity) *models.Proposal {
	p := newTestProposal(newProponent(), models.ProposalStatusUnderReview)
	p.OpportunityID = o.ID
	return p
}

func TestValidateRawScore(t *testing.T) {
	questions := models.EvaluationStage{Type: models.StageTypeTeamQuestions}
	challenge := models.EvaluationStage{Type: models.StageTypeCodeChallenge, MaxScore: 100}

	assert.NoError(t, ValidateRawScore(questions, 0))
	assert.NoError(t, ValidateRawScore(questions, 10))
	assert.NoError(t, ValidateRawScore(questions, 7.25))
	assert.NoError(t, ValidateRawScore(challenge, 99.99))

	assert.ErrorIs(t, ValidateRawScore(questions, 10.01), ErrValidationFailed)
	assert.ErrorIs(t, ValidateRawScore(questions, -1), ErrValidationFailed)
	assert.ErrorIs(t, ValidateRawScore(challenge, 100.5), ErrValidationFailed)
	assert.ErrorIs(t, ValidateRawScore(challenge, 50.125), ErrValidationFailed)
	assert.ErrorIs(t, ValidateRawScore(challenge, math.NaN()), ErrValidationFailed)
	assert.ErrorIs(t, ValidateRawScore(challenge, math.Inf(1)), ErrValidationFailed)
}

func TestNormalizeStaysWithinBounds(t *testing.T) {
	for _, scale := range []float64{1, 5, 10, 20, 100, 250} {
		for raw := 0.0; raw <= scale; raw += scale / 40 {
			pct := Normalize(raw, scale)
			assert.GreaterOrEqual(t, pct, 0.0)
			assert.LessOrEqual(t, pct, 100.0)
		}
		assert.Equal(t, 100.0, Normalize(scale, scale))
		assert.Equal(t, 0.0, Normalize(0, scale))
	}
	assert.Equal(t, 90.0, Normalize(9, 10))
	assert.Equal(t, 0.0, Normalize(5, 0))
}

func TestRecordScore(t *testing.T) {
	owner := newEvaluator()
	o := evaluatingOpportunity(t, owner)
	p := reviewedProposal(o)

	result, err := RecordScore(o, p, 0, 9, owner, testNow)
	require.NoError(t, err)
	assert.Equal(t, 90.0, result.Percentage)
	assert.False(t, result.IsFinalized())
	assert.Equal(t, models.ProposalStatusUnderReview, p.Status, "recording never moves the proposal")

	result, err = RecordScore(o, p, 0, 7.5, owner, testNow)
	require.NoError(t, err, "scores stay editable until finalization")
	assert.Equal(t, 75.0, result.Percentage)
	require.Len(t, p.StageResults, 1)

	last, _ := p.Ledger.Last()
	assert.Equal(t, "score_entered", last.Value)
}

func TestRecordScore_Rejections(t *testing.T) {
	owner := newEvaluator()
	o := evaluatingOpportunity(t, owner)

	_, err := RecordScore(o, reviewedProposal(o), 0, 5, newProponent(), testNow)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = RecordScore(o, reviewedProposal(o), 1, 50, owner, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition, "stage 1 is not active")

	_, err = RecordScore(o, reviewedProposal(o), 5, 50, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = RecordScore(o, reviewedProposal(o), 0, 11, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed)

	withdrawn := reviewedProposal(o)
	withdrawn.Status = models.ProposalStatusWithdrawn
	_, err = RecordScore(o, withdrawn, 0, 5, owner, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	foreign := reviewedProposal(o)
	foreign.OpportunityID = uuid.New()
	_, err = RecordScore(o, foreign, 0, 5, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestFinalizeStage(t *testing.T) {
	owner := newEvaluator()
	o := evaluatingOpportunity(t, owner)
	in := reviewedProposal(o)
	out := reviewedProposal(o)
	withdrawn := reviewedProposal(o)
	withdrawn.Status = models.ProposalStatusWithdrawn
	proposals := []*models.Proposal{in, out, withdrawn}

	_, err := RecordScore(o, in, 0, 8, owner, testNow)
	require.NoError(t, err)
	_, err = RecordScore(o, out, 0, 1, owner, testNow)
	require.NoError(t, err)

	_, err = FinalizeStage(o, proposals, map[uuid.UUID]bool{in.ID: true}, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed, "every contender needs a decision")

	_, err = FinalizeStage(o, proposals, map[uuid.UUID]bool{in.ID: true, out.ID: false, withdrawn.ID: true}, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed, "withdrawn proposals are not contenders")

	changed, err := FinalizeStage(o, proposals, map[uuid.UUID]bool{in.ID: true, out.ID: false}, owner, testNow)
	require.NoError(t, err)
	assert.Len(t, changed, 2)
	assert.Equal(t, models.Evaluation(1), o.Status)
	assert.Equal(t, 1, o.StagesFinalized)

	assert.Equal(t, models.ProposalStatusEvaluated, in.Status)
	assert.Equal(t, models.ProposalStatusEvaluated, out.Status)
	last, _ := out.Ledger.Last()
	assert.Equal(t, "screened_out", last.Value)
	stage, screened := out.ScreenedOutAt()
	assert.True(t, screened)
	assert.Equal(t, 0, stage)

	_, err = RecordScore(o, in, 0, 9, owner, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition, "finalized results are immutable")

	_, err = RecordScore(o, out, 1, 90, owner, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition, "screened proposals are not scored again")

	_, err = FinalizeStage(o, proposals, map[uuid.UUID]bool{in.ID: true}, owner, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed, "stage 1 needs a score first")
}

func TestFinalizeStage_RefinalizingFinalStage(t *testing.T) {
	owner := newEvaluator()
	o := newTestOpportunity(t, owner)
	o.Status = models.Evaluation(2)
	o.StagesFinalized = 2
	p := reviewedProposal(o)
	for stage := 0; stage < 2; stage++ {
		at := testNow
		p.SetResult(models.StageResult{Stage: stage, RawScore: 5, Percentage: 50, Advanced: true, FinalizedAt: &at})
	}
	_, err := RecordScore(o, p, 2, 70, owner, testNow)
	require.NoError(t, err)

	decisions := map[uuid.UUID]bool{p.ID: true}
	_, err = FinalizeStage(o, []*models.Proposal{p}, decisions, owner, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.Evaluation(2), o.Status)
	assert.Equal(t, 3, o.StagesFinalized)
	require.NotNil(t, p.TotalScore)

	before := o.Ledger.Len()
	_, err = FinalizeStage(o, []*models.Proposal{p}, decisions, owner, testNow.Add(time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, before, o.Ledger.Len())
}

func TestSuggestDecisions(t *testing.T) {
	owner := newEvaluator()
	o := evaluatingOpportunity(t, owner)
	o.Stages[0].MinimumPercentage = 60
	strong := reviewedProposal(o)
	weak := reviewedProposal(o)
	unscored := reviewedProposal(o)

	_, err := RecordScore(o, strong, 0, 6, owner, testNow)
	require.NoError(t, err)
	_, err = RecordScore(o, weak, 0, 5.99, owner, testNow)
	require.NoError(t, err)

	suggestions, err := SuggestDecisions(o, []*models.Proposal{strong, weak, unscored})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]bool{strong.ID: true, weak.ID: false}, suggestions)
}
