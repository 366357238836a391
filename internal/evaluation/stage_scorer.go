package evaluation

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"math"
	"procurement_evaluation_system/internal/db/models"
	"time"
)

// scorePlaces is the precision evaluators may enter raw scores with.
const scorePlaces = 2

// ValidateRawScore checks raw against the stage scale.
func ValidateRawScore(stage models.EvaluationStage, raw float64) error {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return newError(CodeValidationFailed, "score must be a finite number")
	}

	scale := stage.Scale()
	if raw < 0 || raw > scale {
		return newError(CodeValidationFailed, "score %s is outside 0-%s for %s",
			decimal.NewFromFloat(raw).String(), decimal.NewFromFloat(scale).String(), stage.Type.Label())
	}

	d := decimal.NewFromFloat(raw)
	if !d.Round(scorePlaces).Equal(d) {
		return newError(CodeValidationFailed, "score %s has more than %d decimal places", d.String(), scorePlaces)
	}
	return nil
}

// Normalize maps a raw score onto 0-100.
func Normalize(raw, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, raw*100/scale))
}

// RecordScore stores the raw score for the active stage. It never changes the proposal status.
func RecordScore(o *models.Opportunity, p *models.Proposal, stage int, raw float64, actor models.Actor, now time.Time) (models.StageResult, error) {
	if !isEvaluator(actor) {
		return models.StageResult{}, newError(CodeForbidden, "only an evaluator may record scores")
	}
	if p.OpportunityID != o.ID {
		return models.StageResult{}, newError(CodeValidationFailed, "proposal %s does not belong to opportunity %s", p.ID, o.ID)
	}
	if stage < 0 || stage > o.FinalStage() {
		return models.StageResult{}, newError(CodeValidationFailed, "opportunity has no stage %d", stage)
	}
	if !o.Status.IsEvaluation() || o.Status.Stage != stage || o.StagesFinalized > stage {
		return models.StageResult{}, newError(CodeInvalidTransition, "stage %d is not open for scoring while %s", stage, o.Status)
	}
	if !p.Status.IsInEvaluation() {
		return models.StageResult{}, newError(CodeInvalidTransition, "proposal is %s and cannot be scored", p.Status)
	}
	if !p.AdvancedThrough(stage) {
		return models.StageResult{}, newError(CodeInvalidTransition, "proposal did not advance to stage %d", stage)
	}
	if existing, ok := p.Result(stage); ok && existing.IsFinalized() {
		return models.StageResult{}, newError(CodeInvalidTransition, "stage %d result is final", stage)
	}

	definition := o.Stages[stage]
	if err := ValidateRawScore(definition, raw); err != nil {
		return models.StageResult{}, err
	}

	result := models.StageResult{
		Stage:      stage,
		RawScore:   raw,
		Percentage: Normalize(raw, definition.Scale()),
	}
	p.SetResult(result)
	appendProposalEvent(p, models.ProposalEventScoreEntered, actor, now,
		fmt.Sprintf("%s: %s/%s", definition.Type.Label(), decimal.NewFromFloat(raw).String(), decimal.NewFromFloat(definition.Scale()).String()))
	return result, nil
}

// contenders returns the proposals still competing in stage.
func contenders(proposals []*models.Proposal, stage int) []*models.Proposal {
	var result []*models.Proposal
	for _, p := range proposals {
		if p.Status.IsInEvaluation() && p.AdvancedThrough(stage) {
			result = append(result, p)
		}
	}
	return result
}

// FinalizeStage closes the active stage with an advance decision for every contender and
// returns the proposals it changed. Finalizing the last stage also computes composite scores.
func FinalizeStage(o *models.Opportunity, proposals []*models.Proposal, decisions map[uuid.UUID]bool, actor models.Actor, now time.Time) ([]*models.Proposal, error) {
	if !isEvaluator(actor) {
		return nil, newError(CodeForbidden, "only an evaluator may finalize a stage")
	}
	if !o.Status.IsEvaluation() {
		return nil, newError(CodeInvalidTransition, "opportunity is %s, not in evaluation", o.Status)
	}
	stage := o.Status.Stage
	if o.StagesFinalized != stage {
		return nil, newError(CodeInvalidTransition, "stage %d is already finalized", stage)
	}

	competing := contenders(proposals, stage)
	competingIDs := make(map[uuid.UUID]bool, len(competing))
	for _, p := range competing {
		competingIDs[p.ID] = true
		if _, ok := p.Result(stage); !ok {
			return nil, newError(CodeValidationFailed, "proposal %s has no score for stage %d", p.ID, stage)
		}
		if _, ok := decisions[p.ID]; !ok {
			return nil, newError(CodeValidationFailed, "proposal %s has no decision for stage %d", p.ID, stage)
		}
	}
	for id := range decisions {
		if !competingIDs[id] {
			return nil, newError(CodeValidationFailed, "proposal %s is not competing in stage %d", id, stage)
		}
	}

	label := o.Stages[stage].Type.Label()
	for _, p := range competing {
		result, _ := p.Result(stage)
		finalizedAt := now
		result.Advanced = decisions[p.ID]
		result.FinalizedAt = &finalizedAt
		p.SetResult(result)

		setProposalStatus(p, models.ProposalStatusEvaluated, actor, now, label+" finalized")
		event := models.ProposalEventScreenedIn
		if !result.Advanced {
			event = models.ProposalEventScreenedOut
		}
		appendProposalEvent(p, event, actor, now, label)
	}

	o.StagesFinalized = stage + 1
	if !o.IsFinalStage(stage) {
		if err := transitionOpportunity(o, models.Evaluation(stage+1), actor, now, label+" finalized", true); err != nil {
			return nil, err
		}
		return competing, nil
	}

	o.UpdatedAt = now
	o.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryEvent,
		Value:     models.OpportunityEventStageFinalized.String(),
		Note:      label,
	})
	ComputeComposite(o, competing, actor, now)
	return competing, nil
}

// SuggestDecisions proposes an advance decision for every scored contender of the active stage
// from the stage's minimum percentage. It changes nothing.
func SuggestDecisions(o *models.Opportunity, proposals []*models.Proposal) (map[uuid.UUID]bool, error) {
	if !o.Status.IsEvaluation() || o.StagesFinalized != o.Status.Stage {
		return nil, newError(CodeInvalidTransition, "no stage is open while %s", o.Status)
	}

	stage := o.Status.Stage
	minimum := o.Stages[stage].MinimumPercentage
	suggestions := make(map[uuid.UUID]bool)
	for _, p := range contenders(proposals, stage) {
		if result, ok := p.Result(stage); ok {
			suggestions[p.ID] = result.Percentage >= minimum
		}
	}
	return suggestions, nil
}
