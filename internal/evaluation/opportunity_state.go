package evaluation

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"procurement_evaluation_system/internal/db/models"
	"strings"
	"time"
)

type opportunityGate int

const (
	// gateOwnerOrAdmin lets the opportunity owner or any admin take the edge.
	gateOwnerOrAdmin opportunityGate = iota
	gateAdmin
	// gateInternal edges are only taken by FinalizeStage and Award.
	gateInternal
)

type opportunityGuard struct {
	gate          opportunityGate
	afterDeadline bool
}

type opportunityEdge struct {
	from models.OpportunityStatusKind
	to   models.OpportunityStatusKind
}

var opportunityGuards = map[opportunityEdge]opportunityGuard{
	{models.OpportunityDraft, models.OpportunityUnderReview}:     {gate: gateOwnerOrAdmin},
	{models.OpportunityDraft, models.OpportunityPublished}:       {gate: gateOwnerOrAdmin},
	{models.OpportunityUnderReview, models.OpportunityPublished}: {gate: gateAdmin},
	{models.OpportunityUnderReview, models.OpportunitySuspended}: {gate: gateAdmin},
	{models.OpportunityPublished, models.OpportunityEvaluation}:  {gate: gateOwnerOrAdmin, afterDeadline: true},
	{models.OpportunityPublished, models.OpportunitySuspended}:   {gate: gateOwnerOrAdmin},
	{models.OpportunityPublished, models.OpportunityCanceled}:    {gate: gateOwnerOrAdmin},
	{models.OpportunityEvaluation, models.OpportunityEvaluation}: {gate: gateInternal},
	{models.OpportunityEvaluation, models.OpportunityAwarded}:    {gate: gateInternal},
	{models.OpportunityEvaluation, models.OpportunitySuspended}:  {gate: gateOwnerOrAdmin},
	{models.OpportunityEvaluation, models.OpportunityCanceled}:   {gate: gateOwnerOrAdmin},
	{models.OpportunitySuspended, models.OpportunityPublished}:   {gate: gateOwnerOrAdmin},
	{models.OpportunitySuspended, models.OpportunityCanceled}:    {gate: gateOwnerOrAdmin},
}

var addendumStatuses = []models.OpportunityStatusKind{
	models.OpportunityPublished,
	models.OpportunityEvaluation,
	models.OpportunitySuspended,
	models.OpportunityAwarded,
	models.OpportunityCanceled,
}

type OpportunityInput struct {
	Title            string
	Kind             models.OpportunityKind
	Stages           []models.EvaluationStage
	PriceWeight      int
	ProposalDeadline time.Time
}

// NewOpportunity validates input and returns a Draft opportunity owned by actor.
func NewOpportunity(input OpportunityInput, actor models.Actor, now time.Time) (*models.Opportunity, error) {
	if actor.Role != models.UserRoleEvaluator && actor.Role != models.UserRoleAdmin {
		return nil, newError(CodeForbidden, "%s may not create opportunities", actor.Role)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, newError(CodeValidationFailed, "title is required")
	}
	if input.ProposalDeadline.IsZero() {
		return nil, newError(CodeValidationFailed, "proposal deadline is required")
	}

	stages := make([]models.EvaluationStage, len(input.Stages))
	copy(stages, input.Stages)
	if err := validateStages(input.Kind, stages); err != nil {
		return nil, err
	}
	if err := ValidateWeights(stages, input.PriceWeight); err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].MaxScore == 0 {
			stages[i].MaxScore = stages[i].Type.DefaultMaxScore()
		}
	}

	o := &models.Opportunity{
		ID:               uuid.New(),
		Title:            strings.TrimSpace(input.Title),
		OwnerID:          actor.ID,
		Kind:             input.Kind,
		Stages:           stages,
		PriceWeight:      input.PriceWeight,
		Status:           models.StatusOf(models.OpportunityDraft),
		ProposalDeadline: input.ProposalDeadline,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	o.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryStatus,
		Value:     o.Status.String(),
	})
	return o, nil
}

func validateStages(kind models.OpportunityKind, stages []models.EvaluationStage) error {
	switch kind {
	case models.OpportunityKindSingleStage:
		if len(stages) != 1 {
			return newError(CodeValidationFailed, "single-stage opportunity needs exactly one stage, got %d", len(stages))
		}
	case models.OpportunityKindMultiStage:
		if len(stages) < 2 {
			return newError(CodeValidationFailed, "multi-stage opportunity needs at least two stages, got %d", len(stages))
		}
	default:
		return newError(CodeValidationFailed, "unknown opportunity kind %q", kind)
	}

	for i, stage := range stages {
		if _, ok := models.ParseStageType(stage.Type.String()); !ok {
			return newError(CodeValidationFailed, "stage %d: unknown type %q", i, stage.Type)
		}
		if stage.MaxScore < 0 {
			return newError(CodeValidationFailed, "stage %d: max score must be positive", i)
		}
		if stage.MinimumPercentage < 0 || stage.MinimumPercentage > 100 {
			return newError(CodeValidationFailed, "stage %d: minimum percentage must lie in [0, 100]", i)
		}
	}
	return nil
}

// ValidateWeights requires every weight in [0, 100] and stage weights plus the price weight to total 100.
func ValidateWeights(stages []models.EvaluationStage, priceWeight int) error {
	if priceWeight < 0 || priceWeight > 100 {
		return newError(CodeValidationFailed, "price weight %d out of range", priceWeight)
	}

	total := priceWeight
	for i, stage := range stages {
		if stage.Weight < 0 || stage.Weight > 100 {
			return newError(CodeValidationFailed, "stage %d weight %d out of range", i, stage.Weight)
		}
		total += stage.Weight
	}
	if total != 100 {
		return newError(CodeValidationFailed, "weights total %d, want 100", total)
	}
	return nil
}

// TransitionOpportunity applies a caller-requested status change. Edges reserved for
// stage finalization and award are rejected here.
func TransitionOpportunity(o *models.Opportunity, to models.OpportunityStatus, actor models.Actor, now time.Time, note string) error {
	return transitionOpportunity(o, to, actor, now, note, false)
}

func transitionOpportunity(o *models.Opportunity, to models.OpportunityStatus, actor models.Actor, now time.Time, note string, internal bool) error {
	guard, ok := opportunityGuards[opportunityEdge{from: o.Status.Kind, to: to.Kind}]
	if !ok {
		return invalidTransition(o.Status, to)
	}
	if guard.gate == gateInternal && !internal {
		return invalidTransition(o.Status, to)
	}
	if err := checkEvaluationStage(o, to); err != nil {
		return err
	}

	switch guard.gate {
	case gateAdmin:
		if actor.Role != models.UserRoleAdmin {
			return newError(CodeForbidden, "only an admin may move an opportunity from %s to %s", o.Status, to)
		}
	case gateOwnerOrAdmin:
		if !canManage(o, actor) {
			return newError(CodeForbidden, "only the owner or an admin may move an opportunity from %s to %s", o.Status, to)
		}
	}

	if guard.afterDeadline && !now.After(o.ProposalDeadline) {
		return newError(CodeDeadlineNotReached, "proposal deadline %s has not passed", o.ProposalDeadline.Format(time.RFC3339))
	}

	o.Status = to
	o.UpdatedAt = now
	o.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryStatus,
		Value:     to.String(),
		Note:      note,
	})
	return nil
}

// EntryStage is the stage an opportunity enters when it moves into evaluation: stage 0 the
// first time, and the first stage that is not finalized after a suspension.
func EntryStage(o *models.Opportunity) int {
	return min(o.StagesFinalized, o.FinalStage())
}

// checkEvaluationStage keeps stage indexes contiguous: entering evaluation lands on EntryStage,
// each finalization moves one stage forward and only the final stage can be awarded.
func checkEvaluationStage(o *models.Opportunity, to models.OpportunityStatus) error {
	switch {
	case to.IsEvaluation() && !o.Status.IsEvaluation():
		if to.Stage != EntryStage(o) {
			return newError(CodeInvalidTransition, "evaluation resumes at stage %d, not %d", EntryStage(o), to.Stage)
		}
	case to.IsEvaluation() && o.Status.IsEvaluation():
		if to.Stage != o.Status.Stage+1 || to.Stage > o.FinalStage() {
			return invalidTransition(o.Status, to)
		}
	case to.Kind == models.OpportunityAwarded:
		if !o.IsFinalStage(o.Status.Stage) {
			return invalidTransition(o.Status, to)
		}
	}
	return nil
}

func canManage(o *models.Opportunity, actor models.Actor) bool {
	return actor.Role == models.UserRoleAdmin || o.IsOwnedBy(actor)
}

// AddAddendum records an addendum event without changing the status.
func AddAddendum(o *models.Opportunity, text string, actor models.Actor, now time.Time) error {
	if !lo.Contains(addendumStatuses, o.Status.Kind) {
		return newError(CodeInvalidTransition, "addenda cannot be added while %s", o.Status)
	}
	if !canManage(o, actor) {
		return newError(CodeForbidden, "only the owner or an admin may add an addendum")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return newError(CodeValidationFailed, "addendum text is required")
	}

	o.UpdatedAt = now
	o.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryEvent,
		Value:     models.OpportunityEventAddendumAdded.String(),
		Note:      text,
	})
	return nil
}
