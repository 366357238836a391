package evaluation

import (
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
	"time"
)

type deadlineRule int

const (
	anyTime deadlineRule = iota
	beforeDeadline
	afterDeadline
)

type proposalGuard struct {
	// evaluator edges are open to evaluators and admins, the rest to the submitting proponent.
	evaluator bool
	deadline  deadlineRule
}

type proposalEdge struct {
	from models.ProposalStatus
	to   models.ProposalStatus
}

var (
	proponentBeforeDeadline = proposalGuard{deadline: beforeDeadline}
	proponentAnyTime        = proposalGuard{deadline: anyTime}
	evaluatorAfterDeadline  = proposalGuard{evaluator: true, deadline: afterDeadline}
)

var proposalGuards = map[proposalEdge]proposalGuard{
	{models.ProposalStatusDraft, models.ProposalStatusSubmitted}:          proponentBeforeDeadline,
	{models.ProposalStatusSubmitted, models.ProposalStatusWithdrawn}:      proponentAnyTime,
	{models.ProposalStatusSubmitted, models.ProposalStatusUnderReview}:    evaluatorAfterDeadline,
	{models.ProposalStatusUnderReview, models.ProposalStatusEvaluated}:    evaluatorAfterDeadline,
	{models.ProposalStatusUnderReview, models.ProposalStatusDisqualified}: evaluatorAfterDeadline,
	{models.ProposalStatusUnderReview, models.ProposalStatusWithdrawn}:    proponentAnyTime,
	{models.ProposalStatusEvaluated, models.ProposalStatusEvaluated}:      evaluatorAfterDeadline,
	{models.ProposalStatusEvaluated, models.ProposalStatusAwarded}:        evaluatorAfterDeadline,
	{models.ProposalStatusEvaluated, models.ProposalStatusNotAwarded}:     evaluatorAfterDeadline,
	{models.ProposalStatusEvaluated, models.ProposalStatusDisqualified}:   evaluatorAfterDeadline,
	{models.ProposalStatusEvaluated, models.ProposalStatusWithdrawn}:      proponentAnyTime,
	{models.ProposalStatusAwarded, models.ProposalStatusDisqualified}:     evaluatorAfterDeadline,
	{models.ProposalStatusNotAwarded, models.ProposalStatusAwarded}:       evaluatorAfterDeadline,
	{models.ProposalStatusNotAwarded, models.ProposalStatusDisqualified}:  evaluatorAfterDeadline,
	{models.ProposalStatusWithdrawn, models.ProposalStatusSubmitted}:      proponentBeforeDeadline,
}

// TransitionProposal checks the edge, the actor and the deadline, then records the new status.
func TransitionProposal(p *models.Proposal, to models.ProposalStatus, actor models.Actor, now, deadline time.Time, note string) error {
	guard, ok := proposalGuards[proposalEdge{from: p.Status, to: to}]
	if !ok {
		return invalidTransition(p.Status, to)
	}

	if guard.evaluator {
		if !isEvaluator(actor) {
			return newError(CodeForbidden, "only an evaluator may move a proposal from %s to %s", p.Status, to)
		}
	} else if actor.Role != models.UserRoleProponent || actor.ID != p.CreatedBy {
		return newError(CodeForbidden, "only the submitting proponent may move a proposal from %s to %s", p.Status, to)
	}

	switch guard.deadline {
	case beforeDeadline:
		if now.After(deadline) {
			return newError(CodeDeadlinePassed, "proposal deadline %s has passed", deadline.Format(time.RFC3339))
		}
	case afterDeadline:
		if !now.After(deadline) {
			return newError(CodeDeadlineNotReached, "proposal deadline %s has not passed", deadline.Format(time.RFC3339))
		}
	}

	setProposalStatus(p, to, actor, now, note)
	if to == models.ProposalStatusSubmitted {
		submittedAt := now
		p.SubmittedAt = &submittedAt
	}
	return nil
}

func setProposalStatus(p *models.Proposal, to models.ProposalStatus, actor models.Actor, now time.Time, note string) {
	p.Status = to
	p.UpdatedAt = now
	p.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryStatus,
		Value:     to.String(),
		Note:      note,
	})
}

func appendProposalEvent(p *models.Proposal, event models.ProposalEvent, actor models.Actor, now time.Time, note string) {
	p.UpdatedAt = now
	p.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryEvent,
		Value:     event.String(),
		Note:      note,
	})
}

func isEvaluator(actor models.Actor) bool {
	return actor.Role == models.UserRoleEvaluator || actor.Role == models.UserRoleAdmin
}

type ProposalInput struct {
	Proponent models.ProponentValue
	Price     float64
}

// NewProposal returns a Draft proposal against a published opportunity.
func NewProposal(input ProposalInput, o *models.Opportunity, actor models.Actor, now time.Time) (*models.Proposal, error) {
	if actor.Role != models.UserRoleProponent {
		return nil, newError(CodeForbidden, "only proponents may create proposals")
	}
	if o.Status.Kind != models.OpportunityPublished {
		return nil, newError(CodeInvalidTransition, "opportunity is %s, not accepting proposals", o.Status)
	}
	if now.After(o.ProposalDeadline) {
		return nil, newError(CodeDeadlinePassed, "proposal deadline %s has passed", o.ProposalDeadline.Format(time.RFC3339))
	}
	if input.Proponent.Proponent == nil {
		return nil, newError(CodeValidationFailed, "proponent is required")
	}
	if individual, ok := input.Proponent.Proponent.(models.IndividualProponent); ok && individual.UserID != actor.ID {
		return nil, newError(CodeForbidden, "an individual proponent can only submit for themselves")
	}
	if input.Price <= 0 {
		return nil, newError(CodeValidationFailed, "price must be positive")
	}

	p := &models.Proposal{
		ID:            uuid.New(),
		OpportunityID: o.ID,
		CreatedBy:     actor.ID,
		Proponent:     input.Proponent,
		Status:        models.ProposalStatusDraft,
		Price:         input.Price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Ledger.Append(models.LedgerEntry{
		CreatedAt: now,
		ActorID:   actor.LedgerActorID(),
		Kind:      models.LedgerEntryStatus,
		Value:     p.Status.String(),
	})
	return p, nil
}

// checkSingleActive rejects p when another proposal of the same proponent is still in the running.
func checkSingleActive(p *models.Proposal, others []*models.Proposal) error {
	key := p.Proponent.Key()
	for _, other := range others {
		if other.ID == p.ID || other.Status.IsOutOfRunning() {
			continue
		}
		if other.Proponent.Proponent != nil && other.Proponent.Key() == key {
			return newError(CodeValidationFailed, "%s already has proposal %s for this opportunity", p.Proponent.DisplayName(), other.ID)
		}
	}
	return nil
}
