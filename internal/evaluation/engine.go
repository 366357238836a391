package evaluation

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
	"time"
)

const tracerName = "procurement_evaluation_system/internal/evaluation"

type Config struct {
	// LockTimeout bounds the wait for another operation on the same opportunity.
	LockTimeout time.Duration
	Clock       func() time.Time
}

// Notification describes an opportunity status change after it was committed.
type Notification struct {
	OpportunityID uuid.UUID
	Title         string
	Status        models.OpportunityStatus
	Note          string
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// Engine serializes every mutation of an opportunity and its proposals and persists the
// result through a repositories.Store.
type Engine struct {
	store    repositories.Store
	cfg      Config
	locks    *locker
	logger   *zap.SugaredLogger
	tracer   trace.Tracer
	notifier Notifier
}

func NewEngine(store repositories.Store, cfg Config, logger *zap.SugaredLogger, notifier Notifier) *Engine {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Engine{
		store:    store,
		cfg:      cfg,
		locks:    newLocker(cfg.LockTimeout),
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		notifier: notifier,
	}
}

func (e *Engine) now() time.Time {
	return e.cfg.Clock().UTC()
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "Engine."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine) notify(ctx context.Context, o *models.Opportunity, note string) {
	if e.notifier == nil {
		return
	}

	err := e.notifier.Notify(ctx, Notification{
		OpportunityID: o.ID,
		Title:         o.Title,
		Status:        o.Status,
		Note:          note,
	})
	if err != nil {
		e.logger.Errorw("failed to send notification", "opportunity_id", o.ID, "error", err)
	}
}

// withLock runs fn inside one transaction while holding the opportunity lock. The store adds
// its own row lock, which covers writers in other processes.
func (e *Engine) withLock(ctx context.Context, opportunityID uuid.UUID, fn func(tx repositories.Store) error) error {
	release, err := e.locks.lock(ctx, opportunityID)
	if err != nil {
		return err
	}
	defer release()

	err = e.store.RunInTransaction(ctx, fn)
	if errors.Is(err, repositories.ErrConflict) {
		return newError(CodeConflict, "opportunity %s was changed by another writer, try again", opportunityID)
	}
	return err
}

func (e *Engine) CreateOpportunity(ctx context.Context, input OpportunityInput, actor models.Actor) (o *models.Opportunity, err error) {
	ctx, span := e.startSpan(ctx, "CreateOpportunity", attribute.String("actor.role", actor.Role.String()))
	defer func() { endSpan(span, err) }()

	o, err = NewOpportunity(input, actor, e.now())
	if err != nil {
		return nil, err
	}
	if err := e.store.Opportunities().Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}

	e.logger.Infow("opportunity created", "opportunity_id", o.ID, "title", o.Title, "stages", len(o.Stages))
	return o, nil
}

func (e *Engine) TransitionOpportunity(ctx context.Context, opportunityID uuid.UUID, to models.OpportunityStatus, actor models.Actor, note string) (result *models.Opportunity, err error) {
	ctx, span := e.startSpan(ctx, "TransitionOpportunity",
		attribute.String("opportunity.id", opportunityID.String()), attribute.String("status.to", to.String()))
	defer func() { endSpan(span, err) }()

	var from models.OpportunityStatus
	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		o, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		from = o.Status

		now := e.now()
		if err := TransitionOpportunity(o, to, actor, now, note); err != nil {
			return err
		}
		if to.IsEvaluation() && !from.IsEvaluation() {
			if err := e.openReview(ctx, tx, o, now); err != nil {
				return err
			}
		}
		if err := tx.Opportunities().Save(ctx, o); err != nil {
			return fmt.Errorf("save opportunity: %w", err)
		}

		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("opportunity transitioned", "opportunity_id", opportunityID, "from", from.String(), "to", result.Status.String())
	e.notify(ctx, result, note)
	return result, nil
}

// openReview moves every submitted proposal into review once the opportunity enters evaluation.
// Proposals already under review or evaluated keep their status and scores.
func (e *Engine) openReview(ctx context.Context, tx repositories.Store, o *models.Opportunity, now time.Time) error {
	proposals, err := tx.Proposals().GetManyByOpportunity(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("load proposals: %w", err)
	}

	for _, p := range proposals {
		if p.Status != models.ProposalStatusSubmitted {
			continue
		}
		setProposalStatus(p, models.ProposalStatusUnderReview, models.SystemActor, now, "proposal deadline passed")
		if err := tx.Proposals().Save(ctx, p); err != nil {
			return fmt.Errorf("save proposal %s: %w", p.ID, err)
		}
	}
	return nil
}

func (e *Engine) AddAddendum(ctx context.Context, opportunityID uuid.UUID, text string, actor models.Actor) (result *models.Opportunity, err error) {
	ctx, span := e.startSpan(ctx, "AddAddendum", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		o, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		if err := AddAddendum(o, text, actor, e.now()); err != nil {
			return err
		}
		if err := tx.Opportunities().Save(ctx, o); err != nil {
			return fmt.Errorf("save opportunity: %w", err)
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("addendum added", "opportunity_id", opportunityID)
	return result, nil
}

func (e *Engine) CreateProposal(ctx context.Context, opportunityID uuid.UUID, input ProposalInput, actor models.Actor) (result *models.Proposal, err error) {
	ctx, span := e.startSpan(ctx, "CreateProposal", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		o, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		p, err := NewProposal(input, o, actor, e.now())
		if err != nil {
			return err
		}
		others, err := tx.Proposals().GetManyByOpportunity(ctx, opportunityID)
		if err != nil {
			return fmt.Errorf("load proposals: %w", err)
		}
		if err := checkSingleActive(p, others); err != nil {
			return err
		}
		if err := tx.Proposals().Create(ctx, p); err != nil {
			return fmt.Errorf("create proposal: %w", err)
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("proposal created", "opportunity_id", opportunityID, "proposal_id", result.ID)
	return result, nil
}

// opportunityOf looks up the opportunity a proposal belongs to so the right lock can be taken.
func (e *Engine) opportunityOf(ctx context.Context, proposalID uuid.UUID) (uuid.UUID, error) {
	p, err := e.store.Proposals().GetOne(ctx, proposalID)
	if err != nil {
		return uuid.Nil, translateStoreError(err, "proposal")
	}
	return p.OpportunityID, nil
}

func (e *Engine) TransitionProposal(ctx context.Context, proposalID uuid.UUID, to models.ProposalStatus, actor models.Actor, note string) (result *models.Proposal, err error) {
	ctx, span := e.startSpan(ctx, "TransitionProposal",
		attribute.String("proposal.id", proposalID.String()), attribute.String("status.to", to.String()))
	defer func() { endSpan(span, err) }()

	opportunityID, err := e.opportunityOf(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	var from models.ProposalStatus
	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		o, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		p, err := tx.Proposals().GetOne(ctx, proposalID)
		if err != nil {
			return translateStoreError(err, "proposal")
		}
		from = p.Status
		ranked := p.TotalScore != nil

		// Edge and actor come before the single-active rule. p is dropped on any later error.
		now := e.now()
		if err := TransitionProposal(p, to, actor, now, o.ProposalDeadline, note); err != nil {
			return err
		}

		if to == models.ProposalStatusSubmitted {
			if o.Status.Kind != models.OpportunityPublished {
				return newError(CodeInvalidTransition, "opportunity is %s, not accepting submissions", o.Status)
			}
			others, err := tx.Proposals().GetManyByOpportunity(ctx, opportunityID)
			if err != nil {
				return fmt.Errorf("load proposals: %w", err)
			}
			if err := checkSingleActive(p, others); err != nil {
				return err
			}
		}

		if err := tx.Proposals().Save(ctx, p); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		if ranked && to.IsOutOfRunning() {
			if err := e.reprice(ctx, tx, o, p, now); err != nil {
				return err
			}
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("proposal transitioned", "proposal_id", proposalID, "from", from.String(), "to", to.String())
	return result, nil
}

// reprice rescores the remaining price pool after left dropped out of it.
func (e *Engine) reprice(ctx context.Context, tx repositories.Store, o *models.Opportunity, left *models.Proposal, now time.Time) error {
	proposals, err := tx.Proposals().GetManyByOpportunity(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("load proposals: %w", err)
	}
	for i, p := range proposals {
		if p.ID == left.ID {
			proposals[i] = left
		}
	}

	repriced := RepricePool(o, proposals, models.SystemActor, now)
	for _, p := range repriced {
		if err := tx.Proposals().Save(ctx, p); err != nil {
			return fmt.Errorf("save proposal %s: %w", p.ID, err)
		}
	}
	if len(repriced) > 0 {
		e.logger.Infow("price pool repriced", "opportunity_id", o.ID, "left", left.ID, "proposals", len(repriced))
	}
	return nil
}

func (e *Engine) RecordStageScore(ctx context.Context, proposalID uuid.UUID, stage int, raw float64, actor models.Actor) (result models.StageResult, err error) {
	ctx, span := e.startSpan(ctx, "RecordStageScore",
		attribute.String("proposal.id", proposalID.String()), attribute.Int("stage", stage))
	defer func() { endSpan(span, err) }()

	opportunityID, err := e.opportunityOf(ctx, proposalID)
	if err != nil {
		return models.StageResult{}, err
	}

	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		o, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		p, err := tx.Proposals().GetOne(ctx, proposalID)
		if err != nil {
			return translateStoreError(err, "proposal")
		}

		result, err = RecordScore(o, p, stage, raw, actor, e.now())
		if err != nil {
			return err
		}
		if err := tx.Proposals().Save(ctx, p); err != nil {
			return fmt.Errorf("save proposal: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.StageResult{}, err
	}

	e.logger.Infow("stage score recorded", "proposal_id", proposalID, "stage", stage, "percentage", FormatScore(&result.Percentage))
	return result, nil
}

func (e *Engine) FinalizeStage(ctx context.Context, opportunityID uuid.UUID, decisions map[uuid.UUID]bool, actor models.Actor) (changed []*models.Proposal, err error) {
	ctx, span := e.startSpan(ctx, "FinalizeStage", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	var o *models.Opportunity
	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		var err error
		o, err = tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		proposals, err := tx.Proposals().GetManyByOpportunity(ctx, opportunityID)
		if err != nil {
			return fmt.Errorf("load proposals: %w", err)
		}

		changed, err = FinalizeStage(o, proposals, decisions, actor, e.now())
		if err != nil {
			return err
		}
		for _, p := range changed {
			if err := tx.Proposals().Save(ctx, p); err != nil {
				return fmt.Errorf("save proposal %s: %w", p.ID, err)
			}
		}
		if err := tx.Opportunities().Save(ctx, o); err != nil {
			return fmt.Errorf("save opportunity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Infow("stage finalized", "opportunity_id", opportunityID, "stages_finalized", o.StagesFinalized, "proposals", len(changed))
	e.notify(ctx, o, fmt.Sprintf("stage %d of %d finalized", o.StagesFinalized, len(o.Stages)))
	return changed, nil
}

func (e *Engine) SuggestDecisions(ctx context.Context, opportunityID uuid.UUID) (suggestions map[uuid.UUID]bool, err error) {
	ctx, span := e.startSpan(ctx, "SuggestDecisions", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	o, proposals, err := e.load(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	return SuggestDecisions(o, proposals)
}

// Award commits the winner, the other ranked proposals and the opportunity in one transaction.
// Nothing is written when any step fails.
func (e *Engine) Award(ctx context.Context, opportunityID, winnerID uuid.UUID, actor models.Actor) (result *models.Opportunity, err error) {
	ctx, span := e.startSpan(ctx, "Award",
		attribute.String("opportunity.id", opportunityID.String()), attribute.String("proposal.id", winnerID.String()))
	defer func() { endSpan(span, err) }()

	err = e.withLock(ctx, opportunityID, func(tx repositories.Store) error {
		loaded, err := tx.Opportunities().GetOne(ctx, opportunityID)
		if err != nil {
			return translateStoreError(err, "opportunity")
		}
		proposals, err := tx.Proposals().GetManyByOpportunity(ctx, opportunityID)
		if err != nil {
			return fmt.Errorf("load proposals: %w", err)
		}

		o := loaded.Clone()
		clones := make([]*models.Proposal, len(proposals))
		for i, p := range proposals {
			clones[i] = p.Clone()
		}

		ranked, err := Award(o, clones, winnerID, actor, e.now())
		if err != nil {
			return err
		}
		for _, p := range ranked {
			if err := tx.Proposals().Save(ctx, p); err != nil {
				return fmt.Errorf("save proposal %s: %w", p.ID, err)
			}
		}
		if err := tx.Opportunities().Save(ctx, o); err != nil {
			return fmt.Errorf("save opportunity: %w", err)
		}

		result = o
		return nil
	})
	if err != nil {
		e.logger.Errorw("award failed", "opportunity_id", opportunityID, "error", err)
		return nil, err
	}

	e.logger.Infow("opportunity awarded", "opportunity_id", opportunityID, "winner_id", winnerID)
	e.notify(ctx, result, "awarded")
	return result, nil
}

func (e *Engine) load(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, []*models.Proposal, error) {
	o, err := e.store.Opportunities().GetOne(ctx, opportunityID)
	if err != nil {
		return nil, nil, translateStoreError(err, "opportunity")
	}
	proposals, err := e.store.Proposals().GetManyByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, nil, fmt.Errorf("load proposals: %w", err)
	}
	return o, proposals, nil
}

// GetRanking is advisory while the opportunity is still being evaluated.
func (e *Engine) GetRanking(ctx context.Context, opportunityID uuid.UUID) (ranking []RankedProposal, err error) {
	ctx, span := e.startSpan(ctx, "GetRanking", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	_, proposals, err := e.load(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	return Ranking(proposals), nil
}

func (e *Engine) Scorecard(ctx context.Context, opportunityID uuid.UUID) (card *Scorecard, err error) {
	ctx, span := e.startSpan(ctx, "Scorecard", attribute.String("opportunity.id", opportunityID.String()))
	defer func() { endSpan(span, err) }()

	o, proposals, err := e.load(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	return BuildScorecard(o, proposals), nil
}

func (e *Engine) GetOpportunity(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	o, err := e.store.Opportunities().GetOne(ctx, opportunityID)
	if err != nil {
		return nil, translateStoreError(err, "opportunity")
	}
	return o, nil
}

func (e *Engine) GetProposal(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	p, err := e.store.Proposals().GetOne(ctx, proposalID)
	if err != nil {
		return nil, translateStoreError(err, "proposal")
	}
	return p, nil
}

func (e *Engine) OpportunityHistory(ctx context.Context, opportunityID uuid.UUID) ([]models.LedgerEntry, error) {
	o, err := e.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	return o.Ledger.Entries(), nil
}

func (e *Engine) ProposalHistory(ctx context.Context, proposalID uuid.UUID) ([]models.LedgerEntry, error) {
	p, err := e.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	return p.Ledger.Entries(), nil
}

// CloseLapsedOpportunities moves every published opportunity whose proposal deadline has passed
// into evaluation at its EntryStage. Failures are logged and returned together; the rest still move.
func (e *Engine) CloseLapsedOpportunities(ctx context.Context) (closed []*models.Opportunity, err error) {
	ctx, span := e.startSpan(ctx, "CloseLapsedOpportunities")
	defer func() { endSpan(span, err) }()

	published, err := e.store.Opportunities().GetManyByStatus(ctx, models.OpportunityPublished)
	if err != nil {
		return nil, fmt.Errorf("load published opportunities: %w", err)
	}

	var errs []error
	now := e.now()
	for _, o := range published {
		if !now.After(o.ProposalDeadline) {
			continue
		}

		moved, err := e.TransitionOpportunity(ctx, o.ID, models.Evaluation(EntryStage(o)), models.SystemActor, "proposal deadline passed")
		if err != nil {
			e.logger.Errorw("failed to close opportunity", "opportunity_id", o.ID, "error", err)
			errs = append(errs, fmt.Errorf("opportunity %s: %w", o.ID, err))
			continue
		}
		closed = append(closed, moved)
	}

	span.SetAttributes(attribute.Int("opportunities.closed", len(closed)))
	return closed, errors.Join(errs...)
}
