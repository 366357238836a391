package models

import (
	"github.com/google/uuid"
	"time"
)

type (
	ProposalStatus string
	ProposalEvent  string
)

func (p ProposalStatus) String() string {
	return string(p)
}

func (e ProposalEvent) String() string {
	return string(e)
}

const (
	ProposalStatusDraft        ProposalStatus = "draft"
	ProposalStatusSubmitted    ProposalStatus = "submitted"
	ProposalStatusUnderReview  ProposalStatus = "under_review"
	ProposalStatusEvaluated    ProposalStatus = "evaluated"
	ProposalStatusAwarded      ProposalStatus = "awarded"
	ProposalStatusNotAwarded   ProposalStatus = "not_awarded"
	ProposalStatusDisqualified ProposalStatus = "disqualified"
	ProposalStatusWithdrawn    ProposalStatus = "withdrawn"

	ProposalEventScoreEntered      ProposalEvent = "score_entered"
	ProposalEventScreenedIn        ProposalEvent = "screened_in"
	ProposalEventScreenedOut       ProposalEvent = "screened_out"
	ProposalEventPriceScoreEntered ProposalEvent = "price_score_entered"
)

func ParseProposalStatus(raw string) (ProposalStatus, bool) {
	switch ProposalStatus(raw) {
	case ProposalStatusDraft, ProposalStatusSubmitted, ProposalStatusUnderReview, ProposalStatusEvaluated,
		ProposalStatusAwarded, ProposalStatusNotAwarded, ProposalStatusDisqualified, ProposalStatusWithdrawn:
		return ProposalStatus(raw), true
	default:
		return "", false
	}
}

// IsOutOfRunning reports statuses that never take part in ranking.
func (p ProposalStatus) IsOutOfRunning() bool {
	return p == ProposalStatusWithdrawn || p == ProposalStatusDisqualified
}

// IsInEvaluation reports statuses evaluators may score.
func (p ProposalStatus) IsInEvaluation() bool {
	return p == ProposalStatusUnderReview || p == ProposalStatusEvaluated
}

type StageResult struct {
	Stage       int        `json:"stage"`
	RawScore    float64    `json:"raw_score"`
	Percentage  float64    `json:"percentage"`
	Advanced    bool       `json:"advanced"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

func (r StageResult) IsFinalized() bool {
	return r.FinalizedAt != nil
}

type Proposal struct {
	tableName struct{} `pg:"proposals"`

	ID            uuid.UUID      `json:"id" pg:",pk,type:uuid"`
	OpportunityID uuid.UUID      `json:"opportunity_id" pg:",notnull,type:uuid"`
	CreatedBy     uuid.UUID      `json:"created_by" pg:",notnull,type:uuid"`
	Proponent     ProponentValue `json:"proponent" pg:",type:jsonb,notnull"`
	Status        ProposalStatus `json:"status" pg:",notnull,default:'draft'"`
	Price         float64        `json:"price" pg:",use_zero,notnull"`
	StageResults  []StageResult  `json:"stage_results" pg:",type:jsonb"`
	PriceScore    *float64       `json:"price_score"`
	TotalScore    *float64       `json:"total_score"`
	Rank          *int           `json:"rank"`
	SubmittedAt   *time.Time     `json:"submitted_at"`
	CreatedAt     time.Time      `json:"created_at" pg:"default:now()"`
	UpdatedAt     time.Time      `json:"updated_at" pg:"default:now()"`
	Ledger        StatusLedger   `json:"-" pg:"-"`
}

func (p *Proposal) Result(stage int) (StageResult, bool) {
	for _, r := range p.StageResults {
		if r.Stage == stage {
			return r, true
		}
	}
	return StageResult{}, false
}

// SetResult replaces the result for r.Stage or appends it, keeping results ordered by stage.
func (p *Proposal) SetResult(r StageResult) {
	for i := range p.StageResults {
		if p.StageResults[i].Stage == r.Stage {
			p.StageResults[i] = r
			return
		}
	}
	p.StageResults = append(p.StageResults, r)
	for i := len(p.StageResults) - 1; i > 0 && p.StageResults[i].Stage < p.StageResults[i-1].Stage; i-- {
		p.StageResults[i], p.StageResults[i-1] = p.StageResults[i-1], p.StageResults[i]
	}
}

// AdvancedThrough reports whether the proposal was screened in at every stage before stage.
func (p *Proposal) AdvancedThrough(stage int) bool {
	for i := 0; i < stage; i++ {
		r, ok := p.Result(i)
		if !ok || !r.IsFinalized() || !r.Advanced {
			return false
		}
	}
	return true
}

// ScreenedOutAt returns the stage at which the proposal stopped advancing.
func (p *Proposal) ScreenedOutAt() (int, bool) {
	for _, r := range p.StageResults {
		if r.IsFinalized() && !r.Advanced {
			return r.Stage, true
		}
	}
	return 0, false
}

func (p *Proposal) Clone() *Proposal {
	clone := *p
	clone.StageResults = make([]StageResult, len(p.StageResults))
	for i, r := range p.StageResults {
		if r.FinalizedAt != nil {
			at := *r.FinalizedAt
			r.FinalizedAt = &at
		}
		clone.StageResults[i] = r
	}
	if p.PriceScore != nil {
		v := *p.PriceScore
		clone.PriceScore = &v
	}
	if p.TotalScore != nil {
		v := *p.TotalScore
		clone.TotalScore = &v
	}
	if p.Rank != nil {
		v := *p.Rank
		clone.Rank = &v
	}
	if p.SubmittedAt != nil {
		v := *p.SubmittedAt
		clone.SubmittedAt = &v
	}
	clone.Ledger = p.Ledger.clone()
	return &clone
}
