package models

import (
	"database/sql/driver"
	"fmt"
	"github.com/google/uuid"
	"strconv"
	"strings"
	"time"
)

type (
	OpportunityKind       string
	OpportunityStatusKind string
	OpportunityEvent      string
	StageType             string
)

func (k OpportunityKind) String() string {
	return string(k)
}

func (k OpportunityStatusKind) String() string {
	return string(k)
}

func (e OpportunityEvent) String() string {
	return string(e)
}

func (t StageType) String() string {
	return string(t)
}

const (
	OpportunityKindSingleStage OpportunityKind = "single_stage"
	OpportunityKindMultiStage  OpportunityKind = "multi_stage"

	OpportunityDraft       OpportunityStatusKind = "draft"
	OpportunityUnderReview OpportunityStatusKind = "under_review"
	OpportunityPublished   OpportunityStatusKind = "published"
	OpportunityEvaluation  OpportunityStatusKind = "evaluation"
	OpportunityAwarded     OpportunityStatusKind = "awarded"
	OpportunitySuspended   OpportunityStatusKind = "suspended"
	OpportunityCanceled    OpportunityStatusKind = "canceled"

	OpportunityEventAddendumAdded  OpportunityEvent = "addendum_added"
	OpportunityEventStageFinalized OpportunityEvent = "stage_finalized"

	StageTypeTeamQuestions     StageType = "team_questions"
	StageTypeCodeChallenge     StageType = "code_challenge"
	StageTypeTeamScenario      StageType = "team_scenario"
	StageTypeResourceChallenge StageType = "resource_challenge"
)

func ParseStageType(raw string) (StageType, bool) {
	switch StageType(raw) {
	case StageTypeTeamQuestions, StageTypeCodeChallenge, StageTypeTeamScenario, StageTypeResourceChallenge:
		return StageType(raw), true
	default:
		return "", false
	}
}

// DefaultMaxScore is the raw score scale used when a stage does not declare one.
func (t StageType) DefaultMaxScore() float64 {
	if t == StageTypeTeamQuestions {
		return 10
	}
	return 100
}

func (t StageType) Label() string {
	switch t {
	case StageTypeTeamQuestions:
		return "Team Questions"
	case StageTypeCodeChallenge:
		return "Code Challenge"
	case StageTypeTeamScenario:
		return "Team Scenario"
	case StageTypeResourceChallenge:
		return "Resource Challenge"
	default:
		return string(t)
	}
}

type EvaluationStage struct {
	Type   StageType `json:"type" yaml:"type"`
	Weight int       `json:"weight" yaml:"weight"`
	// MaxScore is the top of the raw score scale, e.g. 10 for question stages.
	MaxScore float64 `json:"max_score" yaml:"max_score"`
	// MinimumPercentage is only a screening hint for evaluators; 0 means none.
	MinimumPercentage float64 `json:"minimum_percentage,omitempty" yaml:"minimum_percentage"`
}

func (s EvaluationStage) Scale() float64 {
	if s.MaxScore > 0 {
		return s.MaxScore
	}
	return s.Type.DefaultMaxScore()
}

// OpportunityStatus keeps the active stage index explicit for Evaluation.
type OpportunityStatus struct {
	Kind  OpportunityStatusKind `json:"kind"`
	Stage int                   `json:"stage,omitempty"`
}

func StatusOf(kind OpportunityStatusKind) OpportunityStatus {
	return OpportunityStatus{Kind: kind}
}

func Evaluation(stage int) OpportunityStatus {
	return OpportunityStatus{Kind: OpportunityEvaluation, Stage: stage}
}

func (s OpportunityStatus) IsEvaluation() bool {
	return s.Kind == OpportunityEvaluation
}

func (s OpportunityStatus) String() string {
	if s.Kind == OpportunityEvaluation {
		return fmt.Sprintf("%s:%d", s.Kind, s.Stage)
	}
	return string(s.Kind)
}

func ParseOpportunityStatus(raw string) (OpportunityStatus, error) {
	raw = strings.TrimSpace(raw)
	kind, stage, hasStage := strings.Cut(raw, ":")

	switch OpportunityStatusKind(kind) {
	case OpportunityDraft, OpportunityUnderReview, OpportunityPublished, OpportunityAwarded,
		OpportunitySuspended, OpportunityCanceled:
		if hasStage {
			return OpportunityStatus{}, fmt.Errorf("status %q does not take a stage", kind)
		}
		return StatusOf(OpportunityStatusKind(kind)), nil
	case OpportunityEvaluation:
		if !hasStage {
			return Evaluation(0), nil
		}
		index, err := strconv.Atoi(stage)
		if err != nil || index < 0 {
			return OpportunityStatus{}, fmt.Errorf("invalid stage index %q", stage)
		}
		return Evaluation(index), nil
	default:
		return OpportunityStatus{}, fmt.Errorf("unknown opportunity status %q", raw)
	}
}

func (s OpportunityStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *OpportunityStatus) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into OpportunityStatus", src)
	}

	parsed, err := ParseOpportunityStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Opportunity struct {
	tableName struct{} `pg:"opportunities"`

	ID               uuid.UUID         `json:"id" pg:",pk,type:uuid"`
	Title            string            `json:"title" pg:",notnull"`
	OwnerID          uuid.UUID         `json:"owner_id" pg:",notnull,type:uuid"`
	Kind             OpportunityKind   `json:"kind" pg:",notnull"`
	Stages           []EvaluationStage `json:"stages" pg:",type:jsonb,notnull"`
	PriceWeight      int               `json:"price_weight" pg:",use_zero,notnull"`
	Status           OpportunityStatus `json:"status" pg:"type:text,notnull"`
	StagesFinalized  int               `json:"stages_finalized" pg:",use_zero,notnull"`
	ProposalDeadline time.Time         `json:"proposal_deadline" pg:",notnull"`
	CreatedAt        time.Time         `json:"created_at" pg:"default:now()"`
	UpdatedAt        time.Time         `json:"updated_at" pg:"default:now()"`
	Ledger           StatusLedger      `json:"-" pg:"-"`
}

func (o *Opportunity) FinalStage() int {
	return len(o.Stages) - 1
}

func (o *Opportunity) IsFinalStage(stage int) bool {
	return stage == o.FinalStage()
}

func (o *Opportunity) IsOwnedBy(actor Actor) bool {
	return actor.ID != uuid.Nil && actor.ID == o.OwnerID
}

func (o *Opportunity) Clone() *Opportunity {
	clone := *o
	clone.Stages = append([]EvaluationStage(nil), o.Stages...)
	clone.Ledger = o.Ledger.clone()
	return &clone
}
