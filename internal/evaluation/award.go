package evaluation

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
	"procurement_evaluation_system/internal/db/models"
	"sort"
	"strconv"
	"time"
)

type RankedProposal struct {
	ProposalID uuid.UUID `json:"proposal_id"`
	TotalScore float64   `json:"total_score"`
	Rank       int       `json:"rank"`
}

// Rank orders the proposals that hold a total score, best first. Ties go to the earliest
// submission and then to the lower id so the order is stable across runs.
func Rank(proposals []*models.Proposal) []*models.Proposal {
	ranked := lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
		return p.TotalScore != nil && !p.Status.IsOutOfRunning()
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if *a.TotalScore != *b.TotalScore {
			return *a.TotalScore > *b.TotalScore
		}
		switch {
		case a.SubmittedAt != nil && b.SubmittedAt != nil && !a.SubmittedAt.Equal(*b.SubmittedAt):
			return a.SubmittedAt.Before(*b.SubmittedAt)
		case a.SubmittedAt != nil && b.SubmittedAt == nil:
			return true
		case a.SubmittedAt == nil && b.SubmittedAt != nil:
			return false
		}
		return a.ID.String() < b.ID.String()
	})
	return ranked
}

func Ranking(proposals []*models.Proposal) []RankedProposal {
	return lo.Map(Rank(proposals), func(p *models.Proposal, i int) RankedProposal {
		return RankedProposal{ProposalID: p.ID, TotalScore: *p.TotalScore, Rank: i + 1}
	})
}

// Award marks the winner Awarded, every other ranked proposal NotAwarded and the opportunity
// Awarded. Proposals that never reached the price pool are left alone. It mutates its
// arguments, so callers that need all-or-nothing behavior pass clones.
func Award(o *models.Opportunity, proposals []*models.Proposal, winnerID uuid.UUID, actor models.Actor, now time.Time) ([]*models.Proposal, error) {
	if !isEvaluator(actor) {
		return nil, newError(CodeForbidden, "only an evaluator may award an opportunity")
	}
	if !o.Status.IsEvaluation() || !o.IsFinalStage(o.Status.Stage) {
		return nil, newError(CodeInvalidTransition, "opportunity is %s, not at its final stage", o.Status)
	}
	if o.StagesFinalized != len(o.Stages) {
		return nil, newError(CodeInvalidTransition, "final stage is not finalized")
	}
	if !lo.ContainsBy(proposals, func(p *models.Proposal) bool { return p.ID == winnerID }) {
		return nil, newError(CodeNotFound, "proposal %s not found for this opportunity", winnerID)
	}

	ranked := Rank(proposals)
	if !lo.ContainsBy(ranked, func(p *models.Proposal) bool { return p.ID == winnerID }) {
		return nil, newError(CodeValidationFailed, "proposal %s has no composite score and cannot win", winnerID)
	}

	for i, p := range ranked {
		rank := i + 1
		p.Rank = &rank
		if p.ID == winnerID {
			setProposalStatus(p, models.ProposalStatusAwarded, actor, now, "ranked "+strconv.Itoa(rank))
			continue
		}
		setProposalStatus(p, models.ProposalStatusNotAwarded, actor, now, "ranked "+strconv.Itoa(rank))
	}

	if err := transitionOpportunity(o, models.StatusOf(models.OpportunityAwarded), actor, now, "awarded to "+winnerID.String(), true); err != nil {
		return nil, err
	}
	return ranked, nil
}

type ScorecardRow struct {
	ProposalID uuid.UUID
	Proponent  string
	Status     models.ProposalStatus
	Price      float64
	// Stages holds one formatted percentage per stage, "-" where the proposal has no result.
	Stages     []string
	PriceScore string
	TotalScore string
	Rank       string
}

type Scorecard struct {
	OpportunityID uuid.UUID
	Title         string
	Status        models.OpportunityStatus
	StageLabels   []string
	StageWeights  []int
	PriceWeight   int
	Rows          []ScorecardRow
}

// BuildScorecard lists ranked proposals first, in rank order, then everyone else by creation.
func BuildScorecard(o *models.Opportunity, proposals []*models.Proposal) *Scorecard {
	card := &Scorecard{
		OpportunityID: o.ID,
		Title:         o.Title,
		Status:        o.Status,
		StageLabels:   lo.Map(o.Stages, func(s models.EvaluationStage, _ int) string { return s.Type.Label() }),
		StageWeights:  lo.Map(o.Stages, func(s models.EvaluationStage, _ int) int { return s.Weight }),
		PriceWeight:   o.PriceWeight,
	}

	ranked := Rank(proposals)
	ranks := make(map[uuid.UUID]int, len(ranked))
	for i, p := range ranked {
		ranks[p.ID] = i + 1
	}

	rest := lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
		_, ok := ranks[p.ID]
		return !ok && p.Status != models.ProposalStatusDraft
	})
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].CreatedAt.Before(rest[j].CreatedAt) })

	for _, p := range append(ranked, rest...) {
		row := ScorecardRow{
			ProposalID: p.ID,
			Status:     p.Status,
			Price:      p.Price,
			PriceScore: FormatScore(p.PriceScore),
			TotalScore: FormatScore(p.TotalScore),
			Rank:       "-",
		}
		if p.Proponent.Proponent != nil {
			row.Proponent = p.Proponent.DisplayName()
		}
		for i := range o.Stages {
			if result, ok := p.Result(i); ok {
				pct := result.Percentage
				row.Stages = append(row.Stages, FormatScore(&pct))
				continue
			}
			row.Stages = append(row.Stages, "-")
		}
		if rank, ok := ranks[p.ID]; ok {
			row.Rank = strconv.Itoa(rank)
		}
		card.Rows = append(card.Rows, row)
	}
	return card
}
