package evaluation

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"procurement_evaluation_system/internal/db/models"
	"time"
)

// PriceScore is the price relative to the cheapest proposal in the pool; the cheapest scores 100.
func PriceScore(minPrice, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return minPrice / price * 100
}

// CompositeTotal weights every stage percentage and the price score. Weights are percentages of 100.
func CompositeTotal(stages []models.EvaluationStage, results []models.StageResult, priceWeight int, priceScore float64) float64 {
	total := priceScore * float64(priceWeight) / 100
	for _, result := range results {
		if result.Stage < 0 || result.Stage >= len(stages) {
			continue
		}
		total += result.Percentage * float64(stages[result.Stage].Weight) / 100
	}
	return total
}

// pricePool holds the proposals that advanced through the final stage.
func pricePool(o *models.Opportunity, proposals []*models.Proposal) []*models.Proposal {
	final := o.FinalStage()
	return lo.Filter(proposals, func(p *models.Proposal, _ int) bool {
		if p.Status.IsOutOfRunning() || !p.AdvancedThrough(final) {
			return false
		}
		result, ok := p.Result(final)
		return ok && result.IsFinalized() && result.Advanced
	})
}

// ComputeComposite writes price and total scores for the price pool and returns the pooled proposals.
func ComputeComposite(o *models.Opportunity, proposals []*models.Proposal, actor models.Actor, now time.Time) []*models.Proposal {
	pool := pricePool(o, proposals)
	if len(pool) == 0 {
		return nil
	}

	minPrice := cheapest(pool)
	for _, p := range pool {
		writeComposite(o, p, PriceScore(minPrice, p.Price), actor, now, "")
	}
	return pool
}

// RepricePool recomputes the pool once a ranked proposal has left the running and returns
// the proposals whose price score moved. It does nothing before the final stage is
// finalized or once the opportunity is no longer in evaluation.
func RepricePool(o *models.Opportunity, proposals []*models.Proposal, actor models.Actor, now time.Time) []*models.Proposal {
	if !o.Status.IsEvaluation() || o.StagesFinalized != len(o.Stages) {
		return nil
	}
	pool := pricePool(o, proposals)
	if len(pool) == 0 {
		return nil
	}

	minPrice := cheapest(pool)
	changed := make([]*models.Proposal, 0, len(pool))
	for _, p := range pool {
		priceScore := PriceScore(minPrice, p.Price)
		if p.PriceScore != nil && *p.PriceScore == priceScore {
			continue
		}
		writeComposite(o, p, priceScore, actor, now, "repriced, ")
		changed = append(changed, p)
	}
	return changed
}

func cheapest(pool []*models.Proposal) float64 {
	return lo.MinBy(pool, func(a, b *models.Proposal) bool { return a.Price < b.Price }).Price
}

func writeComposite(o *models.Opportunity, p *models.Proposal, priceScore float64, actor models.Actor, now time.Time, prefix string) {
	total := CompositeTotal(o.Stages, p.StageResults, o.PriceWeight, priceScore)
	p.PriceScore = &priceScore
	p.TotalScore = &total
	appendProposalEvent(p, models.ProposalEventPriceScoreEntered, actor, now,
		prefix+"price score "+FormatScore(&priceScore)+", total "+FormatScore(&total))
}

// RoundScore rounds half away from zero to two decimals.
func RoundScore(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatScore renders a score with two decimals, or "-" when it is unavailable.
func FormatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}
