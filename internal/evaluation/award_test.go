package evaluation

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
	mock_repositories "procurement_evaluation_system/internal/db/repositories/mocks"
	"testing"
	"time"
)

func scored(total float64, submittedAt time.Time) *models.Proposal {
	p := newTestProposal(newProponent(), models.ProposalStatusEvaluated)
	p.TotalScore = &total
	p.SubmittedAt = &submittedAt
	return p
}

func TestRank(t *testing.T) {
	early := scored(80, testNow)
	late := scored(80, testNow.Add(time.Hour))
	best := scored(95.5, testNow.Add(2*time.Hour))
	withdrawn := scored(99, testNow)
	withdrawn.Status = models.ProposalStatusWithdrawn
	unscored := newTestProposal(newProponent(), models.ProposalStatusEvaluated)

	ranked := Rank([]*models.Proposal{late, unscored, early, withdrawn, best})
	require.Len(t, ranked, 3)
	assert.Equal(t, []uuid.UUID{best.ID, early.ID, late.ID}, []uuid.UUID{ranked[0].ID, ranked[1].ID, ranked[2].ID})

	ranking := Ranking([]*models.Proposal{late, early, best})
	assert.Equal(t, RankedProposal{ProposalID: best.ID, TotalScore: 95.5, Rank: 1}, ranking[0])
	assert.Equal(t, 3, ranking[2].Rank)
}

func TestRank_TieOnScoreAndTimeFallsBackToID(t *testing.T) {
	a := scored(70, testNow)
	b := scored(70, testNow)

	first := Rank([]*models.Proposal{a, b})
	second := Rank([]*models.Proposal{b, a})
	assert.Equal(t, first[0].ID, second[0].ID)
}

// awardReady builds an opportunity whose final stage is finalized, with two ranked proposals
// and one screened out after the first stage.
func awardReady(t *testing.T, owner models.Actor) (*models.Opportunity, []*models.Proposal) {
	t.Helper()
	o := newTestOpportunity(t, owner)
	o.Status = models.Evaluation(2)
	o.StagesFinalized = 3

	winner := scored(90, testNow)
	winner.OpportunityID = o.ID
	second := scored(85, testNow)
	second.OpportunityID = o.ID
	screened := newTestProposal(newProponent(), models.ProposalStatusEvaluated)
	screened.OpportunityID = o.ID
	at := testNow
	screened.SetResult(models.StageResult{Stage: 0, Percentage: 10, FinalizedAt: &at})

	return o, []*models.Proposal{winner, second, screened}
}

func TestAward(t *testing.T) {
	owner := newEvaluator()
	o, proposals := awardReady(t, owner)
	winner, second, screened := proposals[0], proposals[1], proposals[2]

	_, err := Award(o, proposals, winner.ID, newProponent(), testNow)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Award(o, proposals, uuid.New(), owner, testNow)
	assert.ErrorIs(t, err, ErrNotFound)

	changed, err := Award(o, proposals, second.ID, owner, testNow)
	require.NoError(t, err, "the winner need not be ranked first")
	assert.Len(t, changed, 2)
	assert.Equal(t, models.StatusOf(models.OpportunityAwarded), o.Status)
	assert.Equal(t, models.ProposalStatusAwarded, second.Status)
	assert.Equal(t, models.ProposalStatusNotAwarded, winner.Status)
	assert.Equal(t, 1, *winner.Rank)
	assert.Equal(t, 2, *second.Rank)
	assert.Equal(t, models.ProposalStatusEvaluated, screened.Status)
	assert.Nil(t, screened.Rank)

	_, err = Award(o, proposals, second.ID, owner, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEngineAward_FailureMidWriteLeavesNothingBehind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := newEvaluator()
	o, proposals := awardReady(t, owner)
	winner := proposals[0]

	store := mock_repositories.NewMockStore(ctrl)
	opportunityRepository := mock_repositories.NewMockOpportunityRepository(ctrl)
	proposalRepository := mock_repositories.NewMockProposalRepository(ctrl)

	store.EXPECT().RunInTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(repositories.Store) error) error {
			return fn(store)
		})
	store.EXPECT().Opportunities().Return(opportunityRepository).AnyTimes()
	store.EXPECT().Proposals().Return(proposalRepository).AnyTimes()

	opportunityRepository.EXPECT().GetOne(gomock.Any(), o.ID).Return(o, nil)
	proposalRepository.EXPECT().GetManyByOpportunity(gomock.Any(), o.ID).Return(proposals, nil)

	injected := errors.New("connection reset")
	gomock.InOrder(
		proposalRepository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		proposalRepository.EXPECT().Save(gomock.Any(), gomock.Any()).Return(injected),
	)
	opportunityRepository.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	engine := NewEngine(store, Config{Clock: func() time.Time { return testNow }}, zap.NewNop().Sugar(), nil)
	result, err := engine.Award(context.Background(), o.ID, winner.ID, owner)
	require.ErrorIs(t, err, injected)
	assert.Nil(t, result)

	assert.Equal(t, models.Evaluation(2), o.Status)
	assert.Equal(t, 1, o.Ledger.Len())
	for _, p := range proposals {
		assert.Equal(t, models.ProposalStatusEvaluated, p.Status)
		assert.Nil(t, p.Rank)
		assert.Zero(t, p.Ledger.Len())
	}
}

// failingStore wraps a store and fails the nth proposal save made inside a transaction.
type failingStore struct {
	repositories.Store
	failOn int
	saves  *int
}

func (s failingStore) Proposals() repositories.ProposalRepository {
	return failingProposals{ProposalRepository: s.Store.Proposals(), store: s}
}

func (s failingStore) RunInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.RunInTransaction(ctx, func(tx repositories.Store) error {
		return fn(failingStore{Store: tx, failOn: s.failOn, saves: s.saves})
	})
}

type failingProposals struct {
	repositories.ProposalRepository
	store failingStore
}

func (r failingProposals) Save(ctx context.Context, p *models.Proposal) error {
	*r.store.saves++
	if *r.store.saves == r.store.failOn {
		return errors.New("disk full")
	}
	return r.ProposalRepository.Save(ctx, p)
}

func TestEngineAward_FailingStoreRollsBack(t *testing.T) {
	f := newFixture(t)
	o := f.publish()
	a := f.submit(o, "Ada", 100)
	b := f.submit(o, "Grace", 120)
	c := f.submit(o, "Linus", 90)
	f.closeSubmissions(o)
	f.scoreAll(0, map[*models.Proposal]float64{a: 9, b: 8, c: 2})
	f.finalize(o, map[uuid.UUID]bool{a.ID: true, b.ID: true, c.ID: false})
	f.scoreAll(1, map[*models.Proposal]float64{a: 90, b: 80})
	f.finalize(o, map[uuid.UUID]bool{a.ID: true, b.ID: true})
	f.scoreAll(2, map[*models.Proposal]float64{a: 90, b: 80})
	f.finalize(o, map[uuid.UUID]bool{a.ID: true, b.ID: true})

	before := map[uuid.UUID]int{}
	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		before[id] = f.proposal(id).Ledger.Len()
	}
	opportunityEntries := f.opportunity(o.ID).Ledger.Len()

	saves := 0
	broken := f.newEngine(failingStore{Store: f.store, failOn: 2, saves: &saves})
	_, err := broken.Award(f.ctx, o.ID, a.ID, f.evaluator)
	require.Error(t, err)
	assert.Equal(t, 2, saves)

	assert.Equal(t, models.Evaluation(2), f.opportunity(o.ID).Status)
	assert.Equal(t, opportunityEntries, f.opportunity(o.ID).Ledger.Len())
	for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
		p := f.proposal(id)
		assert.Equal(t, models.ProposalStatusEvaluated, p.Status)
		assert.Nil(t, p.Rank)
		assert.Equal(t, before[id], p.Ledger.Len())
	}

	_, err = f.engine.Award(f.ctx, o.ID, a.ID, f.evaluator)
	require.NoError(t, err, "a retry on a healthy store succeeds")
	assert.Equal(t, models.ProposalStatusAwarded, f.proposal(a.ID).Status)
	assert.Equal(t, models.ProposalStatusNotAwarded, f.proposal(b.ID).Status)
	assert.Equal(t, models.ProposalStatusEvaluated, f.proposal(c.ID).Status)
}
