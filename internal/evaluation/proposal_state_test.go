package evaluation

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"procurement_evaluation_system/internal/db/models"
	"testing"
	"time"
)

func newProponent() models.Actor {
	return models.Actor{ID: uuid.New(), Role: models.UserRoleProponent}
}

func newTestProposal(owner models.Actor, status models.ProposalStatus) *models.Proposal {
	return &models.Proposal{
		ID:            uuid.New(),
		OpportunityID: uuid.New(),
		CreatedBy:     owner.ID,
		Proponent:     models.ProponentValue{Proponent: models.IndividualProponent{UserID: owner.ID, Name: "Ada"}},
		Status:        status,
		Price:         100,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

func TestTransitionProposal(t *testing.T) {
	proponent := newProponent()
	evaluator := newEvaluator()
	admin := models.Actor{ID: uuid.New(), Role: models.UserRoleAdmin}
	deadline := testNow
	before := testNow.Add(-time.Hour)
	after := testNow.Add(time.Hour)

	tests := []struct {
		name    string
		from    models.ProposalStatus
		to      models.ProposalStatus
		actor   models.Actor
		now     time.Time
		wantErr error
	}{
		{"submit draft", models.ProposalStatusDraft, models.ProposalStatusSubmitted, proponent, before, nil},
		{"submit on the deadline", models.ProposalStatusDraft, models.ProposalStatusSubmitted, proponent, deadline, nil},
		{"submit late", models.ProposalStatusDraft, models.ProposalStatusSubmitted, proponent, after, ErrDeadlinePassed},
		{"evaluator cannot submit", models.ProposalStatusDraft, models.ProposalStatusSubmitted, evaluator, before, ErrForbidden},
		{"withdraw submitted", models.ProposalStatusSubmitted, models.ProposalStatusWithdrawn, proponent, after, nil},
		{"review before deadline", models.ProposalStatusSubmitted, models.ProposalStatusUnderReview, evaluator, before, ErrDeadlineNotReached},
		{"review on the deadline", models.ProposalStatusSubmitted, models.ProposalStatusUnderReview, evaluator, deadline, ErrDeadlineNotReached},
		{"review after deadline", models.ProposalStatusSubmitted, models.ProposalStatusUnderReview, evaluator, after, nil},
		{"admin reviews", models.ProposalStatusSubmitted, models.ProposalStatusUnderReview, admin, after, nil},
		{"proponent cannot review", models.ProposalStatusSubmitted, models.ProposalStatusUnderReview, proponent, after, ErrForbidden},
		{"evaluate", models.ProposalStatusUnderReview, models.ProposalStatusEvaluated, evaluator, after, nil},
		{"disqualify under review", models.ProposalStatusUnderReview, models.ProposalStatusDisqualified, evaluator, after, nil},
		{"withdraw under review", models.ProposalStatusUnderReview, models.ProposalStatusWithdrawn, proponent, after, nil},
		{"re-evaluate", models.ProposalStatusEvaluated, models.ProposalStatusEvaluated, evaluator, after, nil},
		{"award evaluated", models.ProposalStatusEvaluated, models.ProposalStatusAwarded, evaluator, after, nil},
		{"not award evaluated", models.ProposalStatusEvaluated, models.ProposalStatusNotAwarded, evaluator, after, nil},
		{"disqualify awarded", models.ProposalStatusAwarded, models.ProposalStatusDisqualified, evaluator, after, nil},
		{"award runner up", models.ProposalStatusNotAwarded, models.ProposalStatusAwarded, evaluator, after, nil},
		{"resubmit withdrawn", models.ProposalStatusWithdrawn, models.ProposalStatusSubmitted, proponent, before, nil},
		{"resubmit late", models.ProposalStatusWithdrawn, models.ProposalStatusSubmitted, proponent, after, ErrDeadlinePassed},
		{"draft straight to review", models.ProposalStatusDraft, models.ProposalStatusUnderReview, evaluator, after, ErrInvalidTransition},
		{"disqualified is final", models.ProposalStatusDisqualified, models.ProposalStatusEvaluated, admin, after, ErrInvalidTransition},
		{"awarded cannot be withdrawn", models.ProposalStatusAwarded, models.ProposalStatusWithdrawn, proponent, after, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProposal(proponent, tt.from)
			entries := p.Ledger.Len()

			err := TransitionProposal(p, tt.to, tt.actor, tt.now, deadline, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, p.Status)
				assert.Equal(t, entries, p.Ledger.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, p.Status)
			assert.Equal(t, entries+1, p.Ledger.Len())
		})
	}
}

func TestTransitionProposal_OtherProponentForbidden(t *testing.T) {
	p := newTestProposal(newProponent(), models.ProposalStatusSubmitted)

	err := TransitionProposal(p, models.ProposalStatusWithdrawn, newProponent(), testNow, testNow, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTransitionProposal_SubmitStampsTime(t *testing.T) {
	proponent := newProponent()
	p := newTestProposal(proponent, models.ProposalStatusDraft)

	require.NoError(t, TransitionProposal(p, models.ProposalStatusSubmitted, proponent, testNow, testNow.Add(time.Hour), ""))
	require.NotNil(t, p.SubmittedAt)
	assert.True(t, p.SubmittedAt.Equal(testNow))

	replayed, err := models.ReplayProposalStatus(p.Ledger)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusSubmitted, replayed)
}

func TestNewProposal(t *testing.T) {
	owner := newEvaluator()
	o := newTestOpportunity(t, owner)
	proponent := newProponent()
	input := ProposalInput{
		Proponent: models.ProponentValue{Proponent: models.IndividualProponent{UserID: proponent.ID, Name: "Ada"}},
		Price:     120,
	}

	_, err := NewProposal(input, o, proponent, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition, "draft opportunity does not take proposals")

	o.Status = models.StatusOf(models.OpportunityPublished)
	p, err := NewProposal(input, o, proponent, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusDraft, p.Status)
	assert.Equal(t, proponent.ID, p.CreatedBy)

	_, err = NewProposal(input, o, proponent, o.ProposalDeadline.Add(time.Second))
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	_, err = NewProposal(input, o, newProponent(), testNow)
	assert.ErrorIs(t, err, ErrForbidden, "individual proponent must be the actor")

	_, err = NewProposal(input, o, owner, testNow)
	assert.ErrorIs(t, err, ErrForbidden)

	free := input
	free.Price = 0
	_, err = NewProposal(free, o, proponent, testNow)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCheckSingleActive(t *testing.T) {
	orgID := uuid.New()
	org := models.ProponentValue{Proponent: models.OrganizationProponent{OrganizationID: orgID, LegalName: "Acme"}}

	first := newTestProposal(newProponent(), models.ProposalStatusSubmitted)
	first.Proponent = org
	second := newTestProposal(newProponent(), models.ProposalStatusDraft)
	second.Proponent = org

	assert.ErrorIs(t, checkSingleActive(second, []*models.Proposal{first, second}), ErrValidationFailed)

	first.Status = models.ProposalStatusWithdrawn
	assert.NoError(t, checkSingleActive(second, []*models.Proposal{first, second}))

	other := newTestProposal(newProponent(), models.ProposalStatusSubmitted)
	assert.NoError(t, checkSingleActive(other, []*models.Proposal{first, second}))
}
