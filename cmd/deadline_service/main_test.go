package main

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"net/http"
	"net/http/httptest"
	"procurement_evaluation_system/configs"
	"procurement_evaluation_system/internal/db/models"
	mock_repositories "procurement_evaluation_system/internal/db/repositories/mocks"
	"procurement_evaluation_system/internal/evaluation"
	"testing"
	"time"
)

type stubCloser struct {
	closed []*models.Opportunity
	err    error
}

func (s stubCloser) CloseLapsedOpportunities(context.Context) ([]*models.Opportunity, error) {
	return s.closed, s.err
}

func TestCloseLapsed_NothingToClose(t *testing.T) {
	count := closeLapsed(context.Background(), stubCloser{}, zap.NewNop().Sugar())
	assert.Equal(t, 0, count)
}

func TestCloseLapsed_PartialFailure(t *testing.T) {
	closer := stubCloser{
		closed: []*models.Opportunity{{ID: uuid.New()}, {ID: uuid.New()}},
		err:    errors.New("opportunity is busy, try again"),
	}

	count := closeLapsed(context.Background(), closer, zap.NewNop().Sugar())
	assert.Equal(t, 2, count)
}

func TestCloseLapsed_SkipsOpportunitiesBeforeDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mock_repositories.NewMockStore(ctrl)
	opportunityRepo := mock_repositories.NewMockOpportunityRepository(ctrl)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	store.EXPECT().Opportunities().Return(opportunityRepo)
	opportunityRepo.EXPECT().GetManyByStatus(gomock.Any(), models.OpportunityPublished).Return([]*models.Opportunity{
		{ID: uuid.New(), Status: models.StatusOf(models.OpportunityPublished), ProposalDeadline: now.Add(time.Hour)},
	}, nil)

	engine := evaluation.NewEngine(store, evaluation.Config{Clock: func() time.Time { return now }}, zap.NewNop().Sugar(), nil)

	count := closeLapsed(context.Background(), engine, zap.NewNop().Sugar())
	assert.Equal(t, 0, count)
}

func TestNewNotifier_DisabledWithoutToken(t *testing.T) {
	assert.Nil(t, newNotifier(configs.Telegram{}, zap.NewNop().Sugar()))
	assert.Nil(t, newNotifier(configs.Telegram{Token: "token"}, zap.NewNop().Sugar()))
}

func TestHealthCheck(t *testing.T) {
	server := newHealthCheckServer(":0")
	recorder := httptest.NewRecorder()

	server.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/deadline-service/healthcheck", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "I'm alive", recorder.Body.String())
}
