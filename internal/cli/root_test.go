package cli

import (
	"bytes"
	"context"
	"fmt"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
	"procurement_evaluation_system/internal/evaluation"
	"testing"
	"time"
)

type cliFixture struct {
	t      *testing.T
	store  *repositories.MemoryStore
	engine *evaluation.Engine
	now    time.Time
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	color.NoColor = true

	f := &cliFixture{
		t:     t,
		store: repositories.NewMemoryStore(),
		now:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.engine = evaluation.NewEngine(f.store, evaluation.Config{
		Clock: func() time.Time { return f.now },
	}, zap.NewNop().Sugar(), nil)
	return f
}

// run executes one command line against a fresh root command so flags never leak between calls.
func (f *cliFixture) run(args ...string) (string, error) {
	f.t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(f.engine)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *cliFixture) mustRun(args ...string) string {
	f.t.Helper()
	out, err := f.run(args...)
	require.NoError(f.t, err, out)
	return out
}

func TestCLI_FullLifecycle(t *testing.T) {
	f := newCLIFixture(t)
	ctx := context.Background()
	evaluator := uuid.New().String()
	proponent := uuid.New()

	opportunityFile := writeFile(t, "opportunity.yaml", `
title: Cloud hosting
kind: single_stage
price_weight: 40
proposal_deadline: "2026-03-09T09:00:00Z"
stages:
  - type: team_questions
    weight: 60
`)
	out := f.mustRun("opportunity", "create", "-f", opportunityFile, "--actor", evaluator)
	assert.Contains(t, out, "created opportunity")

	drafts, err := f.store.Opportunities().GetManyByStatus(ctx, models.OpportunityDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	opportunityID := drafts[0].ID.String()

	out = f.mustRun("opportunity", "transition", opportunityID, "published", "--actor", evaluator)
	assert.Contains(t, out, "is now published")

	proposalFile := writeFile(t, "proposal.yaml", fmt.Sprintf(`
price: 1000
proponent:
  kind: individual
  user_id: %s
  name: Ada
`, proponent))
	f.mustRun("proposal", "create", opportunityID, "-f", proposalFile, "--actor", proponent.String(), "--role", "proponent")

	proposals, err := f.store.Proposals().GetManyByOpportunity(ctx, drafts[0].ID)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	proposalID := proposals[0].ID.String()

	f.mustRun("proposal", "transition", proposalID, "submitted", "--actor", proponent.String(), "--role", "proponent")

	f.now = f.now.Add(8 * 24 * time.Hour)
	out = f.mustRun("opportunity", "close-lapsed")
	assert.Contains(t, out, "closed for submissions")

	out = f.mustRun("score", proposalID, "1", "8", "--actor", evaluator)
	assert.Contains(t, out, "stage 1 scored 80.00%")

	out = f.mustRun("stage", "suggest", opportunityID)
	assert.Contains(t, out, "advance")

	out = f.mustRun("stage", "finalize", opportunityID, "--suggested", "--actor", evaluator)
	assert.Contains(t, out, "stage finalized for 1 proposals")

	out = f.mustRun("ranking", opportunityID)
	assert.Contains(t, out, "88.00")

	f.mustRun("award", opportunityID, proposalID, "--actor", evaluator)

	out = f.mustRun("scorecard", opportunityID)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "awarded")
	assert.Contains(t, out, "1,000.00")

	out = f.mustRun("opportunity", "show", opportunityID, "--history")
	assert.Contains(t, out, "Awarded")
	assert.Contains(t, out, "proposal deadline passed")

	out = f.mustRun("proposal", "show", proposalID)
	assert.Contains(t, out, "advanced")
	assert.Contains(t, out, "88.00")
}

func TestCLI_EvaluationResumesAfterSuspension(t *testing.T) {
	f := newCLIFixture(t)
	ctx := context.Background()
	evaluator := uuid.New().String()
	proponent := uuid.New()

	opportunityFile := writeFile(t, "opportunity.yaml", `
title: Data platform
kind: multi_stage
price_weight: 40
proposal_deadline: "2026-03-09T09:00:00Z"
stages:
  - type: team_questions
    weight: 30
  - type: code_challenge
    weight: 30
`)
	f.mustRun("opportunity", "create", "-f", opportunityFile, "--actor", evaluator)
	drafts, err := f.store.Opportunities().GetManyByStatus(ctx, models.OpportunityDraft)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	opportunityID := drafts[0].ID.String()
	f.mustRun("opportunity", "transition", opportunityID, "published", "--actor", evaluator)

	proposalFile := writeFile(t, "proposal.yaml", fmt.Sprintf(`
price: 500
proponent:
  kind: individual
  user_id: %s
  name: Ada
`, proponent))
	f.mustRun("proposal", "create", opportunityID, "-f", proposalFile, "--actor", proponent.String(), "--role", "proponent")
	proposals, err := f.store.Proposals().GetManyByOpportunity(ctx, drafts[0].ID)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	proposalID := proposals[0].ID.String()
	f.mustRun("proposal", "transition", proposalID, "submitted", "--actor", proponent.String(), "--role", "proponent")

	f.now = f.now.Add(8 * 24 * time.Hour)
	f.mustRun("opportunity", "transition", opportunityID, "evaluation", "--actor", evaluator)
	f.mustRun("score", proposalID, "1", "8", "--actor", evaluator)
	f.mustRun("stage", "finalize", opportunityID, "--suggested", "--actor", evaluator)

	f.mustRun("opportunity", "transition", opportunityID, "suspended", "--actor", evaluator)
	f.mustRun("opportunity", "transition", opportunityID, "published", "--actor", evaluator)
	out := f.mustRun("opportunity", "transition", opportunityID, "evaluation", "--actor", evaluator)
	assert.Contains(t, out, "is now evaluation:1")

	out = f.mustRun("score", proposalID, "2", "90", "--actor", evaluator)
	assert.Contains(t, out, "stage 2 scored 90.00%")
}

func TestCLI_ActorFlags(t *testing.T) {
	f := newCLIFixture(t)
	path := writeFile(t, "opportunity.yaml", "title: x\nproposal_deadline: \"2026-03-09T09:00:00Z\"\n")

	_, err := f.run("opportunity", "create", "-f", path)
	assert.ErrorContains(t, err, "--actor is required")

	_, err = f.run("opportunity", "create", "-f", path, "--actor", uuid.New().String(), "--role", "auditor")
	assert.ErrorContains(t, err, "invalid --role")

	_, err = f.run("opportunity", "create", "-f", path, "--actor", uuid.Nil.String())
	assert.ErrorContains(t, err, "nil id")
}

func TestCLI_EngineErrorsPassThrough(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run("opportunity", "show", uuid.New().String())
	assert.ErrorIs(t, err, evaluation.ErrNotFound)

	_, err = f.run("opportunity", "transition", "not-an-id", "published", "--actor", uuid.New().String())
	assert.ErrorContains(t, err, "invalid opportunity id")

	_, err = f.run("score", uuid.New().String(), "0", "5", "--actor", uuid.New().String())
	assert.ErrorContains(t, err, "invalid stage")
}
