package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
)

const proposalColumns = `id, opportunity_id, created_by, proponent, status, price, stage_results, price_score,
	total_score, rank, submitted_at, created_at, updated_at`

type proposalRow struct {
	ID            string          `db:"id"`
	OpportunityID string          `db:"opportunity_id"`
	CreatedBy     string          `db:"created_by"`
	Proponent     string          `db:"proponent"`
	Status        string          `db:"status"`
	Price         float64         `db:"price"`
	StageResults  string          `db:"stage_results"`
	PriceScore    sql.NullFloat64 `db:"price_score"`
	TotalScore    sql.NullFloat64 `db:"total_score"`
	Rank          sql.NullInt64   `db:"rank"`
	SubmittedAt   string          `db:"submitted_at"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

func (r proposalRow) toModel() (*models.Proposal, error) {
	p := &models.Proposal{
		Price:      r.Price,
		PriceScore: floatPtr(r.PriceScore),
		TotalScore: floatPtr(r.TotalScore),
	}

	var err error
	if p.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("proposal id: %w", err)
	}
	if p.OpportunityID, err = uuid.Parse(r.OpportunityID); err != nil {
		return nil, fmt.Errorf("opportunity id: %w", err)
	}
	if p.CreatedBy, err = uuid.Parse(r.CreatedBy); err != nil {
		return nil, fmt.Errorf("created by: %w", err)
	}
	if err = json.Unmarshal([]byte(r.Proponent), &p.Proponent); err != nil {
		return nil, fmt.Errorf("proponent: %w", err)
	}
	status, ok := models.ParseProposalStatus(r.Status)
	if !ok {
		return nil, fmt.Errorf("unknown proposal status %q", r.Status)
	}
	p.Status = status
	if err = json.Unmarshal([]byte(r.StageResults), &p.StageResults); err != nil {
		return nil, fmt.Errorf("stage results: %w", err)
	}
	if r.Rank.Valid {
		rank := int(r.Rank.Int64)
		p.Rank = &rank
	}
	if p.SubmittedAt, err = parseNullableTime(r.SubmittedAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func nullableRank(rank *int) sql.NullInt64 {
	if rank == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*rank), Valid: true}
}

type proposalRepository struct {
	conn querier
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	proponent, err := marshalJSON(proposal.Proponent)
	if err != nil {
		return err
	}
	results, err := marshalJSON(stageResults(proposal))
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, `INSERT INTO proposals (`+proposalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		proposal.ID.String(),
		proposal.OpportunityID.String(),
		proposal.CreatedBy.String(),
		proponent,
		proposal.Status.String(),
		proposal.Price,
		results,
		nullableFloat(proposal.PriceScore),
		nullableFloat(proposal.TotalScore),
		nullableRank(proposal.Rank),
		nullableTime(proposal.SubmittedAt),
		timeToString(proposal.CreatedAt),
		timeToString(proposal.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}

	return appendLedger(ctx, r.conn, "proposal_ledger", proposal.ID, &proposal.Ledger)
}

func (r *proposalRepository) Save(ctx context.Context, proposal *models.Proposal) error {
	proponent, err := marshalJSON(proposal.Proponent)
	if err != nil {
		return err
	}
	results, err := marshalJSON(stageResults(proposal))
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, `UPDATE proposals SET proponent = ?, status = ?, price = ?, stage_results = ?,
		price_score = ?, total_score = ?, rank = ?, submitted_at = ?, updated_at = ?
		WHERE id = ?`,
		proponent,
		proposal.Status.String(),
		proposal.Price,
		results,
		nullableFloat(proposal.PriceScore),
		nullableFloat(proposal.TotalScore),
		nullableRank(proposal.Rank),
		nullableTime(proposal.SubmittedAt),
		timeToString(proposal.UpdatedAt),
		proposal.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return repositories.ErrNotFound
	}

	return appendLedger(ctx, r.conn, "proposal_ledger", proposal.ID, &proposal.Ledger)
}

func (r *proposalRepository) GetOne(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	var row proposalRow
	err := r.conn.GetContext(ctx, &row, `SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, proposalID.String())
	if err != nil {
		return nil, translateError(err)
	}

	return r.hydrate(ctx, row)
}

func (r *proposalRepository) GetManyByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*models.Proposal, error) {
	var rows []proposalRow
	err := r.conn.SelectContext(ctx, &rows, `SELECT `+proposalColumns+` FROM proposals
		WHERE opportunity_id = ? ORDER BY created_at ASC, id ASC`, opportunityID.String())
	if err != nil {
		return nil, fmt.Errorf("select proposals: %w", err)
	}

	proposals := make([]*models.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (r *proposalRepository) hydrate(ctx context.Context, row proposalRow) (*models.Proposal, error) {
	proposal, err := row.toModel()
	if err != nil {
		return nil, err
	}

	proposal.Ledger, err = loadLedger(ctx, r.conn, "proposal_ledger", proposal.ID)
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func stageResults(proposal *models.Proposal) []models.StageResult {
	if proposal.StageResults == nil {
		return []models.StageResult{}
	}
	return proposal.StageResults
}
