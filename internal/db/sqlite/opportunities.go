package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
	"strings"
)

const opportunityColumns = `id, title, owner_id, kind, stages, price_weight, status, stages_finalized,
	proposal_deadline, created_at, updated_at`

type opportunityRow struct {
	ID               string `db:"id"`
	Title            string `db:"title"`
	OwnerID          string `db:"owner_id"`
	Kind             string `db:"kind"`
	Stages           string `db:"stages"`
	PriceWeight      int    `db:"price_weight"`
	Status           string `db:"status"`
	StagesFinalized  int    `db:"stages_finalized"`
	ProposalDeadline string `db:"proposal_deadline"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

func (r opportunityRow) toModel() (*models.Opportunity, error) {
	o := &models.Opportunity{
		Title:           r.Title,
		Kind:            models.OpportunityKind(r.Kind),
		PriceWeight:     r.PriceWeight,
		StagesFinalized: r.StagesFinalized,
	}

	var err error
	if o.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("opportunity id: %w", err)
	}
	if o.OwnerID, err = uuid.Parse(r.OwnerID); err != nil {
		return nil, fmt.Errorf("owner id: %w", err)
	}
	if err = json.Unmarshal([]byte(r.Stages), &o.Stages); err != nil {
		return nil, fmt.Errorf("stages: %w", err)
	}
	if o.Status, err = models.ParseOpportunityStatus(r.Status); err != nil {
		return nil, err
	}
	if o.ProposalDeadline, err = parseTime(r.ProposalDeadline); err != nil {
		return nil, err
	}
	if o.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return nil, err
	}
	if o.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

type opportunityRepository struct {
	conn querier
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	stages, err := marshalJSON(opportunity.Stages)
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, `INSERT INTO opportunities (`+opportunityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		opportunity.ID.String(),
		opportunity.Title,
		opportunity.OwnerID.String(),
		opportunity.Kind.String(),
		stages,
		opportunity.PriceWeight,
		opportunity.Status.String(),
		opportunity.StagesFinalized,
		timeToString(opportunity.ProposalDeadline),
		timeToString(opportunity.CreatedAt),
		timeToString(opportunity.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}

	return appendLedger(ctx, r.conn, "opportunity_ledger", opportunity.ID, &opportunity.Ledger)
}

func (r *opportunityRepository) Save(ctx context.Context, opportunity *models.Opportunity) error {
	stages, err := marshalJSON(opportunity.Stages)
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, `UPDATE opportunities SET title = ?, owner_id = ?, kind = ?, stages = ?,
		price_weight = ?, status = ?, stages_finalized = ?, proposal_deadline = ?, updated_at = ?
		WHERE id = ?`,
		opportunity.Title,
		opportunity.OwnerID.String(),
		opportunity.Kind.String(),
		stages,
		opportunity.PriceWeight,
		opportunity.Status.String(),
		opportunity.StagesFinalized,
		timeToString(opportunity.ProposalDeadline),
		timeToString(opportunity.UpdatedAt),
		opportunity.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update opportunity: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return repositories.ErrNotFound
	}

	return appendLedger(ctx, r.conn, "opportunity_ledger", opportunity.ID, &opportunity.Ledger)
}

func (r *opportunityRepository) GetOne(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	var row opportunityRow
	err := r.conn.GetContext(ctx, &row, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, opportunityID.String())
	if err != nil {
		return nil, translateError(err)
	}

	return r.hydrate(ctx, row)
}

func (r *opportunityRepository) GetManyByStatus(ctx context.Context, kinds ...models.OpportunityStatusKind) ([]*models.Opportunity, error) {
	if len(kinds) == 0 {
		return []*models.Opportunity{}, nil
	}

	var (
		clauses []string
		exact   []string
	)
	for _, kind := range kinds {
		if kind == models.OpportunityEvaluation {
			clauses = append(clauses, `status LIKE 'evaluation:%'`)
			continue
		}
		exact = append(exact, kind.String())
	}

	var args []interface{}
	if len(exact) > 0 {
		clause, inArgs, err := sqlx.In(`status IN (?)`, exact)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
		args = inArgs
	}

	query := r.conn.Rebind(`SELECT ` + opportunityColumns + ` FROM opportunities WHERE ` +
		strings.Join(clauses, " OR ") + ` ORDER BY created_at ASC`)

	var rows []opportunityRow
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select opportunities: %w", err)
	}

	opportunities := make([]*models.Opportunity, 0, len(rows))
	for _, row := range rows {
		opportunity, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		opportunities = append(opportunities, opportunity)
	}
	return opportunities, nil
}

func (r *opportunityRepository) hydrate(ctx context.Context, row opportunityRow) (*models.Opportunity, error) {
	opportunity, err := row.toModel()
	if err != nil {
		return nil, err
	}

	opportunity.Ledger, err = loadLedger(ctx, r.conn, "opportunity_ledger", opportunity.ID)
	if err != nil {
		return nil, err
	}
	return opportunity, nil
}
