package repositories

import (
	"context"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
)

type opportunityRepository struct {
	repository
}

type OpportunityRepository interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	// Save updates the row and appends the ledger entries written since the last load or save.
	Save(ctx context.Context, opportunity *models.Opportunity) error
	// GetOne locks the row until the transaction ends when called inside one.
	GetOne(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error)
	GetManyByStatus(ctx context.Context, kinds ...models.OpportunityStatusKind) ([]*models.Opportunity, error)
}

func NewOpportunityRepository(db orm.DB) OpportunityRepository {
	return &opportunityRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	_, err := r.db.ModelContext(ctx, opportunity).Insert()
	if err != nil {
		return err
	}

	return appendLedger(ctx, r.db, opportunityLedgerTable, opportunity.ID, &opportunity.Ledger)
}

func (r *opportunityRepository) Save(ctx context.Context, opportunity *models.Opportunity) error {
	result, err := r.db.ModelContext(ctx, opportunity).WherePK().Update()
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return appendLedger(ctx, r.db, opportunityLedgerTable, opportunity.ID, &opportunity.Ledger)
}

func (r *opportunityRepository) GetOne(ctx context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	opportunity := &models.Opportunity{}

	err := selectOpportunityQuery(r.db.ModelContext(ctx, opportunity), opportunityID, r.inTransaction()).Select()
	if err != nil {
		return nil, translateError(err)
	}

	opportunity.Ledger, err = loadLedger(ctx, r.db, opportunityLedgerTable, opportunity.ID)
	if err != nil {
		return nil, err
	}
	return opportunity, nil
}

// selectOpportunityQuery locks the row for the rest of the transaction when forUpdate is set,
// so writers in other processes queue behind the current one.
func selectOpportunityQuery(q *orm.Query, opportunityID uuid.UUID, forUpdate bool) *orm.Query {
	q = q.Where("id = ?", opportunityID)
	if forUpdate {
		q = q.For("UPDATE")
	}
	return q
}

func (r *opportunityRepository) GetManyByStatus(ctx context.Context, kinds ...models.OpportunityStatusKind) ([]*models.Opportunity, error) {
	opportunities := make([]*models.Opportunity, 0)

	err := r.db.ModelContext(ctx, &opportunities).
		WhereGroup(func(q *pg.Query) (*pg.Query, error) {
			for _, kind := range kinds {
				if kind == models.OpportunityEvaluation {
					q = q.WhereOr("status LIKE ?", kind.String()+":%")
					continue
				}
				q = q.WhereOr("status = ?", kind.String())
			}
			return q, nil
		}).
		OrderExpr("created_at ASC").
		Select()
	if err != nil {
		return nil, err
	}

	for _, opportunity := range opportunities {
		opportunity.Ledger, err = loadLedger(ctx, r.db, opportunityLedgerTable, opportunity.ID)
		if err != nil {
			return nil, err
		}
	}
	return opportunities, nil
}
