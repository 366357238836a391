package repositories

import (
	"context"
	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
)

type proposalRepository struct {
	repository
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	// Save updates the row and appends the ledger entries written since the last load or save.
	Save(ctx context.Context, proposal *models.Proposal) error
	GetOne(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error)
	GetManyByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*models.Proposal, error)
}

func NewProposalRepository(db orm.DB) ProposalRepository {
	return &proposalRepository{
		repository: repository{
			db: db,
		},
	}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	_, err := r.db.ModelContext(ctx, proposal).Insert()
	if err != nil {
		return err
	}

	return appendLedger(ctx, r.db, proposalLedgerTable, proposal.ID, &proposal.Ledger)
}

func (r *proposalRepository) Save(ctx context.Context, proposal *models.Proposal) error {
	result, err := r.db.ModelContext(ctx, proposal).WherePK().Update()
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return appendLedger(ctx, r.db, proposalLedgerTable, proposal.ID, &proposal.Ledger)
}

func (r *proposalRepository) GetOne(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	proposal := &models.Proposal{}

	err := r.db.ModelContext(ctx, proposal).
		Where("id = ?", proposalID).
		Select()
	if err != nil {
		return nil, translateError(err)
	}

	proposal.Ledger, err = loadLedger(ctx, r.db, proposalLedgerTable, proposal.ID)
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func (r *proposalRepository) GetManyByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*models.Proposal, error) {
	proposals := make([]*models.Proposal, 0)

	err := r.db.ModelContext(ctx, &proposals).
		Where("opportunity_id = ?", opportunityID).
		OrderExpr("created_at ASC, id ASC").
		Select()
	if err != nil {
		return nil, err
	}

	for _, proposal := range proposals {
		proposal.Ledger, err = loadLedger(ctx, r.db, proposalLedgerTable, proposal.ID)
		if err != nil {
			return nil, err
		}
	}
	return proposals, nil
}
