package repositories

import (
	"context"
	"errors"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a write that lost a race with another writer.
	ErrConflict = errors.New("record was changed concurrently")
)

const uniqueViolation = "23505"

type repository struct {
	db orm.DB
}

func (r repository) inTransaction() bool {
	_, ok := r.db.(*pg.Tx)
	return ok
}

func translateError(err error) error {
	if errors.Is(err, pg.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr pg.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return ErrConflict
	}
	return err
}

// Store groups the repositories that must change together inside one transaction.
type Store interface {
	Opportunities() OpportunityRepository
	Proposals() ProposalRepository
	// RunInTransaction commits when fn returns nil and rolls back otherwise. A save that
	// races another writer fails with ErrConflict instead of dropping ledger entries.
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	db   *pg.DB
	conn orm.DB
}

func NewStore(db *pg.DB) Store {
	return &store{db: db, conn: db}
}

func (s *store) Opportunities() OpportunityRepository {
	return NewOpportunityRepository(s.conn)
}

func (s *store) Proposals() ProposalRepository {
	return NewProposalRepository(s.conn)
}

func (s *store) RunInTransaction(ctx context.Context, fn func(tx Store) error) error {
	if _, inTx := s.conn.(*pg.Tx); inTx {
		return fn(s)
	}

	return s.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(&store{db: s.db, conn: tx})
	})
}
