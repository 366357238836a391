package repositories

import (
	"context"
	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
	"time"
)

const (
	opportunityLedgerTable = "opportunity_ledger"
	proposalLedgerTable    = "proposal_ledger"
)

// ledgerRecord has no table of its own; ledgerQuery picks one of the ledger tables.
type ledgerRecord struct {
	tableName struct{} `pg:"_,alias:ledger_record"`

	ID        uuid.UUID  `pg:",pk,type:uuid"`
	OwnerID   uuid.UUID  `pg:",notnull,type:uuid"`
	Position  int        `pg:",use_zero,notnull"`
	CreatedAt time.Time  `pg:",notnull"`
	ActorID   *uuid.UUID `pg:"type:uuid"`
	Kind      string     `pg:",notnull"`
	Value     string     `pg:",notnull"`
	Note      string     `pg:",use_zero"`
}

func ledgerQuery(q *orm.Query, table string) *orm.Query {
	return q.TableExpr(table)
}

func ownerLedgerQuery(q *orm.Query, table string, ownerID uuid.UUID) *orm.Query {
	return ledgerQuery(q, table).
		Where("owner_id = ?", ownerID).
		Order("position ASC")
}

func pendingRecords(ownerID uuid.UUID, ledger *models.StatusLedger) []ledgerRecord {
	pending := ledger.Pending()
	offset := ledger.Len() - len(pending)
	records := make([]ledgerRecord, 0, len(pending))
	for i, entry := range pending {
		records = append(records, ledgerRecord{
			ID:        entry.ID,
			OwnerID:   ownerID,
			Position:  offset + i,
			CreatedAt: entry.CreatedAt,
			ActorID:   entry.ActorID,
			Kind:      entry.Kind.String(),
			Value:     entry.Value,
			Note:      entry.Note,
		})
	}
	return records
}

// appendLedger writes the pending entries of ledger and marks them persisted. A position that
// is already taken means another writer got there first and yields ErrConflict.
func appendLedger(ctx context.Context, db orm.DB, table string, ownerID uuid.UUID, ledger *models.StatusLedger) error {
	records := pendingRecords(ownerID, ledger)
	if len(records) == 0 {
		return nil
	}

	_, err := ledgerQuery(db.ModelContext(ctx, &records), table).Insert()
	if err != nil {
		return translateError(err)
	}

	ledger.MarkPersisted()
	return nil
}

func loadLedger(ctx context.Context, db orm.DB, table string, ownerID uuid.UUID) (models.StatusLedger, error) {
	records := make([]ledgerRecord, 0)

	err := ownerLedgerQuery(db.ModelContext(ctx, &records), table, ownerID).Select()
	if err != nil {
		return models.StatusLedger{}, err
	}

	entries := make([]models.LedgerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, models.LedgerEntry{
			ID:        record.ID,
			CreatedAt: record.CreatedAt,
			ActorID:   record.ActorID,
			Kind:      models.LedgerEntryKind(record.Kind),
			Value:     record.Value,
			Note:      record.Note,
		})
	}
	return models.NewStatusLedger(entries), nil
}
