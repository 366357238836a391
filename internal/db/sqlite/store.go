package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
	"procurement_evaluation_system/internal/db/models"
	"procurement_evaluation_system/internal/db/repositories"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	owner_id          TEXT NOT NULL,
	kind              TEXT NOT NULL,
	stages            TEXT NOT NULL DEFAULT '[]',
	price_weight      INTEGER NOT NULL,
	status            TEXT NOT NULL,
	stages_finalized  INTEGER NOT NULL DEFAULT 0,
	proposal_deadline TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS proposals (
	id             TEXT PRIMARY KEY,
	opportunity_id TEXT NOT NULL REFERENCES opportunities (id),
	created_by     TEXT NOT NULL,
	proponent      TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'draft',
	price          REAL NOT NULL,
	stage_results  TEXT NOT NULL DEFAULT '[]',
	price_score    REAL,
	total_score    REAL,
	rank           INTEGER,
	submitted_at   TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS proposals_opportunity_id_idx ON proposals (opportunity_id);

CREATE TABLE IF NOT EXISTS opportunity_ledger (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	position   INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	actor_id   TEXT,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	UNIQUE (owner_id, position)
);

CREATE TABLE IF NOT EXISTS proposal_ledger (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	position   INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	actor_id   TEXT,
	kind       TEXT NOT NULL,
	value      TEXT NOT NULL,
	note       TEXT NOT NULL DEFAULT '',
	UNIQUE (owner_id, position)
);
`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

// Store implements repositories.Store on a single SQLite file.
type Store struct {
	db   *sqlx.DB
	conn querier
	tx   *sqlx.Tx
}

var _ repositories.Store = (*Store)(nil)

func Open(ctx context.Context, path string) (*Store, error) {
	// Immediate transactions take the write lock up front, so a second process waits on
	// busy_timeout instead of interleaving with the current writer.
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, conn: db}, nil
}

func (s *Store) Close() error {
	if s.tx != nil {
		return errors.New("close called inside a transaction")
	}
	return s.db.Close()
}

func (s *Store) Opportunities() repositories.OpportunityRepository {
	return &opportunityRepository{conn: s.conn}
}

func (s *Store) Proposals() repositories.ProposalRepository {
	return &proposalRepository{conn: s.conn}
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(&Store{db: s.db, conn: tx, tx: tx}); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// --- persist helpers ---

// timeLayout has fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, raw)
}

func nullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeToString(*t)
}

func parseNullableTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repositories.ErrNotFound
	}
	var sqliteErr *sqlitedriver.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return repositories.ErrConflict
		}
	}
	return err
}

type ledgerRow struct {
	ID        string         `db:"id"`
	OwnerID   string         `db:"owner_id"`
	Position  int            `db:"position"`
	CreatedAt string         `db:"created_at"`
	ActorID   sql.NullString `db:"actor_id"`
	Kind      string         `db:"kind"`
	Value     string         `db:"value"`
	Note      string         `db:"note"`
}

// appendLedger inserts the pending entries at their positions. A taken position yields
// repositories.ErrConflict.
func appendLedger(ctx context.Context, conn querier, table string, ownerID uuid.UUID, ledger *models.StatusLedger) error {
	pending := ledger.Pending()
	offset := ledger.Len() - len(pending)

	query := fmt.Sprintf(`INSERT INTO %s (id, owner_id, position, created_at, actor_id, kind, value, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, table)
	for i, entry := range pending {
		actorID := sql.NullString{}
		if entry.ActorID != nil {
			actorID = sql.NullString{String: entry.ActorID.String(), Valid: true}
		}
		_, err := conn.ExecContext(ctx, query,
			entry.ID.String(),
			ownerID.String(),
			offset+i,
			timeToString(entry.CreatedAt),
			actorID,
			entry.Kind.String(),
			entry.Value,
			entry.Note,
		)
		if err != nil {
			return fmt.Errorf("append %s: %w", table, translateError(err))
		}
	}

	ledger.MarkPersisted()
	return nil
}

func loadLedger(ctx context.Context, conn querier, table string, ownerID uuid.UUID) (models.StatusLedger, error) {
	var rows []ledgerRow
	query := fmt.Sprintf(`SELECT id, owner_id, position, created_at, actor_id, kind, value, note
		FROM %s WHERE owner_id = ? ORDER BY position ASC`, table)
	if err := conn.SelectContext(ctx, &rows, query, ownerID.String()); err != nil {
		return models.StatusLedger{}, fmt.Errorf("load %s: %w", table, err)
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return models.StatusLedger{}, err
		}
		createdAt, err := parseTime(row.CreatedAt)
		if err != nil {
			return models.StatusLedger{}, err
		}
		entry := models.LedgerEntry{
			ID:        id,
			CreatedAt: createdAt,
			Kind:      models.LedgerEntryKind(row.Kind),
			Value:     row.Value,
			Note:      row.Note,
		}
		if row.ActorID.Valid {
			actorID, err := uuid.Parse(row.ActorID.String)
			if err != nil {
				return models.StatusLedger{}, err
			}
			entry.ActorID = &actorID
		}
		entries = append(entries, entry)
	}
	return models.NewStatusLedger(entries), nil
}

func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
