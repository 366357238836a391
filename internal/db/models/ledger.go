package models

import (
	"github.com/google/uuid"
	"time"
)

type LedgerEntryKind string

const (
	LedgerEntryStatus LedgerEntryKind = "status"
	LedgerEntryEvent  LedgerEntryKind = "event"
)

func (k LedgerEntryKind) String() string {
	return string(k)
}

// LedgerEntry is one immutable record of a status change or an event.
// Value holds the status (see OpportunityStatus.String, ProposalStatus) or the event name.
type LedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	ActorID   *uuid.UUID      `json:"actor_id"`
	Kind      LedgerEntryKind `json:"kind"`
	Value     string          `json:"value"`
	Note      string          `json:"note"`
}

func (e LedgerEntry) IsStatus() bool {
	return e.Kind == LedgerEntryStatus
}

// StatusLedger is an append-only log. Entries are copied in and out so a caller can never rewrite history.
type StatusLedger struct {
	entries   []LedgerEntry
	persisted int
}

// NewStatusLedger restores a ledger read from storage; all entries count as persisted.
func NewStatusLedger(entries []LedgerEntry) StatusLedger {
	return StatusLedger{
		entries:   append([]LedgerEntry(nil), entries...),
		persisted: len(entries),
	}
}

func (l *StatusLedger) Append(entry LedgerEntry) LedgerEntry {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.ActorID != nil {
		id := *entry.ActorID
		entry.ActorID = &id
	}
	l.entries = append(l.entries, entry)
	return entry
}

func (l StatusLedger) Entries() []LedgerEntry {
	return append([]LedgerEntry(nil), l.entries...)
}

func (l StatusLedger) Len() int {
	return len(l.entries)
}

func (l StatusLedger) Last() (LedgerEntry, bool) {
	if len(l.entries) == 0 {
		return LedgerEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Pending returns the entries not yet written to storage.
func (l StatusLedger) Pending() []LedgerEntry {
	return l.Since(l.persisted)
}

func (l *StatusLedger) MarkPersisted() {
	l.persisted = len(l.entries)
}

// Since returns the entries appended after the first n.
func (l StatusLedger) Since(n int) []LedgerEntry {
	if n >= len(l.entries) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	return append([]LedgerEntry(nil), l.entries[n:]...)
}

// LastStatus returns the value of the most recent status entry.
func (l StatusLedger) LastStatus() (string, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].IsStatus() {
			return l.entries[i].Value, true
		}
	}
	return "", false
}

func (l StatusLedger) clone() StatusLedger {
	return StatusLedger{
		entries:   append([]LedgerEntry(nil), l.entries...),
		persisted: l.persisted,
	}
}
