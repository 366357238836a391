package models

import "fmt"

// ReplayOpportunityStatus folds the status entries of a ledger, starting from no status.
func ReplayOpportunityStatus(ledger StatusLedger) (OpportunityStatus, error) {
	var (
		current OpportunityStatus
		seen    bool
	)
	for _, entry := range ledger.Entries() {
		if !entry.IsStatus() {
			continue
		}
		status, err := ParseOpportunityStatus(entry.Value)
		if err != nil {
			return OpportunityStatus{}, fmt.Errorf("ledger entry %s: %w", entry.ID, err)
		}
		current, seen = status, true
	}
	if !seen {
		return OpportunityStatus{}, fmt.Errorf("ledger has no status entries")
	}
	return current, nil
}

// ReplayProposalStatus folds the status entries of a ledger, starting from no status.
func ReplayProposalStatus(ledger StatusLedger) (ProposalStatus, error) {
	var current ProposalStatus
	for _, entry := range ledger.Entries() {
		if !entry.IsStatus() {
			continue
		}
		status, ok := ParseProposalStatus(entry.Value)
		if !ok {
			return "", fmt.Errorf("ledger entry %s: unknown proposal status %q", entry.ID, entry.Value)
		}
		current = status
	}
	if current == "" {
		return "", fmt.Errorf("ledger has no status entries")
	}
	return current, nil
}
