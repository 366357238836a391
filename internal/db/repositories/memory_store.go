package repositories

import (
	"context"
	"github.com/google/uuid"
	"procurement_evaluation_system/internal/db/models"
	"sort"
	"sync"
)

// MemoryStore keeps clones of every record in process memory. Transactions stage
// writes and apply them only when fn succeeds.
type MemoryStore struct {
	mu            sync.RWMutex
	opportunities map[uuid.UUID]*models.Opportunity
	proposals     map[uuid.UUID]*models.Proposal
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		opportunities: make(map[uuid.UUID]*models.Opportunity),
		proposals:     make(map[uuid.UUID]*models.Proposal),
	}
}

func (s *MemoryStore) Opportunities() OpportunityRepository {
	return &memoryOpportunities{view: s}
}

func (s *MemoryStore) Proposals() ProposalRepository {
	return &memoryProposals{view: s}
}

func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx Store) error) error {
	tx := &memoryTx{
		parent:        s,
		opportunities: make(map[uuid.UUID]*models.Opportunity),
		proposals:     make(map[uuid.UUID]*models.Proposal),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, opportunity := range tx.opportunities {
		s.opportunities[id] = opportunity
	}
	for id, proposal := range tx.proposals {
		s.proposals[id] = proposal
	}
	return nil
}

func (s *MemoryStore) opportunity(id uuid.UUID) (*models.Opportunity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opportunity, ok := s.opportunities[id]
	return opportunity, ok
}

func (s *MemoryStore) proposal(id uuid.UUID) (*models.Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[id]
	return proposal, ok
}

func (s *MemoryStore) allOpportunities() []*models.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*models.Opportunity, 0, len(s.opportunities))
	for _, opportunity := range s.opportunities {
		all = append(all, opportunity)
	}
	return all
}

func (s *MemoryStore) allProposals() []*models.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*models.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		all = append(all, proposal)
	}
	return all
}

func (s *MemoryStore) putOpportunity(opportunity *models.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opportunities[opportunity.ID] = opportunity
}

func (s *MemoryStore) putProposal(proposal *models.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ID] = proposal
}

// memoryView is the read/write surface shared by the store and its transactions.
type memoryView interface {
	opportunity(id uuid.UUID) (*models.Opportunity, bool)
	proposal(id uuid.UUID) (*models.Proposal, bool)
	allOpportunities() []*models.Opportunity
	allProposals() []*models.Proposal
	putOpportunity(opportunity *models.Opportunity)
	putProposal(proposal *models.Proposal)
}

type memoryTx struct {
	parent        *MemoryStore
	opportunities map[uuid.UUID]*models.Opportunity
	proposals     map[uuid.UUID]*models.Proposal
}

func (t *memoryTx) Opportunities() OpportunityRepository {
	return &memoryOpportunities{view: t}
}

func (t *memoryTx) Proposals() ProposalRepository {
	return &memoryProposals{view: t}
}

func (t *memoryTx) RunInTransaction(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

func (t *memoryTx) opportunity(id uuid.UUID) (*models.Opportunity, bool) {
	if opportunity, ok := t.opportunities[id]; ok {
		return opportunity, true
	}
	return t.parent.opportunity(id)
}

func (t *memoryTx) proposal(id uuid.UUID) (*models.Proposal, bool) {
	if proposal, ok := t.proposals[id]; ok {
		return proposal, true
	}
	return t.parent.proposal(id)
}

func (t *memoryTx) allOpportunities() []*models.Opportunity {
	all := t.parent.allOpportunities()
	for i, opportunity := range all {
		if staged, ok := t.opportunities[opportunity.ID]; ok {
			all[i] = staged
		}
	}
	for id, staged := range t.opportunities {
		if _, ok := t.parent.opportunity(id); !ok {
			all = append(all, staged)
		}
	}
	return all
}

func (t *memoryTx) allProposals() []*models.Proposal {
	all := t.parent.allProposals()
	for i, proposal := range all {
		if staged, ok := t.proposals[proposal.ID]; ok {
			all[i] = staged
		}
	}
	for id, staged := range t.proposals {
		if _, ok := t.parent.proposal(id); !ok {
			all = append(all, staged)
		}
	}
	return all
}

func (t *memoryTx) putOpportunity(opportunity *models.Opportunity) {
	t.opportunities[opportunity.ID] = opportunity
}

func (t *memoryTx) putProposal(proposal *models.Proposal) {
	t.proposals[proposal.ID] = proposal
}

type memoryOpportunities struct {
	view memoryView
}

func (r *memoryOpportunities) Create(_ context.Context, opportunity *models.Opportunity) error {
	opportunity.Ledger.MarkPersisted()
	r.view.putOpportunity(opportunity.Clone())
	return nil
}

func (r *memoryOpportunities) Save(_ context.Context, opportunity *models.Opportunity) error {
	stored, ok := r.view.opportunity(opportunity.ID)
	if !ok {
		return ErrNotFound
	}
	if err := checkLedgerBase(stored.Ledger, opportunity.Ledger); err != nil {
		return err
	}
	opportunity.Ledger.MarkPersisted()
	r.view.putOpportunity(opportunity.Clone())
	return nil
}

func (r *memoryOpportunities) GetOne(_ context.Context, opportunityID uuid.UUID) (*models.Opportunity, error) {
	opportunity, ok := r.view.opportunity(opportunityID)
	if !ok {
		return nil, ErrNotFound
	}
	return opportunity.Clone(), nil
}

func (r *memoryOpportunities) GetManyByStatus(_ context.Context, kinds ...models.OpportunityStatusKind) ([]*models.Opportunity, error) {
	wanted := make(map[models.OpportunityStatusKind]bool, len(kinds))
	for _, kind := range kinds {
		wanted[kind] = true
	}

	opportunities := make([]*models.Opportunity, 0)
	for _, opportunity := range r.view.allOpportunities() {
		if wanted[opportunity.Status.Kind] {
			opportunities = append(opportunities, opportunity.Clone())
		}
	}
	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].CreatedAt.Before(opportunities[j].CreatedAt)
	})
	return opportunities, nil
}

type memoryProposals struct {
	view memoryView
}

func (r *memoryProposals) Create(_ context.Context, proposal *models.Proposal) error {
	proposal.Ledger.MarkPersisted()
	r.view.putProposal(proposal.Clone())
	return nil
}

func (r *memoryProposals) Save(_ context.Context, proposal *models.Proposal) error {
	stored, ok := r.view.proposal(proposal.ID)
	if !ok {
		return ErrNotFound
	}
	if err := checkLedgerBase(stored.Ledger, proposal.Ledger); err != nil {
		return err
	}
	proposal.Ledger.MarkPersisted()
	r.view.putProposal(proposal.Clone())
	return nil
}

func (r *memoryProposals) GetOne(_ context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	proposal, ok := r.view.proposal(proposalID)
	if !ok {
		return nil, ErrNotFound
	}
	return proposal.Clone(), nil
}

func (r *memoryProposals) GetManyByOpportunity(_ context.Context, opportunityID uuid.UUID) ([]*models.Proposal, error) {
	proposals := make([]*models.Proposal, 0)
	for _, proposal := range r.view.allProposals() {
		if proposal.OpportunityID == opportunityID {
			proposals = append(proposals, proposal.Clone())
		}
	}
	sort.SliceStable(proposals, func(i, j int) bool {
		if !proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].CreatedAt.Before(proposals[j].CreatedAt)
		}
		return proposals[i].ID.String() < proposals[j].ID.String()
	})
	return proposals, nil
}

// checkLedgerBase rejects a save whose pending entries would land on positions the stored
// ledger already holds.
func checkLedgerBase(stored, saved models.StatusLedger) error {
	pending := len(saved.Pending())
	if pending > 0 && stored.Len() != saved.Len()-pending {
		return ErrConflict
	}
	return nil
}
