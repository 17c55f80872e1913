// Package memory is an in-process implementation of the ledger store. It
// backs local development and every engine test; fault injection hooks
// make partial-write behavior reproducible.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"orcamento/internal/core"
	"orcamento/internal/ledger"
)

type Store struct {
	mu         sync.Mutex
	accounts   map[string]core.Account
	categories map[string]core.Category
	entries    map[string]core.LedgerEntry
	debts      map[string]core.Debt
	// Group and transfer membership are maintained as indexes so lookups
	// are direct, not scans.
	byGroup    map[string][]string
	byTransfer map[string][]string

	// Fault injection for tests: the next matching call fails once with
	// the given error.
	failCreateAfter int // fail the n-th CreateEntry from now (1-based); 0 disables
	failDelete      bool
	failDeleteAfter int
	failUpdateAfter int
	injected        error
}

func New() *Store {
	return &Store{
		accounts:   make(map[string]core.Account),
		categories: make(map[string]core.Category),
		entries:    make(map[string]core.LedgerEntry),
		debts:      make(map[string]core.Debt),
		byGroup:    make(map[string][]string),
		byTransfer: make(map[string][]string),
	}
}

// FailCreateEntry arranges for the n-th subsequent CreateEntry to fail
// once with err.
func (s *Store) FailCreateEntry(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreateAfter = n
	s.injected = err
}

// FailUpdateEntry arranges for the n-th subsequent UpdateEntry to fail
// once with err.
func (s *Store) FailUpdateEntry(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpdateAfter = n
	s.injected = err
}

// FailDeleteEntry makes every DeleteEntry fail with err until reset with a
// nil err.
func (s *Store) FailDeleteEntry(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = err != nil
	s.injected = err
}

// FailDeleteEntryAfter arranges for the n-th subsequent DeleteEntry to
// fail once with err.
func (s *Store) FailDeleteEntryAfter(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDeleteAfter = n
	s.injected = err
}

func (s *Store) ListEntries(_ context.Context, ownerID string, f ledger.EntryFilter) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.LedgerEntry
	for _, e := range s.entries {
		if e.OwnerID == ownerID && f.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, ownerID, id string) (core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) CreateEntry(_ context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateAfter > 0 {
		s.failCreateAfter--
		if s.failCreateAfter == 0 {
			return core.LedgerEntry{}, s.injected
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.entries[e.ID] = e
	if e.InstallmentGroupID != "" {
		s.byGroup[e.InstallmentGroupID] = append(s.byGroup[e.InstallmentGroupID], e.ID)
	}
	if e.TransferID != "" {
		s.byTransfer[e.TransferID] = append(s.byTransfer[e.TransferID], e.ID)
	}
	return e, nil
}

func (s *Store) UpdateEntry(_ context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdateAfter > 0 {
		s.failUpdateAfter--
		if s.failUpdateAfter == 0 {
			return core.LedgerEntry{}, s.injected
		}
	}
	old, ok := s.entries[e.ID]
	if !ok || old.OwnerID != e.OwnerID {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return s.injected
	}
	if s.failDeleteAfter > 0 {
		s.failDeleteAfter--
		if s.failDeleteAfter == 0 {
			return s.injected
		}
	}
	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.entries, id)
	if e.InstallmentGroupID != "" {
		s.byGroup[e.InstallmentGroupID] = remove(s.byGroup[e.InstallmentGroupID], id)
	}
	if e.TransferID != "" {
		s.byTransfer[e.TransferID] = remove(s.byTransfer[e.TransferID], id)
	}
	return nil
}

func (s *Store) ListGroup(_ context.Context, ownerID, groupID string) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.collect(ownerID, s.byGroup[groupID])
	sort.Slice(out, func(i, j int) bool {
		return out[i].InstallmentIndex < out[j].InstallmentIndex
	})
	return out, nil
}

func (s *Store) ListTransferPair(_ context.Context, ownerID, transferID string) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.collect(ownerID, s.byTransfer[transferID])
	sort.Slice(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind // DESPESA before RECEITA
	})
	return out, nil
}

func (s *Store) collect(ownerID string, ids []string) []core.LedgerEntry {
	out := make([]core.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.entries[id]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) ListAccounts(_ context.Context, ownerID string) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for _, a := range s.accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetAccount(_ context.Context, ownerID, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) UpdateAccount(_ context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.accounts[a.ID]
	if !ok || old.OwnerID != a.OwnerID {
		return core.Account{}, core.ErrNotFound
	}
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context, ownerID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, ownerID, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.categories[c.ID]
	if !ok || old.OwnerID != c.OwnerID {
		return core.Category{}, core.ErrNotFound
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return core.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) ListDebts(_ context.Context, ownerID string) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Debt
	for _, d := range s.debts {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

func (s *Store) GetDebt(_ context.Context, ownerID, id string) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[id]
	if !ok || d.OwnerID != ownerID {
		return core.Debt{}, core.ErrNotFound
	}
	return d, nil
}

func (s *Store) CreateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.debts[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.debts[d.ID]
	if !ok || old.OwnerID != d.OwnerID {
		return core.Debt{}, core.ErrNotFound
	}
	s.debts[d.ID] = d
	return d, nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

var _ ledger.Store = (*Store)(nil)
