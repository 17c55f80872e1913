// Package ledger is the engine behind the eight ledger operations: entry
// and installment creation, derived-state reads, transfers, invoice
// settlement, status transitions, and unit deletes. It talks to
// persistence only through the Store port so any backend (SQLite, memory)
// can sit behind it.
package ledger

import (
	"context"

	"orcamento/internal/core"
)

// EntryFilter narrows a ListEntries call. Zero values mean "any".
type EntryFilter struct {
	AccountID string
	Kind      core.EntryKind
	Status    core.EntryStatus
	Method    core.PaymentMethod
	From      core.Date
	To        core.Date
}

// Matches reports whether the entry passes the filter. Stores may use it
// directly or translate the filter into a query.
func (f EntryFilter) Matches(e core.LedgerEntry) bool {
	if f.AccountID != "" && e.AccountID != f.AccountID {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Method != "" && e.Method != f.Method {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To.Time) {
		return false
	}
	return true
}

// EntryStore is the persistence port for ledger entries. Every call is
// scoped to one owner; an unauthenticated call fails with
// core.ErrNotAuthenticated and unknown ids with core.ErrNotFound.
// Installment groups and transfer pairs are direct lookups, not scans.
type EntryStore interface {
	ListEntries(ctx context.Context, ownerID string, f EntryFilter) ([]core.LedgerEntry, error)
	GetEntry(ctx context.Context, ownerID, id string) (core.LedgerEntry, error)
	CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error)
	UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error)
	DeleteEntry(ctx context.Context, ownerID, id string) error
	// ListGroup returns the members of an installment group ordered by index.
	ListGroup(ctx context.Context, ownerID, groupID string) ([]core.LedgerEntry, error)
	// ListTransferPair returns both legs of a transfer.
	ListTransferPair(ctx context.Context, ownerID, transferID string) ([]core.LedgerEntry, error)
}

type AccountStore interface {
	ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	UpdateAccount(ctx context.Context, a core.Account) (core.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context, ownerID string) ([]core.Category, error)
	GetCategory(ctx context.Context, ownerID, id string) (core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

type DebtStore interface {
	ListDebts(ctx context.Context, ownerID string) ([]core.Debt, error)
	GetDebt(ctx context.Context, ownerID, id string) (core.Debt, error)
	CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
	UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error)
}

// Store is the full persistence collaborator consumed by the engine.
type Store interface {
	EntryStore
	AccountStore
	CategoryStore
	DebtStore
}
