package ledger

import (
	"context"

	"orcamento/internal/core"
)

// AccountBalance recomputes the account's balance summary from its entries.
func (s *Service) AccountBalance(ctx context.Context, ownerID, accountID string) (core.BalanceSummary, error) {
	account, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return core.BalanceSummary{}, core.NewStorageError("get account", err)
	}
	entries, err := s.store.ListEntries(ctx, ownerID, EntryFilter{AccountID: accountID})
	if err != nil {
		return core.BalanceSummary{}, core.NewStorageError("list entries", err)
	}
	return core.CalculateBalance(account, entries), nil
}

// CreditUsage derives the card account's utilization as of today.
func (s *Service) CreditUsage(ctx context.Context, ownerID, accountID string, today core.Date) (core.CreditUsage, error) {
	account, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return core.CreditUsage{}, core.NewStorageError("get account", err)
	}
	entries, err := s.store.ListEntries(ctx, ownerID, EntryFilter{AccountID: accountID})
	if err != nil {
		return core.CreditUsage{}, core.NewStorageError("list entries", err)
	}
	return core.CalculateCreditUsage(account, entries, today)
}

// Invoice aggregates the card account's confirmed credit expenses for the
// period into category shares, day buckets, and KPIs.
func (s *Service) Invoice(ctx context.Context, ownerID, accountID string, start, end core.Date) (core.InvoiceSummary, error) {
	account, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return core.InvoiceSummary{}, core.NewStorageError("get account", err)
	}
	if !account.CreditCapable() {
		return core.InvoiceSummary{}, core.ErrNotCreditAccount
	}
	entries, err := s.store.ListEntries(ctx, ownerID, EntryFilter{AccountID: accountID})
	if err != nil {
		return core.InvoiceSummary{}, core.NewStorageError("list entries", err)
	}
	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return core.InvoiceSummary{}, core.NewStorageError("list categories", err)
	}
	byID := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return core.AggregateInvoice(account, entries, byID, start, end), nil
}
