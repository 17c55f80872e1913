package core

// BalanceSummary is the derived state of one account: confirmed receipt and
// expense totals plus the running balance. It is recomputed from the entry
// set on every read, never cached.
type BalanceSummary struct {
	Receipts Money
	Expenses Money
	Current  Money
}

// CalculateBalance folds the account's entries into a balance summary.
// PENDENTE and CANCELADO entries are excluded; entries for other accounts
// are ignored so callers may pass an unfiltered owner-wide slice.
func CalculateBalance(account Account, entries []LedgerEntry) BalanceSummary {
	var s BalanceSummary
	for _, e := range entries {
		if e.AccountID != account.ID || !e.Confirmed() {
			continue
		}
		switch e.Kind {
		case KindReceipt:
			s.Receipts.Cents += e.Amount.Cents
		case KindExpense:
			s.Expenses.Cents += e.Amount.Cents
		}
	}
	s.Current = Money{Cents: account.OpeningBalance.Cents + s.Receipts.Cents - s.Expenses.Cents}
	return s
}
