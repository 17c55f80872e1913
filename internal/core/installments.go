package core

import "fmt"

// EntryDraft is the user-entered shape of a ledger entry before ids and
// installment linkage are assigned.
type EntryDraft struct {
	OwnerID     string
	Description string
	Amount      Money
	Date        Date
	Kind        EntryKind
	AccountID   string
	CategoryID  string
	Status      EntryStatus // defaults to CONFIRMADO when empty
	Notes       string
	Method      PaymentMethod
	CardLabel   string
}

// Entry materializes the draft as a standalone ledger entry.
func (d EntryDraft) Entry() LedgerEntry {
	status := d.Status
	if status == "" {
		status = StatusConfirmed
	}
	return LedgerEntry{
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Amount:      d.Amount,
		Date:        d.Date,
		Kind:        d.Kind,
		AccountID:   d.AccountID,
		CategoryID:  d.CategoryID,
		Status:      status,
		Notes:       d.Notes,
		Method:      d.Method,
		CardLabel:   d.CardLabel,
	}
}

// GenerateInstallments expands a credit purchase into count linked entries
// sharing groupID. The i-th entry carries the i-th split of the total, a
// date advanced i-1 months (day clamped to the target month), and a
// "(i/count)" description suffix. The result is ordered by index and not
// persisted; writing the group atomically is the caller's concern.
//
// The purchase must be paid with CREDITO on a credit-capable account,
// otherwise ErrInstallmentNotAllowed. A plan starts out PENDENTE or
// CONFIRMADO; a cancelled draft cannot seed a group.
func GenerateInstallments(draft EntryDraft, account Account, groupID string, count int) ([]LedgerEntry, error) {
	if count < 2 {
		return nil, ErrInvalidInstallmentCount
	}
	if draft.Method != MethodCredit || !account.CreditCapable() {
		return nil, ErrInstallmentNotAllowed
	}
	if draft.Status != "" && draft.Status != StatusPending && draft.Status != StatusConfirmed {
		return nil, ErrInstallmentNotAllowed
	}
	if draft.AccountID != account.ID {
		return nil, ErrMissingAccount
	}
	if groupID == "" {
		return nil, ErrInvalidInstallmentIndex
	}
	parts, err := SplitInstallments(draft.Amount, count)
	if err != nil {
		return nil, err
	}
	base := draft.Entry()
	if err := base.Validate(); err != nil {
		return nil, err
	}
	entries := make([]LedgerEntry, count)
	for i := 0; i < count; i++ {
		e := base
		e.Amount = parts[i]
		e.Date = base.Date.AddMonths(i)
		e.Description = fmt.Sprintf("%s (%d/%d)", base.Description, i+1, count)
		e.InstallmentGroupID = groupID
		e.InstallmentIndex = i + 1
		e.InstallmentCount = count
		entries[i] = e
	}
	return entries, nil
}
