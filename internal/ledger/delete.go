package ledger

import (
	"context"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// DeleteEntry removes an entry from the ledger. Entries linked to others
// are deleted as a unit to keep the linkage invariants intact:
//
//   - installment group member: the whole group goes, unless the caller
//     explicitly asks for a single-installment delete with single=true;
//   - transfer leg: both legs always go, a one-legged transfer must never
//     be observable.
//
// Unit deletes are compensated on partial failure by recreating the
// already-deleted records, and the failure surfaces as an aggregate error.
func (s *Service) DeleteEntry(ctx context.Context, ownerID, entryID string, single bool) error {
	entry, err := s.store.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return core.NewStorageError("get entry", err)
	}

	targets := []core.LedgerEntry{entry}
	switch {
	case entry.Transferred():
		pair, err := s.store.ListTransferPair(ctx, ownerID, entry.TransferID)
		if err != nil {
			return core.NewStorageError("list transfer pair", err)
		}
		targets = pair
	case entry.Grouped() && !single:
		group, err := s.store.ListGroup(ctx, ownerID, entry.InstallmentGroupID)
		if err != nil {
			return core.NewStorageError("list installment group", err)
		}
		targets = group
	case entry.Grouped() && single:
		// Explicitly requested expand-and-edit delete of one installment.
	}

	if err := s.deleteAll(ctx, "delete entry unit", targets); err != nil {
		return err
	}

	ev := amqp.NewLedgerEvent(amqp.ActionEntryDeleted, ownerID, entry.AccountID)
	ev.EntryID = entry.ID
	ev.GroupID = entry.InstallmentGroupID
	ev.TransferID = entry.TransferID
	s.publish(ctx, ev)

	return nil
}

// deleteAll removes the given entries in sequence, recreating the
// already-deleted ones if a later delete fails so the unit stays whole.
func (s *Service) deleteAll(ctx context.Context, op string, entries []core.LedgerEntry) error {
	deleted := make([]core.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if err := s.store.DeleteEntry(ctx, e.OwnerID, e.ID); err != nil {
			if len(deleted) == 0 {
				return core.NewStorageError(op, err)
			}
			pw := &core.PartialWriteError{Op: op, Err: err}
			for _, d := range deleted {
				pw.Written = append(pw.Written, d.ID)
			}
			for _, d := range deleted {
				if _, rerr := s.store.CreateEntry(ctx, d); rerr == nil {
					pw.Compensated = append(pw.Compensated, d.ID)
				}
			}
			return pw
		}
		deleted = append(deleted, e)
	}
	return nil
}
