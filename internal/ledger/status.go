package ledger

import (
	"context"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// ChangeStatus moves an entry through the status state machine. When the
// entry heads an installment group the transition propagates to every
// sibling; changing a single installment while leaving its siblings
// untouched is the explicit single=true variant, never inferred.
//
// Group propagation is logically atomic: if any sibling update fails, the
// already-updated ones are reverted to their previous status before the
// error is reported.
func (s *Service) ChangeStatus(ctx context.Context, ownerID, entryID string, to core.EntryStatus, single bool) ([]core.LedgerEntry, error) {
	entry, err := s.store.GetEntry(ctx, ownerID, entryID)
	if err != nil {
		return nil, core.NewStorageError("get entry", err)
	}

	targets := []core.LedgerEntry{entry}
	if entry.Grouped() && !single {
		group, err := s.store.ListGroup(ctx, ownerID, entry.InstallmentGroupID)
		if err != nil {
			return nil, core.NewStorageError("list installment group", err)
		}
		targets = group
	}

	// The acted-on entry must accept the transition; siblings already at
	// the target are left alone and cancelled siblings stay terminal.
	if !core.CanTransition(entry.Status, to) {
		return nil, core.ErrInvalidStatusChange
	}

	updated := make([]core.LedgerEntry, 0, len(targets))
	previous := make(map[string]core.EntryStatus, len(targets))
	for _, t := range targets {
		if t.Status == to || !core.CanTransition(t.Status, to) {
			updated = append(updated, t)
			continue
		}
		next, err := t.Transition(to)
		if err != nil {
			return nil, err
		}
		saved, err := s.store.UpdateEntry(ctx, next)
		if err != nil {
			return nil, &core.PartialWriteError{
				Op:          "group status change",
				Written:     keys(previous),
				Compensated: s.revertStatuses(ctx, updated, previous),
				Err:         err,
			}
		}
		previous[t.ID] = t.Status
		updated = append(updated, saved)
	}

	ev := amqp.NewLedgerEvent(amqp.ActionStatusChanged, ownerID, entry.AccountID)
	ev.EntryID = entry.ID
	ev.GroupID = entry.InstallmentGroupID
	s.publish(ctx, ev)

	return updated, nil
}

// revertStatuses undoes the status updates recorded in previous and
// returns the ids it managed to restore. The caller already carries an
// aggregate error, so individual revert failures are only dropped.
func (s *Service) revertStatuses(ctx context.Context, updated []core.LedgerEntry, previous map[string]core.EntryStatus) []string {
	var reverted []string
	for _, e := range updated {
		prev, ok := previous[e.ID]
		if !ok {
			continue
		}
		e.Status = prev
		if _, err := s.store.UpdateEntry(ctx, e); err == nil {
			reverted = append(reverted, e.ID)
		}
	}
	return reverted
}

func keys(m map[string]core.EntryStatus) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
