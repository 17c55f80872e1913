package core

// CanTransition reports whether an entry may move from one status to
// another. PENDENTE and CONFIRMADO flip freely in both directions and
// either may be cancelled; CANCELADO is terminal, a cancelled entry is
// recreated rather than revived.
func CanTransition(from, to EntryStatus) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusPending || to == StatusCancelled
	case StatusCancelled:
		return false
	}
	return false
}

// Transition applies a status change to the entry, enforcing the state
// machine.
func (e LedgerEntry) Transition(to EntryStatus) (LedgerEntry, error) {
	if !CanTransition(e.Status, to) {
		return LedgerEntry{}, ErrInvalidStatusChange
	}
	e.Status = to
	return e, nil
}
