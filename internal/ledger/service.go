package ledger

import (
	"context"
	"log/slog"
	"time"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Service executes ledger operations against an injected store, publishing
// change events on the side. Calculators stay pure; the service only loads
// the inputs and hands back their output.
type Service struct {
	store  Store
	events *amqp.Client
}

// NewService wires the engine. events may be nil; publishing is then
// skipped entirely.
func NewService(store Store, events *amqp.Client) *Service {
	return &Service{store: store, events: events}
}

// CreateEntry validates and persists a single standalone entry.
func (s *Service) CreateEntry(ctx context.Context, draft core.EntryDraft) (core.LedgerEntry, error) {
	entry := draft.Entry()
	if err := entry.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	if entry.Method == core.MethodCredit {
		account, err := s.store.GetAccount(ctx, entry.OwnerID, entry.AccountID)
		if err != nil {
			return core.LedgerEntry{}, core.NewStorageError("get account", err)
		}
		if !account.CreditCapable() {
			return core.LedgerEntry{}, core.ErrInstallmentNotAllowed
		}
	}
	created, err := s.store.CreateEntry(ctx, entry)
	if err != nil {
		return core.LedgerEntry{}, core.NewStorageError("create entry", err)
	}

	ev := amqp.NewLedgerEvent(amqp.ActionEntryCreated, created.OwnerID, created.AccountID)
	ev.EntryID = created.ID
	ev.AmountCents = created.Amount.Cents
	s.publish(ctx, ev)

	return created, nil
}

// Entry fetches a single entry by id within the owner's scope.
func (s *Service) Entry(ctx context.Context, ownerID, id string) (core.LedgerEntry, error) {
	entry, err := s.store.GetEntry(ctx, ownerID, id)
	if err != nil {
		return core.LedgerEntry{}, core.NewStorageError("get entry", err)
	}
	return entry, nil
}

// Entries lists an owner's entries through the store filter.
func (s *Service) Entries(ctx context.Context, ownerID string, f EntryFilter) ([]core.LedgerEntry, error) {
	entries, err := s.store.ListEntries(ctx, ownerID, f)
	if err != nil {
		return nil, core.NewStorageError("list entries", err)
	}
	return entries, nil
}

// publish sends a ledger event when a client is configured. Failures are
// logged and swallowed: the write already happened and the stream is a
// best-effort notification, not part of the operation's outcome.
func (s *Service) publish(ctx context.Context, msg *amqp.LedgerEventMessage) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"action", msg.Action,
			"account_id", msg.AccountID,
			"error", err)
	}
}

// createAll writes the given entries in sequence. On failure it deletes
// the already-written records before returning; the caller never observes
// a half-written group. A failure after at least one successful write
// always surfaces as *core.PartialWriteError, even when every record was
// compensated.
func (s *Service) createAll(ctx context.Context, op string, entries []core.LedgerEntry) ([]core.LedgerEntry, error) {
	written := make([]core.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		created, err := s.store.CreateEntry(ctx, e)
		if err != nil {
			if len(written) == 0 {
				return nil, core.NewStorageError(op, err)
			}
			pw := &core.PartialWriteError{Op: op, Err: err}
			for _, w := range written {
				pw.Written = append(pw.Written, w.ID)
			}
			for _, w := range written {
				if derr := s.store.DeleteEntry(ctx, w.OwnerID, w.ID); derr != nil {
					slog.ErrorContext(ctx, "Compensating delete failed",
						"operation", op,
						"entry_id", w.ID,
						"error", derr)
					continue
				}
				pw.Compensated = append(pw.Compensated, w.ID)
			}
			return nil, pw
		}
		written = append(written, created)
	}
	return written, nil
}
