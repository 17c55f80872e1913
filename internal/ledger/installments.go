package ledger

import (
	"context"

	"github.com/google/uuid"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// CreateInstallmentPlan expands a credit purchase into count linked
// entries and persists them as one logical unit. The generated group is
// written sequentially with compensating deletes on failure, so either the
// whole group lands or none of it does.
func (s *Service) CreateInstallmentPlan(ctx context.Context, draft core.EntryDraft, count int) ([]core.LedgerEntry, error) {
	account, err := s.store.GetAccount(ctx, draft.OwnerID, draft.AccountID)
	if err != nil {
		return nil, core.NewStorageError("get account", err)
	}

	groupID := uuid.NewString()
	entries, err := core.GenerateInstallments(draft, account, groupID, count)
	if err != nil {
		return nil, err
	}

	created, err := s.createAll(ctx, "create installment plan", entries)
	if err != nil {
		return nil, err
	}

	ev := amqp.NewLedgerEvent(amqp.ActionEntryCreated, draft.OwnerID, draft.AccountID)
	ev.GroupID = groupID
	ev.EntryID = created[0].ID
	ev.AmountCents = draft.Amount.Cents
	s.publish(ctx, ev)

	return created, nil
}

// InstallmentGroup returns the members of a group ordered by index.
func (s *Service) InstallmentGroup(ctx context.Context, ownerID, groupID string) ([]core.LedgerEntry, error) {
	entries, err := s.store.ListGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, core.NewStorageError("list installment group", err)
	}
	if len(entries) == 0 {
		return nil, core.ErrNotFound
	}
	return entries, nil
}
