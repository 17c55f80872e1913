package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// TransferRequest describes a same-owner move between two accounts.
type TransferRequest struct {
	SourceAccountID string
	DestAccountID   string
	Amount          core.Money
	Description     string
	Date            core.Date
}

// TransferResult is the persisted pair: a DESPESA on the source account and
// a RECEITA on the destination, sharing a transfer id.
type TransferResult struct {
	TransferID string
	Debit      core.LedgerEntry
	Credit     core.LedgerEntry
}

// Transfer moves the amount between two of the owner's accounts as an
// atomic pair of entries. A transfer that only debits or only credits is
// never observable: if the second write fails the first leg is deleted
// before the error surfaces.
func (s *Service) Transfer(ctx context.Context, ownerID string, req TransferRequest) (TransferResult, error) {
	if err := s.validateTransfer(ctx, ownerID, req); err != nil {
		return TransferResult{}, err
	}

	transferID := uuid.NewString()
	description := req.Description
	if description == "" {
		description = "Transferência entre contas"
	}
	base := core.LedgerEntry{
		OwnerID:     ownerID,
		Description: description,
		Amount:      req.Amount,
		Date:        req.Date,
		Status:      core.StatusConfirmed,
		TransferID:  transferID,
	}
	debit := base
	debit.Kind = core.KindExpense
	debit.AccountID = req.SourceAccountID
	credit := base
	credit.Kind = core.KindReceipt
	credit.AccountID = req.DestAccountID

	created, err := s.createAll(ctx, "transfer", []core.LedgerEntry{debit, credit})
	if err != nil {
		return TransferResult{}, err
	}

	ev := amqp.NewLedgerEvent(amqp.ActionTransferDone, ownerID, req.SourceAccountID)
	ev.TransferID = transferID
	ev.DestAccountID = req.DestAccountID
	ev.AmountCents = req.Amount.Cents
	s.publish(ctx, ev)

	return TransferResult{TransferID: transferID, Debit: created[0], Credit: created[1]}, nil
}

func (s *Service) validateTransfer(ctx context.Context, ownerID string, req TransferRequest) error {
	if req.SourceAccountID == "" || req.DestAccountID == "" {
		return fmt.Errorf("%w: missing account", core.ErrInvalidTransfer)
	}
	if req.SourceAccountID == req.DestAccountID {
		return fmt.Errorf("%w: source and destination are the same account", core.ErrInvalidTransfer)
	}
	if err := req.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: amount must be positive", core.ErrInvalidTransfer)
	}
	if err := req.Date.Validate(); err != nil {
		return fmt.Errorf("%w: missing date", core.ErrInvalidTransfer)
	}
	// The store is owner-scoped, so a hit on each account also proves
	// both belong to the same owner.
	if _, err := s.store.GetAccount(ctx, ownerID, req.SourceAccountID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: unknown source account", core.ErrInvalidTransfer)
		}
		return core.NewStorageError("get source account", err)
	}
	if _, err := s.store.GetAccount(ctx, ownerID, req.DestAccountID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%w: unknown destination account", core.ErrInvalidTransfer)
		}
		return core.NewStorageError("get destination account", err)
	}
	return nil
}

// TransferPair returns both legs of a transfer.
func (s *Service) TransferPair(ctx context.Context, ownerID, transferID string) ([]core.LedgerEntry, error) {
	entries, err := s.store.ListTransferPair(ctx, ownerID, transferID)
	if err != nil {
		return nil, core.NewStorageError("list transfer pair", err)
	}
	if len(entries) == 0 {
		return nil, core.ErrNotFound
	}
	return entries, nil
}
