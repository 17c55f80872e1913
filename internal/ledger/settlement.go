package ledger

import (
	"context"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
)

// SettlementRequest pays a card account's invoice from an origin account.
type SettlementRequest struct {
	CardAccountID   string
	OriginAccountID string
	Amount          core.Money
	PeriodStart     core.Date
	PeriodEnd       core.Date
	// Partial allows paying less (or more) than the aggregated invoice
	// total. A full settlement must match the total to the cent.
	Partial bool
	// Date is the settlement date; the netting against forward utilization
	// keys on it.
	Date core.Date
}

// SettleInvoice validates the payment against the invoice total and moves
// the amount from the origin account to the card account via the transfer
// engine. The RECEITA leg on the card nets the paid portion out of forward
// utilization. Origin balances may go negative; the ledger's posture is
// permissive, sufficiency is advisory only.
func (s *Service) SettleInvoice(ctx context.Context, ownerID string, req SettlementRequest) (TransferResult, error) {
	if err := req.Amount.Validate(); err != nil {
		return TransferResult{}, err
	}

	card, err := s.store.GetAccount(ctx, ownerID, req.CardAccountID)
	if err != nil {
		return TransferResult{}, core.NewStorageError("get card account", err)
	}
	if !card.CreditCapable() {
		return TransferResult{}, core.ErrNotCreditAccount
	}

	if !req.Partial {
		invoice, err := s.Invoice(ctx, ownerID, req.CardAccountID, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return TransferResult{}, err
		}
		if invoice.Total.Cents != req.Amount.Cents {
			return TransferResult{}, core.ErrAmountMismatch
		}
	}

	date := req.Date
	if date.IsZero() {
		date = core.DateOf(timeNow())
	}
	result, err := s.Transfer(ctx, ownerID, TransferRequest{
		SourceAccountID: req.OriginAccountID,
		DestAccountID:   req.CardAccountID,
		Amount:          req.Amount,
		Description:     "Pagamento de fatura",
		Date:            date,
	})
	if err != nil {
		return TransferResult{}, err
	}

	ev := amqp.NewLedgerEvent(amqp.ActionSettlement, ownerID, req.OriginAccountID)
	ev.TransferID = result.TransferID
	ev.DestAccountID = req.CardAccountID
	ev.AmountCents = req.Amount.Cents
	s.publish(ctx, ev)

	return result, nil
}
