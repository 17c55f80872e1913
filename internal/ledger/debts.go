package ledger

import (
	"context"

	"orcamento/internal/core"
)

// CreateDebt opens a new independently-tracked debt.
func (s *Service) CreateDebt(ctx context.Context, ownerID, description string, principal, installmentValue core.Money, rate float64, installmentsTotal int) (core.Debt, error) {
	debt, err := core.NewDebt(ownerID, description, principal, installmentValue, rate, installmentsTotal)
	if err != nil {
		return core.Debt{}, err
	}
	created, err := s.store.CreateDebt(ctx, debt)
	if err != nil {
		return core.Debt{}, core.NewStorageError("create debt", err)
	}
	return created, nil
}

// RecordDebtPayment applies one payment to a debt and persists the result.
func (s *Service) RecordDebtPayment(ctx context.Context, ownerID, debtID string, amount core.Money) (core.Debt, error) {
	debt, err := s.store.GetDebt(ctx, ownerID, debtID)
	if err != nil {
		return core.Debt{}, core.NewStorageError("get debt", err)
	}
	paid, err := debt.RecordPayment(amount)
	if err != nil {
		return core.Debt{}, err
	}
	updated, err := s.store.UpdateDebt(ctx, paid)
	if err != nil {
		return core.Debt{}, core.NewStorageError("update debt", err)
	}
	return updated, nil
}

// Debts lists the owner's debts.
func (s *Service) Debts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	debts, err := s.store.ListDebts(ctx, ownerID)
	if err != nil {
		return nil, core.NewStorageError("list debts", err)
	}
	return debts, nil
}
