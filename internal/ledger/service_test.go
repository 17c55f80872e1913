package ledger_test

import (
	"context"
	"errors"
	"testing"

	"orcamento/internal/core"
	"orcamento/internal/ledger"
	"orcamento/internal/storage/memory"
)

const owner = "owner-1"

type fixture struct {
	svc      *ledger.Service
	store    *memory.Store
	checking core.Account
	card     core.Account
	category core.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	checking, err := store.CreateAccount(ctx, core.Account{
		OwnerID:        owner,
		Name:           "Conta Corrente",
		Kind:           core.AccountChecking,
		OpeningBalance: core.Cents(100000),
	})
	if err != nil {
		t.Fatalf("seed checking account: %v", err)
	}
	card, err := store.CreateAccount(ctx, core.Account{
		OwnerID:     owner,
		Name:        "Cartão",
		Kind:        core.AccountChecking,
		CreditLimit: core.Cents(500000),
	})
	if err != nil {
		t.Fatalf("seed card account: %v", err)
	}
	category, err := store.CreateCategory(ctx, core.Category{
		OwnerID: owner,
		Name:    "Compras",
		Kind:    core.KindExpense,
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	return &fixture{
		svc:      ledger.NewService(store, nil),
		store:    store,
		checking: checking,
		card:     card,
		category: category,
	}
}

func (f *fixture) draft(accountID string, cents int64) core.EntryDraft {
	return core.EntryDraft{
		OwnerID:     owner,
		Description: "Compra teste",
		Amount:      core.Cents(cents),
		Date:        core.NewDate(2025, 6, 10),
		Kind:        core.KindExpense,
		AccountID:   accountID,
		CategoryID:  f.category.ID,
	}
}

func TestCreateEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEntry(ctx, f.draft(f.checking.ID, 4500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created entry must carry an id")
	}
	if created.Status != core.StatusConfirmed {
		t.Fatalf("manual entries default to CONFIRMADO, got %s", created.Status)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.draft(f.checking.ID, 4500)
	draft.Amount = core.Cents(-1)
	if _, err := f.svc.CreateEntry(ctx, draft); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateEntryCreditRequiresCreditAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.draft(f.checking.ID, 4500)
	draft.Method = core.MethodCredit
	if _, err := f.svc.CreateEntry(ctx, draft); !errors.Is(err, core.ErrInstallmentNotAllowed) {
		t.Fatalf("expected ErrInstallmentNotAllowed, got %v", err)
	}

	draft.AccountID = f.card.ID
	if _, err := f.svc.CreateEntry(ctx, draft); err != nil {
		t.Fatalf("credit entry on credit-capable account: %v", err)
	}
}

func TestAccountBalanceThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	receipt := f.draft(f.checking.ID, 50000)
	receipt.Kind = core.KindReceipt
	if _, err := f.svc.CreateEntry(ctx, receipt); err != nil {
		t.Fatalf("create receipt: %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, f.draft(f.checking.ID, 20000)); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	s, err := f.svc.AccountBalance(ctx, owner, f.checking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// opening 1000.00 + 500.00 - 200.00 = 1300.00
	if s.Current.Cents != 130000 {
		t.Fatalf("expected balance 130000, got %d", s.Current.Cents)
	}
}

func TestOwnerScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AccountBalance(ctx, "intruder", f.checking.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign owner must not see the account, got %v", err)
	}
}

func TestDebtPaymentsThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	debt, err := f.svc.CreateDebt(ctx, owner, "Financiamento carro", core.Cents(240000), core.Cents(20000), 1.2, 12)
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}

	paid, err := f.svc.RecordDebtPayment(ctx, owner, debt.ID, core.Cents(20000))
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if paid.Remaining.Cents != 220000 || paid.InstallmentsPaid != 1 {
		t.Fatalf("after payment: %+v", paid)
	}

	if _, err := f.svc.RecordDebtPayment(ctx, owner, debt.ID, core.Cents(999999)); !errors.Is(err, core.ErrOverpayment) {
		t.Fatalf("expected overpayment rejection, got %v", err)
	}
}
