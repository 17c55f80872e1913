package ledger_test

import (
	"context"
	"errors"
	"testing"

	"orcamento/internal/core"
)

func TestDeleteEntryRemovesWholeGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := planOf(t, f)

	if err := f.svc.DeleteEntry(ctx, owner, plan[1].ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.InstallmentGroup(ctx, owner, plan[1].InstallmentGroupID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("group must be gone, got %v", err)
	}
}

func TestDeleteSingleInstallment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := planOf(t, f)

	if err := f.svc.DeleteEntry(ctx, owner, plan[2].ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	group, err := f.svc.InstallmentGroup(ctx, owner, plan[0].InstallmentGroupID)
	if err != nil {
		t.Fatalf("list group: %v", err)
	}
	if len(group) != 2 {
		t.Fatalf("expected 2 surviving installments, got %d", len(group))
	}
	for _, e := range group {
		if e.ID == plan[2].ID {
			t.Fatal("deleted installment still listed")
		}
	}
}

func TestDeleteTransferLegRemovesPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Transfer(ctx, owner, transferReq(f, 15000))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	// single=true is ignored for transfer legs, the pair always goes whole.
	if err := f.svc.DeleteEntry(ctx, owner, res.Credit.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair, err := f.svc.TransferPair(ctx, owner, res.TransferID)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("pair must be gone, got %d entries, err %v", len(pair), err)
	}
}

func TestDeleteEntryCompensatesPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := planOf(t, f)

	boom := errors.New("disk full")
	f.store.FailDeleteEntryAfter(2, boom)

	err := f.svc.DeleteEntry(ctx, owner, plan[0].ID, false)
	var pw *core.PartialWriteError
	if !errors.As(err, &pw) {
		t.Fatalf("expected PartialWriteError, got %v", err)
	}
	if len(pw.Written) != 1 || len(pw.Compensated) != 1 {
		t.Fatalf("one delete to undo, got written=%d compensated=%d", len(pw.Written), len(pw.Compensated))
	}
	if len(pw.Residual()) != 0 {
		t.Fatalf("recreate succeeded, residual should be empty: %v", pw.Residual())
	}

	group, gerr := f.svc.InstallmentGroup(ctx, owner, plan[0].InstallmentGroupID)
	if gerr != nil {
		t.Fatalf("list group: %v", gerr)
	}
	if len(group) != 3 {
		t.Fatalf("unit must be whole after compensation, got %d entries", len(group))
	}
}

func TestDeleteEntryFirstFailureIsStorageError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := planOf(t, f)

	boom := errors.New("disk full")
	f.store.FailDeleteEntry(boom)

	err := f.svc.DeleteEntry(ctx, owner, plan[0].ID, false)
	var pw *core.PartialWriteError
	if errors.As(err, &pw) {
		t.Fatalf("nothing was deleted, error must not be partial: %v", err)
	}
	var se *core.StorageError
	if !errors.As(err, &se) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
