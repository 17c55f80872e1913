package core

import (
	"errors"
	"fmt"
	"testing"
)

func installmentDraft() EntryDraft {
	return EntryDraft{
		OwnerID:     "owner-1",
		Description: "Notebook",
		Amount:      Cents(300000),
		Date:        NewDate(2025, 1, 31),
		Kind:        KindExpense,
		AccountID:   "card-1",
		CategoryID:  "cat-1",
		Method:      MethodCredit,
		CardLabel:   "final 4242",
	}
}

func TestGenerateInstallments(t *testing.T) {
	entries, err := GenerateInstallments(installmentDraft(), cardAccount(500000), "g1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantDates := []Date{NewDate(2025, 1, 31), NewDate(2025, 2, 28), NewDate(2025, 3, 31)}
	var sum int64
	for i, e := range entries {
		if e.InstallmentGroupID != "g1" || e.InstallmentIndex != i+1 || e.InstallmentCount != 3 {
			t.Errorf("entry %d: bad installment linkage: %+v", i, e)
		}
		if want := fmt.Sprintf("Notebook (%d/3)", i+1); e.Description != want {
			t.Errorf("entry %d: expected description %q, got %q", i, want, e.Description)
		}
		if !e.Date.Equal(wantDates[i].Time) {
			t.Errorf("entry %d: expected date %s, got %s", i, wantDates[i].Format("2006-01-02"), e.Date.Format("2006-01-02"))
		}
		if e.Status != StatusConfirmed {
			t.Errorf("entry %d: expected CONFIRMADO default, got %s", i, e.Status)
		}
		if e.CardLabel != "final 4242" {
			t.Errorf("entry %d: card label not carried over", i)
		}
		if err := e.Validate(); err != nil {
			t.Errorf("entry %d: invalid: %v", i, err)
		}
		sum += e.Amount.Cents
	}
	if sum != 300000 {
		t.Fatalf("group must sum to the purchase amount, got %d", sum)
	}
}

func TestGenerateInstallmentsPendingStatus(t *testing.T) {
	draft := installmentDraft()
	draft.Status = StatusPending
	entries, err := GenerateInstallments(draft, cardAccount(500000), "g1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, e := range entries {
		if e.Status != StatusPending {
			t.Errorf("entry %d: expected PENDENTE, got %s", i, e.Status)
		}
	}
}

func TestGenerateInstallmentsIndexesComplete(t *testing.T) {
	for n := 2; n <= 24; n++ {
		entries, err := GenerateInstallments(installmentDraft(), cardAccount(500000), "g1", n)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		seen := make(map[int]bool)
		for _, e := range entries {
			if seen[e.InstallmentIndex] {
				t.Fatalf("n=%d: duplicate index %d", n, e.InstallmentIndex)
			}
			seen[e.InstallmentIndex] = true
		}
		for i := 1; i <= n; i++ {
			if !seen[i] {
				t.Fatalf("n=%d: missing index %d", n, i)
			}
		}
	}
}

func TestGenerateInstallmentsPreconditions(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*EntryDraft, *Account)
		count   int
		wantErr error
	}{
		{"single installment", func(d *EntryDraft, a *Account) {}, 1, ErrInvalidInstallmentCount},
		{"debit method", func(d *EntryDraft, a *Account) { d.Method = MethodDebit }, 3, ErrInstallmentNotAllowed},
		{"pix method", func(d *EntryDraft, a *Account) { d.Method = MethodPix }, 3, ErrInstallmentNotAllowed},
		{"no credit line", func(d *EntryDraft, a *Account) { a.CreditLimit = Money{} }, 3, ErrInstallmentNotAllowed},
		{"zero amount", func(d *EntryDraft, a *Account) { d.Amount = Money{} }, 3, ErrInvalidAmount},
		{"account mismatch", func(d *EntryDraft, a *Account) { d.AccountID = "other" }, 3, ErrMissingAccount},
		{"cancelled draft", func(d *EntryDraft, a *Account) { d.Status = StatusCancelled }, 3, ErrInstallmentNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := installmentDraft()
			acc := cardAccount(500000)
			tc.mutate(&draft, &acc)
			if _, err := GenerateInstallments(draft, acc, "g1", tc.count); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
