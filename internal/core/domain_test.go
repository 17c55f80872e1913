package core

import (
	"errors"
	"testing"
)

func validEntry() LedgerEntry {
	return LedgerEntry{
		ID:          "e1",
		OwnerID:     "owner-1",
		Description: "Mercado",
		Amount:      Cents(4500),
		Date:        NewDate(2025, 3, 10),
		Kind:        KindExpense,
		AccountID:   "acc-1",
		CategoryID:  "cat-1",
		Status:      StatusConfirmed,
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*LedgerEntry)
		wantErr error
	}{
		{"valid", func(e *LedgerEntry) {}, nil},
		{"missing owner", func(e *LedgerEntry) { e.OwnerID = " " }, ErrMissingOwner},
		{"empty description", func(e *LedgerEntry) { e.Description = "" }, ErrEmptyDescription},
		{"zero amount", func(e *LedgerEntry) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *LedgerEntry) { e.Amount = Cents(-10) }, ErrInvalidAmount},
		{"zero date", func(e *LedgerEntry) { e.Date = Date{} }, ErrInvalidDate},
		{"bad kind", func(e *LedgerEntry) { e.Kind = "TRANSFERENCIA" }, ErrUnknownKind},
		{"missing account", func(e *LedgerEntry) { e.AccountID = "" }, ErrMissingAccount},
		{"missing category", func(e *LedgerEntry) { e.CategoryID = "" }, ErrMissingCategory},
		{"bad status", func(e *LedgerEntry) { e.Status = "PAGO" }, ErrUnknownStatus},
		{"bad method", func(e *LedgerEntry) { e.Method = "BOLETO" }, ErrUnknownMethod},
		{
			"group without credit method",
			func(e *LedgerEntry) {
				e.InstallmentGroupID = "g1"
				e.InstallmentIndex = 1
				e.InstallmentCount = 3
				e.Method = MethodDebit
			},
			ErrInstallmentNotAllowed,
		},
		{
			"group of one",
			func(e *LedgerEntry) {
				e.InstallmentGroupID = "g1"
				e.InstallmentIndex = 1
				e.InstallmentCount = 1
				e.Method = MethodCredit
			},
			ErrInvalidInstallmentCount,
		},
		{
			"index out of range",
			func(e *LedgerEntry) {
				e.InstallmentGroupID = "g1"
				e.InstallmentIndex = 4
				e.InstallmentCount = 3
				e.Method = MethodCredit
			},
			ErrInvalidInstallmentIndex,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEntry()
			tc.mutate(&e)
			err := e.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAccountValidate(t *testing.T) {
	acc := Account{ID: "a", OwnerID: "o", Name: "Nubank", Kind: AccountChecking, CreditLimit: Cents(100000)}
	if err := acc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acc.CreditCapable() {
		t.Fatal("account with positive limit should be credit-capable")
	}

	acc.CreditLimit = Money{}
	if err := acc.Validate(); err != nil {
		t.Fatalf("absent limit is valid: %v", err)
	}
	if acc.CreditCapable() {
		t.Fatal("account without limit should not be credit-capable")
	}

	acc.Kind = "bitcoin"
	if !errors.Is(acc.Validate(), ErrUnknownAccountKind) {
		t.Fatal("expected unknown account kind")
	}
}

func TestDateAddMonthsClampsDay(t *testing.T) {
	cases := []struct {
		name  string
		start Date
		n     int
		want  Date
	}{
		{"plain month", NewDate(2025, 1, 15), 1, NewDate(2025, 2, 15)},
		{"jan 31 to feb", NewDate(2025, 1, 31), 1, NewDate(2025, 2, 28)},
		{"jan 31 to leap feb", NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)},
		{"clamp does not stick", NewDate(2025, 1, 31), 2, NewDate(2025, 3, 31)},
		{"year rollover", NewDate(2025, 11, 30), 3, NewDate(2026, 2, 28)},
		{"zero months", NewDate(2025, 5, 10), 0, NewDate(2025, 5, 10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.start.AddMonths(tc.n)
			if !got.Equal(tc.want.Time) {
				t.Fatalf("expected %s, got %s", tc.want.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestDebtLifecycle(t *testing.T) {
	d, err := NewDebt("owner-1", "Financiamento", Cents(120000), Cents(10000), 1.5, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Remaining.Cents != 120000 || d.Paid.Cents != 0 || d.Status != DebtActive {
		t.Fatalf("fresh debt in wrong state: %+v", d)
	}

	d, err = d.RecordPayment(Cents(10000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Paid.Cents != 10000 || d.Remaining.Cents != 110000 || d.InstallmentsPaid != 1 {
		t.Fatalf("after one payment: %+v", d)
	}

	if _, err := d.RecordPayment(Cents(999999)); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("expected overpayment rejection, got %v", err)
	}

	d, err = d.RecordPayment(Cents(110000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != DebtSettled || d.Remaining.Cents != 0 {
		t.Fatalf("cleared debt should be QUITADA: %+v", d)
	}
	if _, err := d.RecordPayment(Cents(1)); !errors.Is(err, ErrDebtSettled) {
		t.Fatalf("expected settled rejection, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to EntryStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusPending, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusPending, "PAGO", false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}

	e := validEntry()
	e.Status = StatusCancelled
	if _, err := e.Transition(StatusConfirmed); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("cancelled entries must stay cancelled, got %v", err)
	}
}
