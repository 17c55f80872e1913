package core

import "testing"

func invoiceFixture() (Account, []LedgerEntry, map[string]Category) {
	acc := Account{ID: "card-1", OwnerID: "o", CreditLimit: Cents(500000)}
	categories := map[string]Category{
		"cat-food":   {ID: "cat-food", Name: "Alimentação", Kind: KindExpense},
		"cat-fuel":   {ID: "cat-fuel", Name: "Combustível", Kind: KindExpense},
		"cat-health": {ID: "cat-health", Name: "Saúde", Kind: KindExpense},
	}
	entries := []LedgerEntry{
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusConfirmed, CategoryID: "cat-food", Amount: Cents(12000), Date: NewDate(2025, 6, 3)},
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusConfirmed, CategoryID: "cat-food", Amount: Cents(8000), Date: NewDate(2025, 6, 10)},
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusConfirmed, CategoryID: "cat-fuel", Amount: Cents(20000), Date: NewDate(2025, 6, 3),
			InstallmentGroupID: "g1", InstallmentIndex: 1, InstallmentCount: 3},
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusConfirmed, CategoryID: "cat-health", Amount: Cents(20000), Date: NewDate(2025, 6, 20)},
		// Outside range, wrong method, wrong status, wrong kind: all excluded.
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusConfirmed, CategoryID: "cat-food", Amount: Cents(7777), Date: NewDate(2025, 7, 1)},
		{AccountID: "card-1", Kind: KindExpense, Method: MethodPix, Status: StatusConfirmed, CategoryID: "cat-food", Amount: Cents(6666), Date: NewDate(2025, 6, 5)},
		{AccountID: "card-1", Kind: KindExpense, Method: MethodCredit, Status: StatusPending, CategoryID: "cat-food", Amount: Cents(5555), Date: NewDate(2025, 6, 5)},
		{AccountID: "card-1", Kind: KindReceipt, Status: StatusConfirmed, CategoryID: "cat-food", Amount: Cents(4444), Date: NewDate(2025, 6, 5)},
	}
	return acc, entries, categories
}

func TestAggregateInvoice(t *testing.T) {
	acc, entries, categories := invoiceFixture()
	sum := AggregateInvoice(acc, entries, categories, NewDate(2025, 6, 1), NewDate(2025, 6, 30))

	if sum.Total.Cents != 60000 {
		t.Errorf("total: expected 60000, got %d", sum.Total.Cents)
	}
	if sum.Count != 4 {
		t.Errorf("count: expected 4, got %d", sum.Count)
	}
	if sum.Average.Cents != 15000 {
		t.Errorf("average: expected 15000, got %d", sum.Average.Cents)
	}
	if sum.Max.Cents != 20000 {
		t.Errorf("max: expected 20000, got %d", sum.Max.Cents)
	}
	if sum.InstallmentEntries != 1 {
		t.Errorf("installment entries: expected 1, got %d", sum.InstallmentEntries)
	}
}

func TestAggregateInvoiceCategoryOrdering(t *testing.T) {
	acc, entries, categories := invoiceFixture()
	sum := AggregateInvoice(acc, entries, categories, NewDate(2025, 6, 1), NewDate(2025, 6, 30))

	if len(sum.ByCategory) != 3 {
		t.Fatalf("expected 3 category shares, got %d", len(sum.ByCategory))
	}
	// All three categories tie at 20000, so ordering falls back to name
	// ascending.
	wantNames := []string{"Alimentação", "Combustível", "Saúde"}
	for i, want := range wantNames {
		if sum.ByCategory[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, sum.ByCategory[i].Name)
		}
	}
	var pct float64
	for _, share := range sum.ByCategory {
		pct += share.Percent
	}
	if pct < 99.99 || pct > 100.01 {
		t.Errorf("percentages should sum to 100, got %v", pct)
	}
}

func TestAggregateInvoiceDayBuckets(t *testing.T) {
	acc, entries, categories := invoiceFixture()
	sum := AggregateInvoice(acc, entries, categories, NewDate(2025, 6, 1), NewDate(2025, 6, 30))

	if len(sum.ByDay) != 3 {
		t.Fatalf("expected 3 day buckets, got %d", len(sum.ByDay))
	}
	wantDays := []struct {
		date  Date
		cents int64
	}{
		{NewDate(2025, 6, 3), 32000},
		{NewDate(2025, 6, 10), 8000},
		{NewDate(2025, 6, 20), 20000},
	}
	for i, want := range wantDays {
		got := sum.ByDay[i]
		if !got.Date.Equal(want.date.Time) || got.Total.Cents != want.cents {
			t.Errorf("bucket %d: expected %s=%d, got %s=%d",
				i, want.date.Format("2006-01-02"), want.cents, got.Date.Format("2006-01-02"), got.Total.Cents)
		}
	}
}

func TestAggregateInvoiceEmptyRange(t *testing.T) {
	acc, entries, categories := invoiceFixture()
	sum := AggregateInvoice(acc, entries, categories, NewDate(2030, 1, 1), NewDate(2030, 1, 31))

	if sum.Total.Cents != 0 || sum.Count != 0 || sum.Average.Cents != 0 || sum.Max.Cents != 0 {
		t.Fatalf("empty range should zero all KPIs: %+v", sum)
	}
	if len(sum.ByCategory) != 0 || len(sum.ByDay) != 0 {
		t.Fatalf("empty range should yield empty groups: %+v", sum)
	}
}
