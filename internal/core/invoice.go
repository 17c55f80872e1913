package core

import "sort"

type (
	// CategoryShare is one category's slice of an invoice.
	CategoryShare struct {
		CategoryID string
		Name       string
		Total      Money
		Percent    float64
	}

	// DayTotal buckets invoice spend by calendar day.
	DayTotal struct {
		Date  Date
		Total Money
	}

	// InvoiceSummary aggregates a card account's confirmed CREDITO expenses
	// for a date range.
	InvoiceSummary struct {
		Total Money
		// Average is the mean amount per entry, truncated to the cent.
		Average Money
		// Max is the largest single entry.
		Max Money
		// Count is the number of entries in the invoice.
		Count int
		// InstallmentEntries counts entries that belong to an installment group.
		InstallmentEntries int
		ByCategory         []CategoryShare
		ByDay              []DayTotal
	}
)

// AggregateInvoice filters the entries to confirmed CREDITO expenses of the
// account dated within [start, end] and groups them by category and by day.
// Category shares are sorted by total descending, ties by name ascending;
// day buckets are chronological. An empty selection yields zero totals and
// empty groups, not an error.
func AggregateInvoice(account Account, entries []LedgerEntry, categories map[string]Category, start, end Date) InvoiceSummary {
	var sum InvoiceSummary
	byCategory := make(map[string]*CategoryShare)
	byDay := make(map[Date]*DayTotal)

	for _, e := range entries {
		if e.AccountID != account.ID || !e.Confirmed() {
			continue
		}
		if e.Kind != KindExpense || e.Method != MethodCredit {
			continue
		}
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}

		sum.Total.Cents += e.Amount.Cents
		sum.Count++
		if e.Amount.Cents > sum.Max.Cents {
			sum.Max = e.Amount
		}
		if e.Grouped() {
			sum.InstallmentEntries++
		}

		share, ok := byCategory[e.CategoryID]
		if !ok {
			share = &CategoryShare{CategoryID: e.CategoryID, Name: categories[e.CategoryID].Name}
			byCategory[e.CategoryID] = share
		}
		share.Total.Cents += e.Amount.Cents

		day, ok := byDay[e.Date]
		if !ok {
			day = &DayTotal{Date: e.Date}
			byDay[e.Date] = day
		}
		day.Total.Cents += e.Amount.Cents
	}

	if sum.Count == 0 {
		sum.ByCategory = []CategoryShare{}
		sum.ByDay = []DayTotal{}
		return sum
	}

	sum.Average = Money{Cents: sum.Total.Cents / int64(sum.Count)}

	sum.ByCategory = make([]CategoryShare, 0, len(byCategory))
	for _, share := range byCategory {
		share.Percent = float64(share.Total.Cents) / float64(sum.Total.Cents) * 100
		sum.ByCategory = append(sum.ByCategory, *share)
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool {
		a, b := sum.ByCategory[i], sum.ByCategory[j]
		if a.Total.Cents != b.Total.Cents {
			return a.Total.Cents > b.Total.Cents
		}
		return a.Name < b.Name
	})

	sum.ByDay = make([]DayTotal, 0, len(byDay))
	for _, day := range byDay {
		sum.ByDay = append(sum.ByDay, *day)
	}
	sort.Slice(sum.ByDay, func(i, j int) bool {
		return sum.ByDay[i].Date.Before(sum.ByDay[j].Date.Time)
	})

	return sum
}
