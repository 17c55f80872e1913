package http

import "orcamento/internal/core"

// Wire representations. Amounts travel as integer cents; dates as
// YYYY-MM-DD strings.

type entryJSON struct {
	ID                 string `json:"id"`
	Description        string `json:"description"`
	AmountCents        int64  `json:"amount_cents"`
	Date               string `json:"date"`
	Kind               string `json:"kind"`
	AccountID          string `json:"account_id"`
	CategoryID         string `json:"category_id,omitempty"`
	Status             string `json:"status"`
	Notes              string `json:"notes,omitempty"`
	Method             string `json:"method,omitempty"`
	CardLabel          string `json:"card_label,omitempty"`
	InstallmentGroupID string `json:"installment_group_id,omitempty"`
	InstallmentIndex   int    `json:"installment_index,omitempty"`
	InstallmentCount   int    `json:"installment_count,omitempty"`
	TransferID         string `json:"transfer_id,omitempty"`
}

func toEntryJSON(e core.LedgerEntry) entryJSON {
	return entryJSON{
		ID:                 e.ID,
		Description:        e.Description,
		AmountCents:        e.Amount.Cents,
		Date:               formatDate(e.Date),
		Kind:               string(e.Kind),
		AccountID:          e.AccountID,
		CategoryID:         e.CategoryID,
		Status:             string(e.Status),
		Notes:              e.Notes,
		Method:             string(e.Method),
		CardLabel:          e.CardLabel,
		InstallmentGroupID: e.InstallmentGroupID,
		InstallmentIndex:   e.InstallmentIndex,
		InstallmentCount:   e.InstallmentCount,
		TransferID:         e.TransferID,
	}
}

func toEntryListJSON(entries []core.LedgerEntry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	return out
}

type accountJSON struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	OpeningBalanceCents int64  `json:"opening_balance_cents"`
	CreditLimitCents    int64  `json:"credit_limit_cents"`
	InvestedCents       int64  `json:"invested_cents"`
	Color               string `json:"color,omitempty"`
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		ID:                  a.ID,
		Name:                a.Name,
		Kind:                string(a.Kind),
		OpeningBalanceCents: a.OpeningBalance.Cents,
		CreditLimitCents:    a.CreditLimit.Cents,
		InvestedCents:       a.Invested.Cents,
		Color:               a.Color,
	}
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Name: c.Name, Kind: string(c.Kind), Color: c.Color}
}

type balanceJSON struct {
	ReceiptsCents int64 `json:"receipts_cents"`
	ExpensesCents int64 `json:"expenses_cents"`
	CurrentCents  int64 `json:"current_cents"`
}

type creditUsageJSON struct {
	InvoiceTotalCents   int64   `json:"invoice_total_cents"`
	ForwardUsedCents    int64   `json:"forward_used_cents"`
	LimitRemainingCents int64   `json:"limit_remaining_cents"`
	Percent             float64 `json:"percent"`
	Alert               string  `json:"alert"`
}

type categoryShareJSON struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	TotalCents int64   `json:"total_cents"`
	Percent    float64 `json:"percent"`
}

type dayTotalJSON struct {
	Date       string `json:"date"`
	TotalCents int64  `json:"total_cents"`
}

type invoiceJSON struct {
	TotalCents         int64               `json:"total_cents"`
	AverageCents       int64               `json:"average_cents"`
	MaxCents           int64               `json:"max_cents"`
	Count              int                 `json:"count"`
	InstallmentEntries int                 `json:"installment_entries"`
	ByCategory         []categoryShareJSON `json:"by_category"`
	ByDay              []dayTotalJSON      `json:"by_day"`
}

func toInvoiceJSON(inv core.InvoiceSummary) invoiceJSON {
	out := invoiceJSON{
		TotalCents:         inv.Total.Cents,
		AverageCents:       inv.Average.Cents,
		MaxCents:           inv.Max.Cents,
		Count:              inv.Count,
		InstallmentEntries: inv.InstallmentEntries,
		ByCategory:         make([]categoryShareJSON, len(inv.ByCategory)),
		ByDay:              make([]dayTotalJSON, len(inv.ByDay)),
	}
	for i, share := range inv.ByCategory {
		out.ByCategory[i] = categoryShareJSON{
			CategoryID: share.CategoryID,
			Name:       share.Name,
			TotalCents: share.Total.Cents,
			Percent:    share.Percent,
		}
	}
	for i, day := range inv.ByDay {
		out.ByDay[i] = dayTotalJSON{Date: formatDate(day.Date), TotalCents: day.Total.Cents}
	}
	return out
}

type debtJSON struct {
	ID                    string  `json:"id"`
	Description           string  `json:"description"`
	PrincipalCents        int64   `json:"principal_cents"`
	PaidCents             int64   `json:"paid_cents"`
	RemainingCents        int64   `json:"remaining_cents"`
	Rate                  float64 `json:"rate"`
	InstallmentValueCents int64   `json:"installment_value_cents"`
	InstallmentsPaid      int     `json:"installments_paid"`
	InstallmentsTotal     int     `json:"installments_total"`
	Status                string  `json:"status"`
}

func toDebtJSON(d core.Debt) debtJSON {
	return debtJSON{
		ID:                    d.ID,
		Description:           d.Description,
		PrincipalCents:        d.Principal.Cents,
		PaidCents:             d.Paid.Cents,
		RemainingCents:        d.Remaining.Cents,
		Rate:                  d.Rate,
		InstallmentValueCents: d.InstallmentValue.Cents,
		InstallmentsPaid:      d.InstallmentsPaid,
		InstallmentsTotal:     d.InstallmentsTotal,
		Status:                string(d.Status),
	}
}
