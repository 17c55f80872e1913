package core

import (
	"strings"
	"time"
)

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountInvestment AccountKind = "investment"
	AccountWallet     AccountKind = "wallet"
)

const (
	KindReceipt EntryKind = "RECEITA"
	KindExpense EntryKind = "DESPESA"
)

const (
	StatusPending   EntryStatus = "PENDENTE"
	StatusConfirmed EntryStatus = "CONFIRMADO"
	StatusCancelled EntryStatus = "CANCELADO"
)

const (
	MethodDebit  PaymentMethod = "DEBITO"
	MethodCredit PaymentMethod = "CREDITO"
	MethodPix    PaymentMethod = "PIX"
)

const (
	DebtActive  DebtStatus = "ATIVA"
	DebtSettled DebtStatus = "QUITADA"
	DebtOverdue DebtStatus = "EM_ATRASO"
)

type (
	AccountKind   string
	EntryKind     string
	EntryStatus   string
	PaymentMethod string
	DebtStatus    string

	Date struct {
		time.Time
	}

	Account struct {
		ID             string
		OwnerID        string
		Name           string
		Kind           AccountKind
		OpeningBalance Money
		CreditLimit    Money // zero means the account has no credit line
		Invested       Money
		Color          string
	}

	Category struct {
		ID      string
		OwnerID string
		Name    string
		Kind    EntryKind
		Color   string
	}

	// LedgerEntry is a single dated movement on an account. Entries created
	// by an installment purchase share an InstallmentGroupID; the two legs
	// of a transfer share a TransferID.
	LedgerEntry struct {
		ID                 string
		OwnerID            string
		Description        string
		Amount             Money
		Date               Date
		Kind               EntryKind
		AccountID          string
		CategoryID         string
		Status             EntryStatus
		Notes              string
		Method             PaymentMethod // empty when not recorded
		CardLabel          string
		InstallmentGroupID string
		InstallmentIndex   int // 1-based, set only when grouped
		InstallmentCount   int
		TransferID         string
	}

	Debt struct {
		ID                string
		OwnerID           string
		Description       string
		Principal         Money
		Paid              Money
		Remaining         Money
		Rate              float64 // monthly interest rate in percent
		InstallmentValue  Money
		InstallmentsPaid  int
		InstallmentsTotal int
		Status            DebtStatus
	}
)

// NewDate creates a day-granularity date in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to day granularity in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether both dates fall in the same calendar month and year.
func (d Date) SameMonth(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month()
}

// AddMonths advances the date by n months keeping the day of month,
// clamped to the last valid day when the target month is shorter.
// A purchase on Jan 31 parcels out to Feb 28 (or 29), Mar 31, and so on.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return NewDate(target.Year(), int(target.Month()), day)
}

func (k AccountKind) Valid() bool {
	switch k {
	case AccountChecking, AccountSavings, AccountInvestment, AccountWallet:
		return true
	}
	return false
}

func (k EntryKind) Valid() bool {
	return k == KindReceipt || k == KindExpense
}

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodDebit, MethodCredit, MethodPix:
		return true
	}
	return false
}

func (s DebtStatus) Valid() bool {
	switch s {
	case DebtActive, DebtSettled, DebtOverdue:
		return true
	}
	return false
}

// CreditCapable reports whether the account carries a credit line.
// Only credit-capable accounts may hold CREDITO entries.
func (a Account) CreditCapable() bool {
	return a.CreditLimit.Cents > 0
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.OwnerID) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Kind.Valid() {
		return ErrUnknownAccountKind
	}
	if a.CreditLimit.Cents < 0 {
		return ErrInvalidAmount
	}
	if a.Invested.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.OwnerID) == "" {
		return ErrMissingOwner
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Kind.Valid() {
		return ErrUnknownKind
	}
	if strings.TrimSpace(e.AccountID) == "" {
		return ErrMissingAccount
	}
	// Transfer legs are category-free; everything else must be categorized.
	if strings.TrimSpace(e.CategoryID) == "" && e.TransferID == "" {
		return ErrMissingCategory
	}
	if !e.Status.Valid() {
		return ErrUnknownStatus
	}
	if e.Method != "" && !e.Method.Valid() {
		return ErrUnknownMethod
	}
	if e.InstallmentGroupID != "" {
		if e.Method != MethodCredit {
			return ErrInstallmentNotAllowed
		}
		if e.InstallmentCount < 2 {
			return ErrInvalidInstallmentCount
		}
		if e.InstallmentIndex < 1 || e.InstallmentIndex > e.InstallmentCount {
			return ErrInvalidInstallmentIndex
		}
	}
	return nil
}

// Grouped reports whether the entry belongs to an installment group.
func (e LedgerEntry) Grouped() bool {
	return e.InstallmentGroupID != ""
}

// Transferred reports whether the entry is one leg of a transfer pair.
func (e LedgerEntry) Transferred() bool {
	return e.TransferID != ""
}

// Confirmed is the aggregate-visibility test used by every calculator:
// only CONFIRMADO entries enter balances, utilization, and invoices.
func (e LedgerEntry) Confirmed() bool {
	return e.Status == StatusConfirmed
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.OwnerID) == "" {
		return ErrMissingOwner
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := d.Principal.Validate(); err != nil {
		return err
	}
	if d.Paid.Cents < 0 || d.Remaining.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.InstallmentsTotal < 1 {
		return ErrInvalidInstallmentCount
	}
	if d.InstallmentsPaid < 0 || d.InstallmentsPaid > d.InstallmentsTotal {
		return ErrInvalidInstallmentIndex
	}
	if !d.Status.Valid() {
		return ErrUnknownStatus
	}
	return nil
}

// NewDebt creates an open debt: nothing paid, everything remaining.
func NewDebt(ownerID, description string, principal, installmentValue Money, rate float64, installmentsTotal int) (Debt, error) {
	d := Debt{
		OwnerID:           ownerID,
		Description:       description,
		Principal:         principal,
		Remaining:         principal,
		Rate:              rate,
		InstallmentValue:  installmentValue,
		InstallmentsTotal: installmentsTotal,
		Status:            DebtActive,
	}
	if err := d.Validate(); err != nil {
		return Debt{}, err
	}
	return d, nil
}

// RecordPayment applies one installment payment to the debt. Paying more
// than the remaining amount is rejected; clearing the debt flips it to
// QUITADA.
func (d Debt) RecordPayment(amount Money) (Debt, error) {
	if err := amount.Validate(); err != nil {
		return Debt{}, err
	}
	if d.Status == DebtSettled {
		return Debt{}, ErrDebtSettled
	}
	if amount.Cents > d.Remaining.Cents {
		return Debt{}, ErrOverpayment
	}
	d.Paid.Cents += amount.Cents
	d.Remaining.Cents -= amount.Cents
	if d.InstallmentsPaid < d.InstallmentsTotal {
		d.InstallmentsPaid++
	}
	if d.Remaining.Cents == 0 {
		d.Status = DebtSettled
	}
	return d, nil
}
