package core

// AlertLevel classifies credit utilization for the caller; presentation is
// the caller's concern.
type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertAdvisory AlertLevel = "advisory" // utilization >= 60%
	AlertWarning  AlertLevel = "warning"  // utilization >= 80%
)

// CreditUsage is the derived credit state of a card account for a given
// reference day.
type CreditUsage struct {
	// InvoiceTotal sums confirmed CREDITO expenses dated in the reference
	// day's calendar month.
	InvoiceTotal Money
	// ForwardUsed sums confirmed CREDITO expenses dated on or after the
	// reference day, netted by settlement receipts in the same window. It
	// is what still counts against the limit.
	ForwardUsed Money
	// LimitRemaining = CreditLimit - ForwardUsed; negative means over limit.
	LimitRemaining Money
	// Percent = ForwardUsed / CreditLimit * 100. Only meaningful when
	// HasPercent is true (the account has a positive limit).
	Percent    float64
	HasPercent bool
	Alert      AlertLevel
}

// CalculateCreditUsage derives the account's credit utilization as of
// today. Only credit-capable accounts qualify; others get
// ErrNotCreditAccount.
//
// Settlement payments are RECEITA legs of a transfer recorded on the card
// account; those dated on or after today net against the forward sum, so
// settling a full invoice reduces ForwardUsed by exactly the settled
// amount.
func CalculateCreditUsage(account Account, entries []LedgerEntry, today Date) (CreditUsage, error) {
	if !account.CreditCapable() {
		return CreditUsage{}, ErrNotCreditAccount
	}
	var u CreditUsage
	for _, e := range entries {
		if e.AccountID != account.ID || !e.Confirmed() {
			continue
		}
		switch {
		case e.Kind == KindExpense && e.Method == MethodCredit:
			if e.Date.SameMonth(today) {
				u.InvoiceTotal.Cents += e.Amount.Cents
			}
			if !e.Date.Before(today.Time) {
				u.ForwardUsed.Cents += e.Amount.Cents
			}
		case e.Kind == KindReceipt && e.Transferred():
			if !e.Date.Before(today.Time) {
				u.ForwardUsed.Cents -= e.Amount.Cents
			}
		}
	}
	u.LimitRemaining = account.CreditLimit.Sub(u.ForwardUsed)
	u.HasPercent = true
	u.Percent = float64(u.ForwardUsed.Cents) / float64(account.CreditLimit.Cents) * 100
	u.Alert = classifyUtilization(u.Percent)
	return u, nil
}

func classifyUtilization(percent float64) AlertLevel {
	switch {
	case percent >= 80:
		return AlertWarning
	case percent >= 60:
		return AlertAdvisory
	default:
		return AlertNone
	}
}
