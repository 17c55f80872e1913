package http

import (
	"net/http"
	"time"

	"orcamento/internal/core"
)

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request, ownerID string) {
	summary, err := s.svc.AccountBalance(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSON{
		ReceiptsCents: summary.Receipts.Cents,
		ExpensesCents: summary.Expenses.Cents,
		CurrentCents:  summary.Current.Cents,
	})
}

// handleCreditUsage reports utilization relative to a reference day,
// ?date=YYYY-MM-DD, defaulting to today.
func (s *Server) handleCreditUsage(w http.ResponseWriter, r *http.Request, ownerID string) {
	today := core.DateOf(time.Now())
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		today = parsed
	}

	usage, err := s.svc.CreditUsage(r.Context(), ownerID, r.PathValue("id"), today)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, creditUsageJSON{
		InvoiceTotalCents:   usage.InvoiceTotal.Cents,
		ForwardUsedCents:    usage.ForwardUsed.Cents,
		LimitRemainingCents: usage.LimitRemaining.Cents,
		Percent:             usage.Percent,
		Alert:               string(usage.Alert),
	})
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	invoice, err := s.svc.Invoice(r.Context(), ownerID, r.PathValue("id"), start, end)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceJSON(invoice))
}
