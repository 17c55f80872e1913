package http

import (
	"net/http"

	"orcamento/internal/core"
)

type createDebtRequest struct {
	Description           string  `json:"description"`
	PrincipalCents        int64   `json:"principal_cents"`
	InstallmentValueCents int64   `json:"installment_value_cents"`
	Rate                  float64 `json:"rate"`
	InstallmentsTotal     int     `json:"installments_total"`
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createDebtRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	created, err := s.svc.CreateDebt(r.Context(), ownerID, req.Description,
		core.Cents(req.PrincipalCents), core.Cents(req.InstallmentValueCents),
		req.Rate, req.InstallmentsTotal)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtJSON(created))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request, ownerID string) {
	debts, err := s.svc.Debts(r.Context(), ownerID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]debtJSON, len(debts))
	for i, d := range debts {
		out[i] = toDebtJSON(d)
	}
	writeJSON(w, http.StatusOK, out)
}

type debtPaymentRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (s *Server) handleDebtPayment(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req debtPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	updated, err := s.svc.RecordDebtPayment(r.Context(), ownerID, r.PathValue("id"), core.Cents(req.AmountCents))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtJSON(updated))
}
