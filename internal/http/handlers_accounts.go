package http

import (
	"net/http"

	"orcamento/internal/core"
)

type createAccountRequest struct {
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	OpeningBalanceCents int64  `json:"opening_balance_cents"`
	CreditLimitCents    int64  `json:"credit_limit_cents"`
	InvestedCents       int64  `json:"invested_cents"`
	Color               string `json:"color,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	created, err := s.svc.CreateAccount(r.Context(), core.Account{
		OwnerID:        ownerID,
		Name:           req.Name,
		Kind:           core.AccountKind(req.Kind),
		OpeningBalance: core.Cents(req.OpeningBalanceCents),
		CreditLimit:    core.Cents(req.CreditLimitCents),
		Invested:       core.Cents(req.InvestedCents),
		Color:          req.Color,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountJSON(created))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request, ownerID string) {
	accounts, err := s.svc.Accounts(r.Context(), ownerID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = toAccountJSON(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, ownerID string) {
	account, err := s.svc.Account(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	created, err := s.svc.CreateCategory(r.Context(), core.Category{
		OwnerID: ownerID,
		Name:    req.Name,
		Kind:    core.EntryKind(req.Kind),
		Color:   req.Color,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, ownerID string) {
	categories, err := s.svc.Categories(r.Context(), ownerID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = toCategoryJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}
