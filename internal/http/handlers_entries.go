package http

import (
	"net/http"

	"orcamento/internal/core"
	"orcamento/internal/ledger"
)

type createEntryRequest struct {
	Description string `json:"description"`
	// Amounts come in as integer cents or as a decimal string
	// ("123.45", comma separator accepted), never both.
	AmountCents int64  `json:"amount_cents,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
	AccountID   string `json:"account_id"`
	CategoryID  string `json:"category_id"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Method      string `json:"method,omitempty"`
	CardLabel   string `json:"card_label,omitempty"`
}

func (req createEntryRequest) draft(ownerID string) (core.EntryDraft, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return core.EntryDraft{}, err
	}
	cents := req.AmountCents
	if req.Amount != "" {
		if req.AmountCents != 0 {
			return core.EntryDraft{}, core.ErrInvalidAmount
		}
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.EntryDraft{}, err
		}
	}
	return core.EntryDraft{
		OwnerID:     ownerID,
		Description: req.Description,
		Amount:      core.Cents(cents),
		Date:        date,
		Kind:        core.EntryKind(req.Kind),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Status:      core.EntryStatus(req.Status),
		Notes:       req.Notes,
		Method:      core.PaymentMethod(req.Method),
		CardLabel:   req.CardLabel,
	}, nil
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	draft, err := req.draft(ownerID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	created, err := s.svc.CreateEntry(r.Context(), draft)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.logs.LogEntryCreated(r.Context(), created.Description, created.Amount.Cents,
		string(created.Kind), string(created.Status), created.ID)
	writeJSON(w, http.StatusCreated, toEntryJSON(created))
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	filter := ledger.EntryFilter{
		AccountID: q.Get("account_id"),
		Kind:      core.EntryKind(q.Get("kind")),
		Status:    core.EntryStatus(q.Get("status")),
		Method:    core.PaymentMethod(q.Get("method")),
	}
	if v := q.Get("from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		filter.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		filter.To = to
	}

	entries, err := s.svc.Entries(r.Context(), ownerID, filter)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryListJSON(entries))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request, ownerID string) {
	entry, err := s.svc.Entry(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryJSON(entry))
}

// handleDeleteEntry removes an entry. Linked entries go as a unit: both
// transfer legs always, the whole installment group unless single=true is
// passed explicitly.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request, ownerID string) {
	single := r.URL.Query().Get("single") == "true"
	if err := s.svc.DeleteEntry(r.Context(), ownerID, r.PathValue("id"), single); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Single bool   `json:"single,omitempty"`
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req changeStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	updated, err := s.svc.ChangeStatus(r.Context(), ownerID, r.PathValue("id"), core.EntryStatus(req.Status), req.Single)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryListJSON(updated))
}

type createInstallmentPlanRequest struct {
	createEntryRequest
	Count int `json:"count"`
}

func (s *Server) handleCreateInstallmentPlan(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createInstallmentPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	draft, err := req.draft(ownerID)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	created, err := s.svc.CreateInstallmentPlan(r.Context(), draft, req.Count)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryListJSON(created))
}

func (s *Server) handleInstallmentGroup(w http.ResponseWriter, r *http.Request, ownerID string) {
	group, err := s.svc.InstallmentGroup(r.Context(), ownerID, r.PathValue("groupID"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryListJSON(group))
}
