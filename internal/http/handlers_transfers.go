package http

import (
	"net/http"

	"orcamento/internal/core"
	"orcamento/internal/ledger"
)

type transferRequest struct {
	SourceAccountID string `json:"source_account_id"`
	DestAccountID   string `json:"dest_account_id"`
	AmountCents     int64  `json:"amount_cents"`
	Description     string `json:"description,omitempty"`
	Date            string `json:"date"`
}

type transferResultJSON struct {
	TransferID string    `json:"transfer_id"`
	Debit      entryJSON `json:"debit"`
	Credit     entryJSON `json:"credit"`
}

func toTransferResultJSON(res ledger.TransferResult) transferResultJSON {
	return transferResultJSON{
		TransferID: res.TransferID,
		Debit:      toEntryJSON(res.Debit),
		Credit:     toEntryJSON(res.Credit),
	}
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	res, err := s.svc.Transfer(r.Context(), ownerID, ledger.TransferRequest{
		SourceAccountID: req.SourceAccountID,
		DestAccountID:   req.DestAccountID,
		Amount:          core.Cents(req.AmountCents),
		Description:     req.Description,
		Date:            date,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransferResultJSON(res))
}

type settleInvoiceRequest struct {
	CardAccountID   string `json:"card_account_id"`
	OriginAccountID string `json:"origin_account_id"`
	AmountCents     int64  `json:"amount_cents"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	Partial         bool   `json:"partial,omitempty"`
	// Date is optional; the settlement defaults to today.
	Date string `json:"date,omitempty"`
}

func (s *Server) handleSettleInvoice(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req settleInvoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	settlement := ledger.SettlementRequest{
		CardAccountID:   req.CardAccountID,
		OriginAccountID: req.OriginAccountID,
		Amount:          core.Cents(req.AmountCents),
		PeriodStart:     start,
		PeriodEnd:       end,
		Partial:         req.Partial,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		settlement.Date = date
	}

	res, err := s.svc.SettleInvoice(r.Context(), ownerID, settlement)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransferResultJSON(res))
}

func (s *Server) handleTransferPair(w http.ResponseWriter, r *http.Request, ownerID string) {
	pair, err := s.svc.TransferPair(r.Context(), ownerID, r.PathValue("transferID"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryListJSON(pair))
}
