package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"orcamento/internal/core"
	"orcamento/internal/log"
)

// maxBodyBytes caps request bodies; ledger payloads are small.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error       string   `json:"error"`
	Written     []string `json:"written,omitempty"`
	Compensated []string `json:"compensated,omitempty"`
	Residual    []string `json:"residual,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation rejections are 422, business-rule conflicts 409, unknown ids
// 404, missing or bad credentials 401, everything else 500. Partial
// writes carry their written/compensated/residual ids in the body so the
// client can reconcile.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var pw *core.PartialWriteError
	if errors.As(err, &pw) {
		fields := log.NewFields()
		fields["residual"] = pw.Residual()
		s.logs.LogError(ctx, "Partial write", err, log.ComponentHTTP, log.OpUpdate, fields)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:       pw.Error(),
			Written:     pw.Written,
			Compensated: pw.Compensated,
			Residual:    pw.Residual(),
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case isValidationError(err):
		status = http.StatusUnprocessableEntity
	case isConflictError(err):
		status = http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.logs.LogError(ctx, "Request failed", err, log.ComponentHTTP, log.OpUpdate, log.NewFields())
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount, core.ErrInvalidDate,
		core.ErrEmptyDescription, core.ErrDescriptionTooLong, core.ErrEmptyName,
		core.ErrMissingOwner, core.ErrMissingAccount, core.ErrMissingCategory,
		core.ErrUnknownKind, core.ErrUnknownAccountKind, core.ErrUnknownStatus,
		core.ErrUnknownMethod, core.ErrInvalidInstallmentCount,
		core.ErrInvalidInstallmentIndex,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInstallmentNotAllowed, core.ErrInvalidTransfer, core.ErrAmountMismatch,
		core.ErrNotCreditAccount, core.ErrInvalidStatusChange,
		core.ErrDebtSettled, core.ErrOverpayment,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(&v)
}

const dateLayout = "2006-01-02"

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, core.ErrInvalidDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.DateOf(t), nil
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
