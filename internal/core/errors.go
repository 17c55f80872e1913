package core

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors: bad input shape or range, rejected before any write.
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidDate             = errors.New("invalid date")
	ErrEmptyDescription        = errors.New("empty description")
	ErrDescriptionTooLong      = errors.New("description too long (max 200 characters)")
	ErrEmptyName               = errors.New("empty name")
	ErrMissingOwner            = errors.New("missing owner id")
	ErrMissingAccount          = errors.New("missing account id")
	ErrMissingCategory         = errors.New("missing category id")
	ErrUnknownKind             = errors.New("unknown entry kind")
	ErrUnknownAccountKind      = errors.New("unknown account kind")
	ErrUnknownStatus           = errors.New("unknown status")
	ErrUnknownMethod           = errors.New("unknown payment method")
	ErrInvalidInstallmentCount = errors.New("installment count must be at least 2")
	ErrInvalidInstallmentIndex = errors.New("installment index out of range")
)

// Business-rule rejections, surfaced distinctly from generic validation.
var (
	ErrInstallmentNotAllowed = errors.New("installments require a credit payment on a credit-capable account")
	ErrInvalidTransfer       = errors.New("invalid transfer")
	ErrAmountMismatch        = errors.New("amount does not match the invoice total")
	ErrNotCreditAccount      = errors.New("account has no credit line")
	ErrInvalidStatusChange   = errors.New("status change not permitted")
	ErrDebtSettled           = errors.New("debt already settled")
	ErrOverpayment           = errors.New("payment exceeds remaining debt")
)

// ErrNotAuthenticated propagates untouched from the store so the caller can
// sign the user out; it is never wrapped into a StorageError.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNotFound is returned by stores for unknown ids within the owner's scope.
var ErrNotFound = errors.New("not found")

// StorageError wraps a persistence failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err unless it is already part of the taxonomy that
// must surface unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// PartialWriteError reports a multi-record write that could not complete.
// Written holds ids that were persisted before the failure, Compensated the
// subset that was successfully rolled back by compensating deletes. The
// operation is never reported as a success when this error is returned,
// even if every written record was compensated.
type PartialWriteError struct {
	Op          string
	Written     []string
	Compensated []string
	Err         error
}

func (e *PartialWriteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: partial write (%d written, %d compensated)", e.Op, len(e.Written), len(e.Compensated))
	if len(e.Compensated) < len(e.Written) {
		b.WriteString("; residual records remain")
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// Residual returns the ids that were written but could not be compensated.
func (e *PartialWriteError) Residual() []string {
	comp := make(map[string]bool, len(e.Compensated))
	for _, id := range e.Compensated {
		comp[id] = true
	}
	var out []string
	for _, id := range e.Written {
		if !comp[id] {
			out = append(out, id)
		}
	}
	return out
}
