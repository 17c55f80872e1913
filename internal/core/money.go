// Package core holds the pure ledger domain: money arithmetic, entry and
// account types, and the derived-state calculators. Nothing here touches
// persistence or I/O.
//
// This file contains money parsing, formatting, and the installment split
// rule. All arithmetic is on integer cents; floats appear only at display
// boundaries.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact amount in the currency's minor unit.
type Money struct {
	Cents int64
}

func Cents(c int64) Money { return Money{Cents: c} }

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// String formats the amount as a plain decimal, e.g. "33.34" or "-2.50".
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// SplitInstallments divides total into n parts rounded to the cent whose
// sum is exactly total. Each part is the truncated even share; the full
// rounding remainder goes to the last part, so a 100.00 purchase in 3
// becomes 33.33, 33.33, 33.34.
func SplitInstallments(total Money, n int) ([]Money, error) {
	if n < 1 {
		return nil, ErrInvalidInstallmentCount
	}
	if err := total.Validate(); err != nil {
		return nil, err
	}
	share := total.Cents / int64(n)
	if share == 0 {
		// Less than one cent per part cannot keep every part positive.
		return nil, ErrInvalidAmount
	}
	parts := make([]Money, n)
	for i := range parts {
		parts[i] = Money{Cents: share}
	}
	parts[n-1].Cents += total.Cents - share*int64(n)
	return parts, nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Only positive amounts parse successfully.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234
//	ParseDecimalToCents("12,34") -> 1234
//	ParseDecimalToCents("12.345") -> 1234 (rounds down)
//	ParseDecimalToCents("12.346") -> 1235 (rounds up)
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
