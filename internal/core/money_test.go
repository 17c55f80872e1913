package core

import (
	"math/rand"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestSplitInstallments(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{"exact division", 9000, 3, []int64{3000, 3000, 3000}},
		{"remainder to last", 10000, 3, []int64{3333, 3333, 3334}},
		{"two cents over", 1001, 3, []int64{333, 333, 335}},
		{"single part", 999, 1, []int64{999}},
		{"ten parts", 1000, 10, []int64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := SplitInstallments(Cents(tc.total), tc.n)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(parts) != len(tc.want) {
				t.Fatalf("expected %d parts, got %d", len(tc.want), len(parts))
			}
			for i, p := range parts {
				if p.Cents != tc.want[i] {
					t.Errorf("part %d: expected %d, got %d", i, tc.want[i], p.Cents)
				}
			}
		})
	}
}

func TestSplitInstallmentsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		n     int
	}{
		{"zero count", 1000, 0},
		{"negative count", 1000, -1},
		{"zero amount", 0, 2},
		{"negative amount", -100, 2},
		{"sub-cent parts", 3, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SplitInstallments(Cents(tc.total), tc.n); err == nil {
				t.Fatalf("expected error for total=%d n=%d", tc.total, tc.n)
			}
		})
	}
}

// Sum exactness and positivity must hold for arbitrary amounts and counts.
func TestSplitInstallmentsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		total := rng.Int63n(10_000_000) + 1
		n := rng.Intn(48) + 2
		parts, err := SplitInstallments(Cents(total), n)
		if err != nil {
			// Only legal failure in this range: less than one cent per part.
			if total/int64(n) == 0 {
				continue
			}
			t.Fatalf("total=%d n=%d: unexpected error %v", total, n, err)
		}
		var sum int64
		for j, p := range parts {
			if p.Cents <= 0 {
				t.Fatalf("total=%d n=%d: part %d not positive (%d)", total, n, j, p.Cents)
			}
			sum += p.Cents
		}
		if sum != total {
			t.Fatalf("total=%d n=%d: parts sum to %d", total, n, sum)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{-250, "-2.50"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := Cents(tc.cents).String(); got != tc.want {
			t.Errorf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
