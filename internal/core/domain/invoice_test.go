package domain

import (
	"errors"
	"testing"
)

func TestParseInvoiceNumber(t *testing.T) {
	cases := []struct {
		in   string
		year string
		seq  int
		ok   bool
	}{
		{"2025-1", "2025", 1, true},
		{"2025-14", "2025", 14, true},
		{" 2026-7 ", "2026", 7, true},
		{"", "", 0, false},
		{"2025", "", 0, false},
		{"25-1", "", 0, false},
		{"2025-0", "", 0, false},
		{"2025-abc", "", 0, false},
		{"abcd-1", "", 0, false},
		{"2025-1-2", "", 0, false},
	}

	for _, tc := range cases {
		year, seq, err := ParseInvoiceNumber(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseInvoiceNumber(%q) returned error: %v", tc.in, err)
			}
			if year != tc.year || seq != tc.seq {
				t.Fatalf("ParseInvoiceNumber(%q) = %s, %d", tc.in, year, seq)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidInvoiceNumber) {
			t.Fatalf("ParseInvoiceNumber(%q): expected ErrInvalidInvoiceNumber, got %v", tc.in, err)
		}
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	if got := FormatInvoiceNumber("2025", 14); got != "2025-14" {
		t.Fatalf("unexpected number: %s", got)
	}
}
