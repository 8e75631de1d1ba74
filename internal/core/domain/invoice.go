package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Invoice numbers are "<financial year>-<sequence>", e.g. "2025-14".
// The sequence is 1-based and increases per financial year.
var invoiceNumberPattern = regexp.MustCompile(`^\d{4}-\d+$`)

// Invoice is an invoice record owned by the account that created it.
type Invoice struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoiceNumber"`
	FinancialYear string    `json:"financialYear"`
	InvoiceDate   time.Time `json:"invoiceDate"`
	Amount        float64   `json:"amount"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ParseInvoiceNumber validates and splits an invoice number, returning the
// financial year and sequence. The input is trimmed first; sequences below 1
// are rejected.
func ParseInvoiceNumber(raw string) (year string, seq int, err error) {
	number := strings.TrimSpace(raw)
	if number == "" {
		return "", 0, fmt.Errorf("%w: invoice number is required", ErrInvalidInvoiceNumber)
	}
	if !invoiceNumberPattern.MatchString(number) {
		return "", 0, fmt.Errorf("%w: must be in format YYYY-number (e.g. 2025-1)", ErrInvalidInvoiceNumber)
	}

	parts := strings.SplitN(number, "-", 2)
	seq, err = strconv.Atoi(parts[1])
	if err != nil || seq < 1 {
		return "", 0, fmt.Errorf("%w: sequence must be greater than 0", ErrInvalidInvoiceNumber)
	}
	return parts[0], seq, nil
}

// FormatInvoiceNumber builds the canonical invoice number for a year and
// sequence.
func FormatInvoiceNumber(year string, seq int64) string {
	return fmt.Sprintf("%s-%d", year, seq)
}
