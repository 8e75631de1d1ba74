package ports

import (
	"context"
	"time"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// CreateInvoiceInput carries a new invoice. The number is supplied by the
// caller and validated against the YYYY-N format.
type CreateInvoiceInput struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	Amount        float64
}

// UpdateInvoiceInput carries a partial invoice update. Nil fields are left
// unchanged.
type UpdateInvoiceInput struct {
	InvoiceNumber *string
	InvoiceDate   *time.Time
	Amount        *float64
}

// InvoiceService implements creator-owned invoice CRUD and sequence
// allocation.
type InvoiceService interface {
	Create(ctx context.Context, actorID string, in CreateInvoiceInput) (*domain.Invoice, error)
	ListOwn(ctx context.Context, actorID string) ([]*domain.Invoice, error)
	ListAll(ctx context.Context) ([]*domain.Invoice, error)
	// NextNumber returns the next free invoice number for a financial year.
	NextNumber(ctx context.Context, year string) (string, error)
	Update(ctx context.Context, actorID, invoiceID string, in UpdateInvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, actorID, invoiceID string) error
}
