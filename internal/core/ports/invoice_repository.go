package ports

import (
	"context"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	// ListByCreator returns the creator's invoices, newest first.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.Invoice, error)
	ListAll(ctx context.Context) ([]*domain.Invoice, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id string) error
	DeleteByCreator(ctx context.Context, creatorID string) error
	// MaxSequence returns the highest allocated sequence for a financial
	// year, or 0 when the year has no invoices yet.
	MaxSequence(ctx context.Context, year string) (int64, error)
}

// SequenceAllocator hands out invoice sequence numbers for a financial year
// as a single atomic increment. The counter never drops below floor (the
// highest sequence already in storage), so the allocator never re-issues a
// sequence that exists — even when clients pick their own numbers above it.
type SequenceAllocator interface {
	Next(ctx context.Context, year string, floor int64) (int64, error)
}
