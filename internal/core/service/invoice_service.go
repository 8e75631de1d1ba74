package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// InvoiceService implements creator-owned invoice CRUD. Sequence numbers are
// handed out by an atomic per-year allocator; the unique index on the
// invoice number remains as backstop for clients that pick their own.
type InvoiceService struct {
	repo ports.InvoiceRepository
	seq  ports.SequenceAllocator
	log  zerolog.Logger
}

func NewInvoiceService(repo ports.InvoiceRepository, seq ports.SequenceAllocator, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{repo: repo, seq: seq, log: log}
}

// Create validates the invoice number and persists the invoice for the
// actor. A number that is already taken fails with a conflict.
func (s *InvoiceService) Create(ctx context.Context, actorID string, in ports.CreateInvoiceInput) (*domain.Invoice, error) {
	year, seq, err := domain.ParseInvoiceNumber(in.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	number := domain.FormatInvoiceNumber(year, int64(seq))

	if _, err := s.repo.FindByNumber(ctx, number); err == nil {
		return nil, domain.ErrInvoiceNumberExists
	} else if !errors.Is(err, domain.ErrInvoiceNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	invoice, err := s.repo.Create(ctx, &domain.Invoice{
		InvoiceNumber: number,
		FinancialYear: year,
		InvoiceDate:   in.InvoiceDate,
		Amount:        in.Amount,
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("invoice_number", number).Str("account_id", actorID).Msg("invoice created")
	return invoice, nil
}

// ListOwn returns the actor's invoices, newest first.
func (s *InvoiceService) ListOwn(ctx context.Context, actorID string) ([]*domain.Invoice, error) {
	return s.repo.ListByCreator(ctx, actorID)
}

// ListAll returns every invoice; any authenticated account may list all.
func (s *InvoiceService) ListAll(ctx context.Context) ([]*domain.Invoice, error) {
	return s.repo.ListAll(ctx)
}

// NextNumber allocates the next free invoice number for a financial year.
// The allocator increments atomically from at least the stored maximum, so
// two concurrent calls never see the same number and a manually chosen
// number never causes a stale suggestion.
func (s *InvoiceService) NextNumber(ctx context.Context, year string) (string, error) {
	if !yearPattern.MatchString(year) {
		return "", fmt.Errorf("%w: year must be a 4-digit number", domain.ErrInvalidInvoiceNumber)
	}

	floor, err := s.repo.MaxSequence(ctx, year)
	if err != nil {
		return "", err
	}
	seq, err := s.seq.Next(ctx, year, floor)
	if err != nil {
		return "", fmt.Errorf("allocate sequence: %w", err)
	}
	return domain.FormatInvoiceNumber(year, seq), nil
}

// Update applies a partial update. Only the creator may update an invoice;
// a changed number is re-validated and re-checked for uniqueness.
func (s *InvoiceService) Update(ctx context.Context, actorID, invoiceID string, in ports.UpdateInvoiceInput) (*domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.CreatedBy != actorID {
		return nil, fmt.Errorf("%w: not authorized to update this invoice", domain.ErrForbidden)
	}

	if in.InvoiceNumber != nil {
		year, seq, err := domain.ParseInvoiceNumber(*in.InvoiceNumber)
		if err != nil {
			return nil, err
		}
		number := domain.FormatInvoiceNumber(year, int64(seq))
		existing, err := s.repo.FindByNumber(ctx, number)
		if err == nil && existing.ID != invoiceID {
			return nil, domain.ErrInvoiceNumberExists
		}
		if err != nil && !errors.Is(err, domain.ErrInvoiceNotFound) {
			return nil, err
		}
		invoice.InvoiceNumber = number
		invoice.FinancialYear = year
	}
	if in.InvoiceDate != nil {
		invoice.InvoiceDate = *in.InvoiceDate
	}
	if in.Amount != nil {
		invoice.Amount = *in.Amount
	}
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes an invoice; only its creator may do so.
func (s *InvoiceService) Delete(ctx context.Context, actorID, invoiceID string) error {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.CreatedBy != actorID {
		return fmt.Errorf("%w: not authorized to delete this invoice", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, invoiceID)
}
