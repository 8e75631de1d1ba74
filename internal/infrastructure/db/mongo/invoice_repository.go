package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

const invoiceCollection = "invoices"

// InvoiceRepository implements ports.InvoiceRepository on MongoDB.
type InvoiceRepository struct {
	coll *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{coll: db.Collection(invoiceCollection)}
}

type invoiceDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	InvoiceNumber string             `bson:"invoice_number"`
	FinancialYear string             `bson:"financial_year"`
	// Sequence duplicates the numeric part of the invoice number so the
	// per-year maximum can be queried with a numeric sort instead of a
	// lexicographic one ("2025-9" sorts above "2025-10" as a string).
	Sequence    int64              `bson:"sequence"`
	InvoiceDate time.Time          `bson:"invoice_date"`
	Amount      float64            `bson:"amount"`
	CreatedBy   primitive.ObjectID `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *invoiceDoc) toDomain() *domain.Invoice {
	return &domain.Invoice{
		ID:            d.ID.Hex(),
		InvoiceNumber: d.InvoiceNumber,
		FinancialYear: d.FinancialYear,
		InvoiceDate:   d.InvoiceDate.UTC(),
		Amount:        d.Amount,
		CreatedBy:     d.CreatedBy.Hex(),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	creator, err := invoiceCreator(invoice.CreatedBy)
	if err != nil {
		return nil, err
	}
	_, seq, err := domain.ParseInvoiceNumber(invoice.InvoiceNumber)
	if err != nil {
		return nil, err
	}

	doc := invoiceDoc{
		InvoiceNumber: invoice.InvoiceNumber,
		FinancialYear: invoice.FinancialYear,
		Sequence:      int64(seq),
		InvoiceDate:   invoice.InvoiceDate,
		Amount:        invoice.Amount,
		CreatedBy:     creator,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrInvoiceNumberExists
		}
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	created := *invoice
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*domain.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvoiceNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *InvoiceRepository) FindByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return r.findOne(ctx, bson.M{"invoice_number": number})
}

func (r *InvoiceRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.Invoice, error) {
	creator, err := invoiceCreator(creatorID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"created_by": creator})
}

func (r *InvoiceRepository) ListAll(ctx context.Context) ([]*domain.Invoice, error) {
	return r.find(ctx, bson.M{})
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	oid, err := primitive.ObjectIDFromHex(invoice.ID)
	if err != nil {
		return domain.ErrInvoiceNotFound
	}
	_, seq, err := domain.ParseInvoiceNumber(invoice.InvoiceNumber)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"invoice_number": invoice.InvoiceNumber,
		"financial_year": invoice.FinancialYear,
		"sequence":       int64(seq),
		"invoice_date":   invoice.InvoiceDate,
		"amount":         invoice.Amount,
		"updated_at":     invoice.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInvoiceNumberExists
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvoiceNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepository) DeleteByCreator(ctx context.Context, creatorID string) error {
	creator, err := invoiceCreator(creatorID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteMany(ctx, bson.M{"created_by": creator})
	if err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	return nil
}

// MaxSequence returns the highest allocated sequence for a financial year,
// or 0 when the year is empty.
func (r *InvoiceRepository) MaxSequence(ctx context.Context, year string) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})
	var doc invoiceDoc
	err := r.coll.FindOne(ctx, bson.M{"financial_year": year}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("max sequence: %w", err)
	}
	return doc.Sequence, nil
}

// EnsureIndexes creates the unique invoice_number index plus the lookup
// indexes the list and sequence queries rely on.
func (r *InvoiceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "invoice_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "financial_year", Value: 1}, {Key: "sequence", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *InvoiceRepository) findOne(ctx context.Context, filter bson.M) (*domain.Invoice, error) {
	var doc invoiceDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *InvoiceRepository) find(ctx context.Context, filter bson.M) ([]*domain.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []*domain.Invoice{}
	for cursor.Next(ctx) {
		var doc invoiceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		invoices = append(invoices, doc.toDomain())
	}
	return invoices, cursor.Err()
}

func invoiceCreator(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrAccountNotFound
	}
	return oid, nil
}
