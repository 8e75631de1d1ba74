package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists the account-mutation audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"actor_id":   event.ActorID,
		"actor_role": string(event.ActorRole),
		"action":     string(event.Action),
		"target_id":  event.TargetID,
		"timestamp":  event.Timestamp.UTC(),
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*domain.AuditEvent{}
	for cursor.Next(ctx) {
		var doc struct {
			ActorID   string    `bson:"actor_id"`
			ActorRole string    `bson:"actor_role"`
			Action    string    `bson:"action"`
			TargetID  string    `bson:"target_id"`
			Detail    string    `bson:"detail,omitempty"`
			Timestamp time.Time `bson:"timestamp"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, &domain.AuditEvent{
			ActorID:   doc.ActorID,
			ActorRole: domain.Role(doc.ActorRole),
			Action:    domain.AuditAction(doc.Action),
			TargetID:  doc.TargetID,
			Detail:    doc.Detail,
			Timestamp: doc.Timestamp.UTC(),
		})
	}
	return events, cursor.Err()
}
