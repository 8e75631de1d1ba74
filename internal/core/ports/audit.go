package ports

import (
	"context"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// AuditRecorder is the fire-and-forget side of the audit trail. Services
// call Record after a successful mutation; delivery is asynchronous and a
// dropped event never fails the originating request.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists audit events handed off by the dispatcher workers
// and serves the read side.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error)
}

// AuditRepository defines persistence for the audit_events collection.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error)
}
