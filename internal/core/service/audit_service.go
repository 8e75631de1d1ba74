package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

const defaultAuditLimit = 100

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events handed off by
// the dispatcher workers.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	s.log.Debug().
		Str("action", string(event.Action)).
		Str("actor_id", event.ActorID).
		Str("target_id", event.TargetID).
		Msg("audit event recorded")
	return nil
}

func (s *auditService) ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
