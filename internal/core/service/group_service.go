package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// GroupService maintains the symmetric peer links between same-tier
// accounts. Both sides of a link are written in one repository transaction,
// so the set stays symmetric even under concurrent calls.
type GroupService struct {
	repo  ports.AccountRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewGroupService(repo ports.AccountRepository, audit ports.AuditRecorder, log zerolog.Logger) *GroupService {
	return &GroupService{repo: repo, audit: audit, log: log}
}

// AddPeer links the actor and peerID. Re-adding an existing peer is a
// no-op under set semantics.
func (s *GroupService) AddPeer(ctx context.Context, actor domain.Identity, peerID string) error {
	if _, err := s.repo.FindByID(ctx, peerID); err != nil {
		return err
	}

	if err := s.repo.AddPeer(ctx, actor.AccountID, peerID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    domain.AuditGroupAdd,
		TargetID:  peerID,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("account_id", actor.AccountID).Str("peer_id", peerID).Msg("peer link added")
	return nil
}

// RemovePeer unlinks the actor and peerID on both sides.
func (s *GroupService) RemovePeer(ctx context.Context, actor domain.Identity, peerID string) error {
	if err := s.repo.RemovePeer(ctx, actor.AccountID, peerID); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   actor.AccountID,
		ActorRole: actor.Role,
		Action:    domain.AuditGroupRemove,
		TargetID:  peerID,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// ListPeers expands the actor's peer set to full account records.
func (s *GroupService) ListPeers(ctx context.Context, actorID string) ([]*domain.Account, error) {
	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(actor.GroupedWith) == 0 {
		return []*domain.Account{}, nil
	}
	return s.repo.FindByIDs(ctx, actor.GroupedWith)
}

// ListCandidates returns the pool of accounts the actor could still link
// with: non-blocked accounts of the given role, minus the actor itself and
// everyone already in its peer set.
func (s *GroupService) ListCandidates(ctx context.Context, actorID string, role domain.Role) ([]*domain.Account, error) {
	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.ListActiveByRole(ctx, role, actorID)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Account, 0, len(pool))
	for _, account := range pool {
		if !actor.IsPeerOf(account.ID) {
			candidates = append(candidates, account)
		}
	}
	return candidates, nil
}
