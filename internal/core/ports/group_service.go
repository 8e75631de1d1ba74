package ports

import (
	"context"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// GroupService maintains symmetric peer links between same-tier accounts
// and computes the candidate pool for new links.
type GroupService interface {
	AddPeer(ctx context.Context, actor domain.Identity, peerID string) error
	RemovePeer(ctx context.Context, actor domain.Identity, peerID string) error
	// ListPeers expands the actor's peer set to full account records.
	ListPeers(ctx context.Context, actorID string) ([]*domain.Account, error)
	// ListCandidates returns non-blocked accounts of the given role that are
	// neither the actor nor already linked to it.
	ListCandidates(ctx context.Context, actorID string, role domain.Role) ([]*domain.Account, error)
}
