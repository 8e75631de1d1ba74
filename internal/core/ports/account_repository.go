package ports

import (
	"context"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts, including
// the peer-group membership writes.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// UpdateRole and SetBlocked persist single-field mutations performed by
	// an authorized actor.
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	Delete(ctx context.Context, id string) error

	// ListNonTopAdmin returns every account except the seeded top-level
	// administrator, newest first.
	ListNonTopAdmin(ctx context.Context) ([]*domain.Account, error)
	// ListByCreator returns accounts created by creatorID, newest first.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.Account, error)
	CountByCreator(ctx context.Context, creatorID string) (int64, error)
	// ListActiveByRole returns non-blocked accounts with the given role,
	// excluding excludeID.
	ListActiveByRole(ctx context.Context, role domain.Role, excludeID string) ([]*domain.Account, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)

	// AddPeer and RemovePeer update both sides of a peer link as one
	// transaction, so a partial failure can never leave a one-sided link.
	AddPeer(ctx context.Context, a, b string) error
	RemovePeer(ctx context.Context, a, b string) error
	// DetachPeers removes id from every other account's peer set.
	DetachPeers(ctx context.Context, id string) error
}
