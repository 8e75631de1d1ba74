package ports

import (
	"context"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// SignupInput carries a self-registration request. Self-registered accounts
// are always role=user.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries a login request. Role is optional; when set, the
// account's stored role must match it.
type LoginInput struct {
	Email    string
	Password string
	Role     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Account      *domain.Account
	AccessToken  string
	RefreshToken string
}

// CreateSubordinateInput carries an account-creation request made by an
// admin or unit manager on behalf of someone else.
type CreateSubordinateInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AccountService implements signup, login, and every role-gated account
// mutation.
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.Account, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	CreateSubordinate(ctx context.Context, actor domain.Identity, in CreateSubordinateInput) (*domain.Account, error)
	ListAll(ctx context.Context) ([]*domain.Account, error)
	ListCreatedBy(ctx context.Context, actorID string) ([]*domain.Account, error)
	ToggleBlock(ctx context.Context, actor domain.Identity, targetID string) (*domain.Account, error)
	UpdateRole(ctx context.Context, actor domain.Identity, targetID, newRole string) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.Identity, targetID string) error
}
