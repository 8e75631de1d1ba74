package ports

import "github.com/wavenet-solutions/invoice-api/internal/core/domain"

// TokenService issues and validates the two token classes that make up a
// session: a short-lived access token and a long-lived refresh token, signed
// with separate keys so a leaked access key cannot forge refresh tokens.
type TokenService interface {
	IssueAccessToken(identity domain.Identity) (string, error)
	IssueRefreshToken(identity domain.Identity) (string, error)
	ValidateAccessToken(token string) (*domain.Identity, error)
	ValidateRefreshToken(token string) (*domain.Identity, error)
}
