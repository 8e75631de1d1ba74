package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenService signs and verifies session tokens. Access and refresh tokens
// use separate keys and expiries: a leaked access token is dead within
// minutes, while a valid refresh token lets a session survive short
// disconnects.
type TokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) IssueAccessToken(identity domain.Identity) (string, error) {
	return s.sign(identity, s.accessKey, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(identity domain.Identity) (string, error) {
	return s.sign(identity, s.refreshKey, s.refreshTTL)
}

func (s *TokenService) ValidateAccessToken(token string) (*domain.Identity, error) {
	return s.verify(token, s.accessKey)
}

func (s *TokenService) ValidateRefreshToken(token string) (*domain.Identity, error) {
	// Reject missing input before touching the verifier.
	if token == "" {
		return nil, fmt.Errorf("%w: no refresh token provided", domain.ErrTokenInvalid)
	}
	return s.verify(token, s.refreshKey)
}

func (s *TokenService) sign(identity domain.Identity, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    identity.AccountID,
		"email": identity.Email,
		"role":  string(identity.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func (s *TokenService) verify(token string, key []byte) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)
	role, ok := domain.ParseRole(roleStr)
	if id == "" || !ok {
		return nil, fmt.Errorf("%w: incomplete claims", domain.ErrTokenInvalid)
	}

	return &domain.Identity{AccountID: id, Email: email, Role: role}, nil
}
