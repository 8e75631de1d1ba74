package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/service"
)

func newGateContext(t *testing.T, access, refresh string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if access != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	}
	if refresh != "" {
		req.Header.Set(RefreshTokenHeader, refresh)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func gateIdentity() domain.Identity {
	return domain.Identity{
		AccountID: "acc-1",
		Email:     "alice@example.com",
		Role:      domain.RoleAdmin,
	}
}

func TestAuth_ValidAccessToken(t *testing.T) {
	tokens := service.NewTokenService("access", "refresh", time.Minute, time.Hour)
	access, _ := tokens.IssueAccessToken(gateIdentity())
	refresh, _ := tokens.IssueRefreshToken(gateIdentity())

	c, rec := newGateContext(t, access, refresh)

	called := false
	handler := Auth(tokens)(func(c echo.Context) error {
		called = true
		if c.Get("account_id") != "acc-1" {
			t.Fatalf("account_id not set")
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	// A fresh access token must not be rotated.
	if got := rec.Header().Get(echo.HeaderAuthorization); got != "" {
		t.Fatalf("unexpected rotation header: %q", got)
	}
}

func TestAuth_MissingHeaders(t *testing.T) {
	tokens := service.NewTokenService("access", "refresh", time.Minute, time.Hour)
	access, _ := tokens.IssueAccessToken(gateIdentity())
	refresh, _ := tokens.IssueRefreshToken(gateIdentity())

	cases := []struct {
		name    string
		access  string
		refresh string
	}{
		{"no headers", "", ""},
		{"access only", access, ""},
		{"refresh only", "", refresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newGateContext(t, tc.access, tc.refresh)
			err := Auth(tokens)(func(c echo.Context) error {
				t.Fatalf("next must not be called")
				return nil
			})(c)

			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}

func TestAuth_RotatesStaleAccessToken(t *testing.T) {
	// Negative access TTL: every issued access token is already expired.
	stale := service.NewTokenService("access", "refresh", -time.Minute, time.Hour)
	access, _ := stale.IssueAccessToken(gateIdentity())
	refresh, _ := stale.IssueRefreshToken(gateIdentity())

	live := service.NewTokenService("access", "refresh", time.Minute, time.Hour)
	c, rec := newGateContext(t, access, refresh)

	called := false
	handler := Auth(live)(func(c echo.Context) error {
		called = true
		if c.Get("account_id") != "acc-1" {
			t.Fatalf("account_id not set after rotation")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}

	rotated := rec.Header().Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(rotated, "Bearer ") {
		t.Fatalf("expected rotated Bearer token, got %q", rotated)
	}
	identity, err := live.ValidateAccessToken(strings.TrimPrefix(rotated, "Bearer "))
	if err != nil {
		t.Fatalf("rotated token invalid: %v", err)
	}
	if identity.AccountID != "acc-1" || identity.Role != domain.RoleAdmin {
		t.Fatalf("rotated token carries wrong identity: %+v", identity)
	}
}

func TestAuth_BothTokensExpired(t *testing.T) {
	expired := service.NewTokenService("access", "refresh", -time.Minute, -time.Minute)
	access, _ := expired.IssueAccessToken(gateIdentity())
	refresh, _ := expired.IssueRefreshToken(gateIdentity())

	live := service.NewTokenService("access", "refresh", time.Minute, time.Hour)
	c, _ := newGateContext(t, access, refresh)

	err := Auth(live)(func(c echo.Context) error {
		t.Fatalf("next must not be called")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "invalid or expired refresh token" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	tokens := service.NewTokenService("access", "refresh", time.Minute, time.Hour)
	refresh, _ := tokens.IssueRefreshToken(gateIdentity())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	req.Header.Set(RefreshTokenHeader, refresh)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth(tokens)(func(c echo.Context) error {
		t.Fatalf("next must not be called")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
