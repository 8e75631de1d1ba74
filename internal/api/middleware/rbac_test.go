package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

func rbacContext(role string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	return c
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	c := rbacContext("topAdmin")

	called := false
	handler := RBAC(domain.RoleTopAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRBAC_RejectsOtherRoles(t *testing.T) {
	for _, role := range []string{"admin", "unitManager", "user", "wizard", ""} {
		c := rbacContext(role)
		err := RBAC(domain.RoleTopAdmin)(func(c echo.Context) error {
			t.Fatalf("next must not be called for role %q", role)
			return nil
		})(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %v", role, err)
		}
	}
}

func TestRBAC_NormalizesRoleSpelling(t *testing.T) {
	// Legacy tokens may carry different casings of the same role.
	c := rbacContext("SUPERADMIN")

	called := false
	handler := RBAC(domain.RoleTopAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}
