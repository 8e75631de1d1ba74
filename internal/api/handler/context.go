package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a populated account id
// and a parseable role prove the gate ran for this request.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	accountID, _ := c.Get("account_id").(string)
	roleStr, _ := c.Get("role").(string)

	role, ok := domain.ParseRole(roleStr)
	if accountID == "" || !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	email, _ := c.Get("email").(string)
	return domain.Identity{AccountID: accountID, Email: email, Role: role}, nil
}
