package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wavenet-solutions/invoice-api/internal/api/metrics"
	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// RefreshTokenHeader carries the refresh token on every protected request.
const RefreshTokenHeader = "X-Refresh-Token"

// Auth is the request gate. It requires both tokens on every protected
// request, validates the access token, and falls back to the refresh token
// exactly once: on a stale access token with a valid refresh token it mints
// a replacement access token and returns it via the Authorization response
// header. Downstream handlers always see a validated identity and never see
// raw tokens.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			refreshToken := c.Request().Header.Get(RefreshTokenHeader)
			if authHeader == "" || refreshToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "access token or refresh token not provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := tokens.ValidateAccessToken(parts[1])
			if err == nil {
				attachIdentity(c, identity)
				return next(c)
			}

			// Access token stale or garbled: single refresh fallback.
			identity, err = tokens.ValidateRefreshToken(refreshToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
			}

			newAccess, err := tokens.IssueAccessToken(*identity)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to rotate access token")
			}

			c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+newAccess)
			metrics.TokenRotationsTotal.Inc()
			attachIdentity(c, identity)
			return next(c)
		}
	}
}

func attachIdentity(c echo.Context, identity *domain.Identity) {
	c.Set("account_id", identity.AccountID)
	c.Set("email", identity.Email)
	c.Set("role", string(identity.Role))
}
