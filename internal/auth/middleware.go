package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"tableside/internal/domain"
)

const claimsKey = "tableside.claims"

// Middleware validates the bearer token and stores the claims on the
// request context. Every route behind it can assume an authenticated staff
// member.
func Middleware(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			claims, err := m.Validate(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// Require gates a route on the policy table.
func Require(action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			role, err := domain.ParseRole(claims.Role)
			if err != nil || !Allowed(role, action) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have permission to perform this action")
			}
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok
}

func bearerToken(c echo.Context) string {
	authz := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return strings.TrimSpace(c.QueryParam("token"))
}
