package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/voyago/travelplanner/internal/utils"
)

// ContextKeyUserID is the echo context key holding the authenticated user ID
const ContextKeyUserID = "user_id"

// ContextKeyToken is the echo context key holding the raw bearer token
const ContextKeyToken = "session_token"

// TokenResolver resolves a bearer token to the owning user ID
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// SessionAuthMiddleware creates a middleware that authenticates requests via
// bearer-token session lookup
func SessionAuthMiddleware(resolver TokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c)
			if token == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			userID, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid or expired session")
			}

			c.Set(ContextKeyUserID, userID)
			c.Set(ContextKeyToken, token)

			return next(c)
		}
	}
}

// ExtractBearerToken pulls the bearer token from the Authorization header, or
// from the token query parameter for WebSocket clients that cannot set headers
func ExtractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return authHeader
	}
	return c.QueryParam("token")
}

// UserIDFromContext returns the authenticated user ID set by the middleware
func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextKeyUserID).(uuid.UUID)
	return id, ok
}
