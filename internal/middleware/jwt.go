package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/securevote/voting-service/internal/utils"
)

// Context keys under which JWTAuth stores the verified principal.
const (
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request context.
// The provided secret must match the one used when issuing tokens.  This
// middleware should wrap protected routes so that handlers can access
// authenticated user information via `c.Get(middleware.CtxUsername)` and
// `c.Get(middleware.CtxRole)`.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// ParseAccessToken rejects bad signatures, wrong algorithms,
			// expired tokens and tokens without a subject; the error never
			// reveals which check failed.
			p, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Could not validate credentials"})
			}

			c.Set(CtxUsername, p.Username)
			c.Set(CtxRole, p.Role)
			return next(c)
		}
	}
}
