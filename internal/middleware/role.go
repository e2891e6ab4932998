package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user's role exactly equals the required one.  There is no
// hierarchy: an admin does not implicitly satisfy a "voter" requirement,
// nor the reverse.  It assumes JWTAuth has already stored the role in the
// context under CtxRole; a missing or mistyped value is rejected the same
// way as a mismatch.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get(CtxRole)
			got, ok := v.(string)
			if !ok || got != role {
				return c.JSON(http.StatusForbidden, echo.Map{"detail": "Forbidden"})
			}
			return next(c)
		}
	}
}
