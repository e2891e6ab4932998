package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/securevote/voting-service/internal/repository"
)

// Health is a simple liveness endpoint used by load balancers and
// monitoring systems to verify that the process is running.  It does not
// touch storage.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Ready returns a readiness probe handler bound to the given store.  It
// issues a trivial query and answers 503 while storage is unreachable so
// orchestrators keep traffic away until the database comes back.
func Ready(store repository.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "Database not ready"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	}
}
