package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/securevote/voting-service/internal/config"
	"github.com/securevote/voting-service/internal/handler"
	"github.com/securevote/voting-service/internal/middleware"
	"github.com/securevote/voting-service/internal/model"
	"github.com/securevote/voting-service/internal/repository"
)

// Register wires every route of the voting API onto the provided Echo
// instance.  Services are constructed once in main and passed in here; no
// handler reaches for globals.  Ordering of the global middleware matters:
// CORS wraps everything so preflights succeed even for throttled clients,
// and the rate limiter sits in front of the metrics middleware so throttled
// requests never skew latency histograms.
func Register(
	e *echo.Echo,
	cfg config.Config,
	store repository.Store,
	auth *handler.AuthHandler,
	elections *handler.ElectionHandler,
	votes *handler.VoteHandler,
	limiter *middleware.RateLimiter,
	rdb *redis.Client,
) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
	}))
	e.Use(limiter.Middleware())
	e.Use(middleware.Metrics())

	// Probes and metrics exposition.
	e.GET("/health", handler.Health)
	e.GET("/ready", handler.Ready(store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Unauthenticated auth operations.
	e.POST("/auth/register", auth.Register)
	e.POST("/auth/token", auth.Login)

	// Public election listing, cached when redis is available.
	e.GET("/elections", elections.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Authenticated voter surface.
	jwt := middleware.JWTAuth(cfg.JWTSecret)
	e.GET("/users/me", auth.Me, jwt)
	e.GET("/users/me/votes", auth.MyVotes, jwt)
	e.POST("/vote", votes.Cast, jwt)

	// Admin surface: token plus an exact role match.
	admin := middleware.RequireRole(model.RoleAdmin)
	e.POST("/elections", elections.Create, jwt, admin)
	e.POST("/elections/:id/close", elections.Close, jwt, admin)
	e.GET("/elections/:id/results", elections.Results, jwt, admin)
}
