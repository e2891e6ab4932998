package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request metrics mirror the series the monitoring dashboards expect:
// a per-route counter and latency histogram, plus domain counters bumped by
// the handlers when a registration or vote succeeds.
var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Request latency in seconds",
	}, []string{"method", "path"})

	// VotesCast counts successfully persisted ballots.
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "votes_cast_total",
		Help: "Total votes cast",
	})

	// Registrations counts successful user registrations.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Total user registrations",
	})
)

// Metrics returns an Echo middleware that observes every request.  The
// route template (c.Path) is used as the path label to keep cardinality
// bounded; raw URLs would explode the series for parameterized routes.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			path := c.Path()
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			requestLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			requestCount.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
