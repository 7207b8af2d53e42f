package echoapi

import (
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core"
	metricsvc "github.com/trezcool/academia/services/metrics"
)

func newRequestID() string {
	return uuid.NewString()
}

// metricsMiddleware records request counts and latencies per route template.
// Errors are rendered here so that the recorded status is the one sent to the client.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		if err := next(ctx); err != nil {
			ctx.Error(err)
		}

		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request().Method
		metricsvc.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		metricsvc.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// authRateLimiter limits login attempts per client IP. A non-positive limit disables it.
func authRateLimiter(conf core.ServerConfig) echo.MiddlewareFunc {
	if conf.AuthRateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(httprate.LimitByIP(conf.AuthRateLimit, conf.AuthRateWindow))
}
