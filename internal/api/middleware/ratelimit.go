package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agroplaza/identity-api/internal/api/metrics"
	"github.com/agroplaza/identity-api/internal/core/ports"
)

// RateLimit guards a route with the fixed-window request limiter. Keys are
// per route and per client, so resend and verify throttle independently.
// When the limiter backend is unreachable the request is allowed through:
// this is a request-rate guard, not a business-state guard.
func RateLimit(limiter ports.RequestLimiter, route string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s", route, c.RealIP())
			allowed, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
			}
			return next(c)
		}
	}
}
