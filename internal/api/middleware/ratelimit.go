package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"jobscout/internal/ratelimit"
	"jobscout/pkg/apperrors"
)

// RateLimit enforces the inbound sliding-window limiter for windowName,
// keying each caller by IP+User-Agent, and sets Retry-After on denial. It
// does not set an X-RateLimit-Remaining header.
func RateLimit(limiter *ratelimit.InboundLimiter, windowName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ratelimit.ClientKey(c.RealIP(), c.Request().UserAgent())
			allowed, retryAfter := limiter.Allow(windowName, key)

			if !allowed {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
				appErr := apperrors.NewRateLimitedError(fmt.Sprintf("retry after %ds", int(retryAfter.Seconds())))
				return c.JSON(appErr.Kind.StatusCode(), map[string]string{"error": appErr.PublicMessage()})
			}

			return next(c)
		}
	}
}
