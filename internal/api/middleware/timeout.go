package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// TimeoutConfig returns timeout middleware configuration
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	})
}

// SelectiveTimeoutConfig applies longTimeout to /scraper/quick, which runs a
// synchronous fallback (aggregated-search) discovery inline, and defaultTimeout to
// everything else.
func SelectiveTimeoutConfig(defaultTimeout time.Duration, longTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			if strings.Contains(path, "/scraper/quick") {
				timeoutMiddleware := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
					Timeout: longTimeout,
				})
				return timeoutMiddleware(next)(c)
			}

			timeoutMiddleware := middleware.TimeoutWithConfig(middleware.TimeoutConfig{
				Timeout: defaultTimeout,
			})
			return timeoutMiddleware(next)(c)
		}
	}
}
