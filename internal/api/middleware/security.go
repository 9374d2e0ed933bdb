package middleware

import "github.com/labstack/echo/v4"

// SecurityHeaders sets the fixed response headers required on every
// response per §6: frame-options, content-type-options, referrer-policy.
// No middleware in this package sets X-RateLimit-Remaining.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			return next(c)
		}
	}
}
