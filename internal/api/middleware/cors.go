package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CORSConfig returns CORS middleware restricted to allowedOrigins, per §6:
// credentialed, GET/POST/PUT/DELETE/OPTIONS, a fixed header allow-list, and
// a 600s preflight cache.
func CORSConfig(allowedOrigins []string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
