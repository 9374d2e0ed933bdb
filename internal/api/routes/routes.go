package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobscout/internal/api/handlers"
	"jobscout/internal/api/middleware"
	"jobscout/internal/config"
	"jobscout/internal/orchestrator"
	"jobscout/internal/ratelimit"
)

// SetupRoutes wires §6's full route table: health probes, the six
// /scraper/* operations, the global middleware chain (request logging,
// recover, CORS, security headers, timeouts), and per-route inbound rate
// limiting and auth.
func SetupRoutes(e *echo.Echo, cfg *config.Config, orch *orchestrator.Orchestrator, outbound *ratelimit.OutboundLimiter, inbound *ratelimit.InboundLimiter) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.CORS.AllowedOrigins))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Scraper.RequestTimeout*3))

	health := e.Group("/health")
	health.GET("", handlers.HealthHandler)
	health.GET("/ready", handlers.ReadinessHandler)
	health.GET("/live", handlers.LivenessHandler)

	apiConfigured := cfg.Enrichment.Provider == "claude" && cfg.Enrichment.APIKey != ""
	scraperHandlers := handlers.NewScraperHandlers(orch, outbound, apiConfigured, cfg.Scraper.MonthlyQuotaLimit)

	scraper := e.Group("/scraper")
	scraperLimit := middleware.RateLimit(inbound, ratelimit.WindowScraper)
	defaultLimit := middleware.RateLimit(inbound, ratelimit.WindowDefault)

	scraper.POST("/start", scraperHandlers.Start, scraperLimit, middleware.Auth(cfg.Auth.IssuerURL))
	scraper.POST("/quick", scraperHandlers.Quick, defaultLimit, middleware.OptionalAuth(cfg.Auth.IssuerURL))
	scraper.GET("/status/:runId", scraperHandlers.Status, defaultLimit, middleware.Auth(cfg.Auth.IssuerURL))
	scraper.GET("/runs", scraperHandlers.Runs, defaultLimit, middleware.Auth(cfg.Auth.IssuerURL))
	scraper.POST("/cancel/:runId", scraperHandlers.Cancel, defaultLimit, middleware.Auth(cfg.Auth.IssuerURL))
	scraper.GET("/quota", scraperHandlers.Quota)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "jobscout",
			"status":  "running",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
}
