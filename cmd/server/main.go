package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"jobscout/internal/api/routes"
	"jobscout/internal/config"
	"jobscout/internal/enrichment"
	"jobscout/internal/orchestrator"
	"jobscout/internal/ratelimit"
	"jobscout/internal/registry"
	"jobscout/internal/source/fallback"
	"jobscout/internal/source/primary"
	"jobscout/internal/validator/browser"
	html "jobscout/internal/validator/html"
)

func newLogger(cfg *config.Config) *logrus.Entry {
	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return logrus.NewEntry(log)
}

func newEnricher(cfg *config.Config, log *logrus.Entry) enrichment.Enricher {
	if cfg.Enrichment.Provider == "claude" && cfg.Enrichment.APIKey != "" {
		return enrichment.NewClaudeScorer(cfg.Enrichment.APIKey, cfg.Enrichment.MaxTokens, log)
	}
	return enrichment.NewKeywordScorer()
}

func main() {
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	log.Info("starting jobscout")

	outbound := ratelimit.NewOutboundLimiter()
	inbound := ratelimit.NewInboundLimiter()
	reg := registry.New()

	primaryAdapter := primary.New(outbound, log)
	fallbackAdapter := fallback.New(outbound, log)
	htmlValidator := html.New(cfg.Validator.HTMLMaxConcurrent, outbound, log)

	var browserValidator *browser.Validator
	if cfg.BrowserPool.MaxInstances > 0 {
		pool := browser.NewPool(cfg.BrowserPool.MaxInstances, cfg.BrowserPool.Headless, log)
		browserValidator = browser.New(pool, log)
	}

	enricher := newEnricher(cfg, log)

	orch := orchestrator.New(reg, primaryAdapter, fallbackAdapter, htmlValidator, browserValidator, enricher, log)

	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, orch, outbound, inbound)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("error during shutdown")
		}
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithField("address", address).Info("listening")

	if err := e.Start(address); err != nil {
		log.WithError(err).Info("server stopped")
	}
}
