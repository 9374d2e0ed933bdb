// Package handlers' scraper.go implements the six /scraper/* operations of
// §6, translating validated requests into Orchestrator/Registry calls.
package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apimiddleware "jobscout/internal/api/middleware"
	"jobscout/internal/api/sanitize"
	"jobscout/internal/orchestrator"
	"jobscout/internal/ratelimit"
	"jobscout/pkg/apperrors"
	"jobscout/pkg/models"
)

// ScraperHandlers holds the dependencies every /scraper/* handler needs.
type ScraperHandlers struct {
	orchestrator  *orchestrator.Orchestrator
	validate      *validator.Validate
	outbound      *ratelimit.OutboundLimiter
	apiConfigured bool
	monthlyLimit  int
}

// NewScraperHandlers builds the handler set.
func NewScraperHandlers(orch *orchestrator.Orchestrator, outbound *ratelimit.OutboundLimiter, apiConfigured bool, monthlyLimit int) *ScraperHandlers {
	return &ScraperHandlers{
		orchestrator:  orch,
		validate:      validator.New(),
		outbound:      outbound,
		apiConfigured: apiConfigured,
		monthlyLimit:  monthlyLimit,
	}
}

// Start handles POST /scraper/start.
func (h *ScraperHandlers) Start(c echo.Context) error {
	var req models.StartScrapeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "body", err.Error())
	}
	if err := sanitizeStartRequest(&req); err != nil {
		return badRequest(c, "keywords/location", err.Error())
	}

	spec := models.NewFilterSpec(&req)
	runID := h.orchestrator.StartScrape(spec, apimiddleware.OwnerID(c))

	return c.JSON(http.StatusAccepted, models.StartScrapeResponse{RunID: runID, Status: models.RunQueued})
}

// Quick handles POST /scraper/quick.
func (h *ScraperHandlers) Quick(c echo.Context) error {
	var req models.QuickScrapeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed JSON body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return badRequest(c, "body", err.Error())
	}
	if sanitize.ContainsForbiddenChars(req.Keywords) || sanitize.ContainsForbiddenChars(req.Location) {
		return badRequest(c, "keywords/location", "contains disallowed characters")
	}
	req.Keywords = sanitize.String(req.Keywords, sanitize.MaxKeywordLen)
	req.Location = sanitize.String(req.Location, sanitize.MaxLocationLen)

	spec := models.NewQuickFilterSpec(&req)
	jobs, method := h.orchestrator.QuickSearch(c.Request().Context(), spec)

	return c.JSON(http.StatusOK, models.QuickScrapeResponse{
		Jobs:         jobs,
		JobsFound:    len(jobs),
		SearchMethod: method,
	})
}

// Status handles GET /scraper/status/{runId}.
func (h *ScraperHandlers) Status(c echo.Context) error {
	runID := c.Param("runId")
	run, err := h.orchestrator.Get(runID, apimiddleware.OwnerID(c))
	if err != nil {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, run)
}

// Runs handles GET /scraper/runs.
func (h *ScraperHandlers) Runs(c echo.Context) error {
	runs := h.orchestrator.List(apimiddleware.OwnerID(c))
	entries := make([]models.RunListEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, run.ToListEntry())
	}
	return c.JSON(http.StatusOK, entries)
}

// Cancel handles POST /scraper/cancel/{runId}.
func (h *ScraperHandlers) Cancel(c echo.Context) error {
	runID := c.Param("runId")
	if err := h.orchestrator.Cancel(runID, apimiddleware.OwnerID(c)); err != nil {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, models.CancelResponse{Message: "cancellation requested", RunID: runID})
}

// Quota handles GET /scraper/quota; unauthenticated per §6.
func (h *ScraperHandlers) Quota(c echo.Context) error {
	return c.JSON(http.StatusOK, models.QuotaResponse{
		RequestsRemaining: h.outbound.RequestsRemaining(),
		MonthlyLimit:      h.monthlyLimit,
		APIConfigured:     h.apiConfigured,
	})
}

func sanitizeStartRequest(req *models.StartScrapeRequest) error {
	if sanitize.ContainsForbiddenChars(req.Keywords) || sanitize.ContainsForbiddenChars(req.Location) {
		return errForbiddenChars
	}
	req.Keywords = sanitize.String(req.Keywords, sanitize.MaxKeywordLen)
	req.Location = sanitize.String(req.Location, sanitize.MaxLocationLen)
	req.UserSkills = sanitize.Skills(req.UserSkills)
	return nil
}

var errForbiddenChars = apperrors.NewInvalidInputError("keywords/location", "contains disallowed characters")

func badRequest(c echo.Context, field, reason string) error {
	appErr := apperrors.NewInvalidInputError(field, reason)
	return c.JSON(appErr.Kind.StatusCode(), map[string]string{"error": appErr.PublicMessage()})
}

func notFound(c echo.Context) error {
	appErr := apperrors.NewNotFoundError()
	return c.JSON(appErr.Kind.StatusCode(), map[string]string{"error": appErr.PublicMessage()})
}
