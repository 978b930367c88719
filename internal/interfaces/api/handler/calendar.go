package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/application/service"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CalendarHandler handles event reads, creation, and the text extraction pipeline.
type CalendarHandler struct {
	authService       service.AuthService
	calendarService   service.CalendarService
	extractionService service.ExtractionService
	log               logger.Logger
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(
	authService service.AuthService,
	calendarService service.CalendarService,
	extractionService service.ExtractionService,
	log logger.Logger,
) *CalendarHandler {
	return &CalendarHandler{
		authService:       authService,
		calendarService:   calendarService,
		extractionService: extractionService,
		log:               log,
	}
}

// Events returns the requested month's events, filling the cache on first access.
// Defaults to the current month.
func (h *CalendarHandler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.authService.RequireSignedIn(ctx); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "User not authenticated."})
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid year parameter."})
		}
		year = parsed
	}
	if m := c.QueryParam("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid month parameter."})
		}
		month = time.Month(parsed)
	}

	events, err := h.calendarService.MonthEvents(ctx, year, month)
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to load events for %04d-%02d", year, month), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to fetch calendar events."})
	}
	return c.JSON(http.StatusOK, dto.ToEventResponseList(events))
}

// Add creates a new calendar event.
func (h *CalendarHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.authService.RequireSignedIn(ctx); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "User not authenticated."})
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}
	if req.Title == "" || req.Start == "" || req.End == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "title, start and end are required."})
	}

	created, err := h.calendarService.CreateEvent(ctx, req.ToDraft())
	if err != nil {
		h.log.Error("Failed to create calendar event", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.ToEventResponse(created))
}

// ParseText converts free text into calendar events via the extraction
// pipeline, then refreshes the cache buckets touched by the created events.
func (h *CalendarHandler) ParseText(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ParseTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Text input is required"})
	}
	if err := h.authService.RequireSignedIn(ctx); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "User not authenticated with Google Calendar"})
	}

	result, err := h.extractionService.ParseAndCreate(ctx, req.Text, req.OpenAIAPIKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrExtractionFailed) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Internal server error"})
	}

	resp := dto.ParseTextResponse{
		EventsCreated: result.CreatedCount(),
		EventsFailed:  result.FailedCount(),
		CreatedEvents: []dto.CreatedEventPayload{},
		FailedEvents:  []dto.FailedEventPayload{},
		ParsedText:    req.Text,
	}
	for _, outcome := range result.Outcomes {
		candidate := dto.ToCandidatePayload(outcome.Candidate)
		if outcome.Err != nil {
			resp.FailedEvents = append(resp.FailedEvents, dto.FailedEventPayload{
				Event: candidate,
				Error: outcome.Err.Error(),
			})
			continue
		}
		resp.CreatedEvents = append(resp.CreatedEvents, dto.CreatedEventPayload{
			Event:   candidate,
			Created: dto.ToEventResponse(outcome.Created),
		})
	}

	if resp.EventsCreated > 0 {
		h.refreshCreatedBuckets(c, result)
		resp.Message = fmt.Sprintf("Successfully created %d event(s) from text", resp.EventsCreated)
	} else if len(result.Outcomes) == 0 {
		resp.Message = "No events were identified in the provided text"
	} else {
		resp.Message = "No events could be created from the provided text"
	}
	return c.JSON(http.StatusOK, resp)
}

// refreshCreatedBuckets re-fetches the month buckets the created events fall
// in; the pipeline itself never touches the cache.
func (h *CalendarHandler) refreshCreatedBuckets(c echo.Context, result *service.ExtractionResult) {
	ctx := c.Request().Context()
	seen := map[string]bool{}
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil || outcome.Created == nil || outcome.Created.Start.DateTime == nil {
			continue
		}
		start := *outcome.Created.Start.DateTime
		key := start.Format("2006-01")
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := h.calendarService.Refresh(ctx, start.Year(), start.Month()); err != nil {
			h.log.Warn(fmt.Sprintf("Failed to refresh bucket %s after extraction: %v", key, err))
		}
	}
}
