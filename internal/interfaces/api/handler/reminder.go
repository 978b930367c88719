package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/application/service"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultUserID = "default_user"

// ReminderHandler handles digest previews, manual sends, and reminder scheduling.
type ReminderHandler struct {
	scheduleService  service.ScheduleService
	schedulerService service.SchedulerService
	log              logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(
	scheduleService service.ScheduleService,
	schedulerService service.SchedulerService,
	log logger.Logger,
) *ReminderHandler {
	return &ReminderHandler{
		scheduleService:  scheduleService,
		schedulerService: schedulerService,
		log:              log,
	}
}

// DailySchedule returns today's formatted digest.
func (h *ReminderHandler) DailySchedule(c echo.Context) error {
	message, events, err := h.schedulerService.DigestForDate(c.Request().Context(), time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.DailyScheduleResponse{Message: message, EventsCount: len(events)})
}

// DailyScheduleForDate returns the digest for a specific date (YYYY-MM-DD).
func (h *ReminderHandler) DailyScheduleForDate(c echo.Context) error {
	date, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid date format. Use YYYY-MM-DD"})
	}
	message, events, err := h.schedulerService.DigestForDate(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.DailyScheduleResponse{
		Message:     message,
		EventsCount: len(events),
		Date:        c.Param("date"),
	})
}

// SendDaily dispatches today's digest to the given target immediately.
func (h *ReminderHandler) SendDaily(c echo.Context) error {
	target, ok := h.bindTarget(c)
	if !ok {
		return nil
	}
	count, err := h.schedulerService.SendDigest(c.Request().Context(), target)
	if err != nil {
		h.log.Error("Manual digest send failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to send Telegram message"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Daily schedule sent successfully", "events_count": count})
}

// TestTelegram sends a fixed probe message synchronously.
func (h *ReminderHandler) TestTelegram(c echo.Context) error {
	target, ok := h.bindTarget(c)
	if !ok {
		return nil
	}
	if err := h.schedulerService.TestConnection(c.Request().Context(), target); err != nil {
		h.log.Error("Telegram connection test failed", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Failed to send test message"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Test message sent successfully"})
}

// ScheduleDaily validates and persists the reminder configuration, re-arming
// the recurring handle.
func (h *ReminderHandler) ScheduleDaily(c echo.Context) error {
	var req dto.ScheduleReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
	}

	result, err := h.scheduleService.Put(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidSchedule) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}

	if !result.Schedule.Enabled {
		return c.JSON(http.StatusOK, dto.ScheduleReminderResponse{Message: "Daily reminder disabled", Enabled: false})
	}
	return c.JSON(http.StatusOK, dto.ScheduleReminderResponse{
		Message: fmt.Sprintf("Daily reminder scheduled for %02d:%02d Eastern Time", result.Schedule.Hour, result.Schedule.Minute),
		NextRun: result.NextRun.Format("2006-01-02 15:04:05 MST"),
		Enabled: true,
	})
}

// ReminderStatus reports the current reminder configuration and handle.
func (h *ReminderHandler) ReminderStatus(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = defaultUserID
	}
	status := h.schedulerService.Status(c.Request().Context(), userID)

	resp := dto.ReminderStatusResponse{
		Scheduled: status.Scheduled,
		Enabled:   status.Enabled,
		UserID:    status.UserID,
	}
	if status.Scheduled {
		hour, minute := status.Hour, status.Minute
		resp.Hour = &hour
		resp.Minute = &minute
		resp.NextRun = status.NextRun.Format("2006-01-02 15:04:05 MST")
	}
	return c.JSON(http.StatusOK, resp)
}

// CancelDaily disables the reminder and cancels its handle.
func (h *ReminderHandler) CancelDaily(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = defaultUserID
	}
	cancelled, err := h.scheduleService.Disable(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	message := "Daily reminder cancelled"
	if !cancelled {
		message = "No reminder was scheduled"
	}
	return c.JSON(http.StatusOK, dto.CancelReminderResponse{Message: message, Cancelled: cancelled})
}

// TestSchedule arms a one-off test reminder a minute out.
func (h *ReminderHandler) TestSchedule(c echo.Context) error {
	target, ok := h.bindTarget(c)
	if !ok {
		return nil
	}
	fireAt, err := h.schedulerService.ScheduleTest(c.Request().Context(), target)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, dto.TestScheduleResponse{
		Message:       "Test reminder scheduled for " + fireAt.Format("15:04:05"),
		ScheduledTime: fireAt.Format(time.RFC3339),
	})
}

// bindTarget binds and validates a delivery target, writing the error
// response itself when validation fails.
func (h *ReminderHandler) bindTarget(c echo.Context) (dto.TelegramRequest, bool) {
	var target dto.TelegramRequest
	if err := c.Bind(&target); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"detail": "Invalid request body."})
		return target, false
	}
	if target.BotToken == "" || target.ChatID == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"detail": "Bot token and chat ID are required"})
		return target, false
	}
	return target, true
}
