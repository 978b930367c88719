package router

import (
	"fmt"
	"net/http"

	"calreminder/internal/interfaces/api/handler"
	"calreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	AuthHandler     *handler.AuthHandler
	CalendarHandler *handler.CalendarHandler
	ReminderHandler *handler.ReminderHandler
	Logger          logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()

	// Middleware
	e.Use(middleware.RequestID())
	// Use custom logger that integrates with our logger interface
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogHost:      true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info(fmt.Sprintf("REQUEST: method=%s, uri=%s, status=%d, latency=%s, req_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID,
			))
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Calendar Reminder API"})
	})

	// Google OAuth session
	e.GET("/auth/status", cfg.AuthHandler.Status)
	e.GET("/auth/start", cfg.AuthHandler.Start)
	e.GET("/auth/callback", cfg.AuthHandler.Callback)
	e.POST("/auth/logout", cfg.AuthHandler.Logout)

	// Calendar
	e.GET("/calendar/authenticated", cfg.AuthHandler.Status)
	e.GET("/calendar/events", cfg.CalendarHandler.Events)
	e.POST("/calendar/add", cfg.CalendarHandler.Add)

	// Event extraction
	e.POST("/api/parse-text-to-events", cfg.CalendarHandler.ParseText)

	// Daily digest and reminders
	e.GET("/api/daily-schedule", cfg.ReminderHandler.DailySchedule)
	e.GET("/api/daily-schedule/:date", cfg.ReminderHandler.DailyScheduleForDate)
	e.POST("/api/send-daily-telegram", cfg.ReminderHandler.SendDaily)
	e.POST("/api/test-telegram", cfg.ReminderHandler.TestTelegram)
	e.POST("/api/schedule-daily-reminder", cfg.ReminderHandler.ScheduleDaily)
	e.GET("/api/reminder-status", cfg.ReminderHandler.ReminderStatus)
	e.DELETE("/api/cancel-daily-reminder", cfg.ReminderHandler.CancelDaily)
	e.POST("/api/test-schedule", cfg.ReminderHandler.TestSchedule)

	cfg.Logger.Info("Router initialized with routes.")
	return e
}
