package dto

// ScheduleReminderRequest is the DTO for configuring the daily reminder.
// Enabled defaults to true and UserID to "default_user" when omitted.
type ScheduleReminderRequest struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Enabled  *bool  `json:"enabled"`
	UserID   string `json:"user_id"`
}

// ScheduleReminderResponse confirms a configuration update.
type ScheduleReminderResponse struct {
	Message string `json:"message"`
	NextRun string `json:"next_run,omitempty"`
	Enabled bool   `json:"enabled"`
}

// ReminderStatusResponse reports the current reminder configuration and handle.
type ReminderStatusResponse struct {
	Scheduled bool   `json:"scheduled"`
	Enabled   bool   `json:"enabled"`
	Hour      *int   `json:"hour,omitempty"`
	Minute    *int   `json:"minute,omitempty"`
	NextRun   string `json:"next_run,omitempty"`
	UserID    string `json:"user_id"`
}

// CancelReminderResponse confirms a cancellation request.
type CancelReminderResponse struct {
	Message   string `json:"message"`
	Cancelled bool   `json:"cancelled"`
}

// TelegramRequest identifies a delivery target.
type TelegramRequest struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// TestScheduleResponse confirms a one-off test job.
type TestScheduleResponse struct {
	Message       string `json:"message"`
	ScheduledTime string `json:"scheduled_time"`
}

// DailyScheduleResponse carries a rendered digest preview.
type DailyScheduleResponse struct {
	Message     string `json:"message"`
	EventsCount int    `json:"events_count"`
	Date        string `json:"date,omitempty"`
}
