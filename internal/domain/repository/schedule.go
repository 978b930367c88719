package repository

import (
	"context"

	"calreminder/internal/domain/entity"
)

// ScheduleRepository defines the interface for reminder schedule persistence.
type ScheduleRepository interface {
	// FindByUserID retrieves the schedule for a specific user.
	FindByUserID(ctx context.Context, userID string) (*entity.ReminderSchedule, error)
	// FindEnabled retrieves all enabled schedules (used for re-arming on startup).
	FindEnabled(ctx context.Context) ([]*entity.ReminderSchedule, error)
	// Save creates or replaces a user's schedule. Disabling keeps the row
	// with enabled=false so the configuration survives a re-enable.
	Save(ctx context.Context, schedule *entity.ReminderSchedule) error
}
