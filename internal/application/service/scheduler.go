package service

import (
	"context"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/domain/entity"

	"github.com/robfig/cron/v3"
)

// CronRunner abstracts the cron substrate the scheduler arms jobs on.
type CronRunner interface {
	AddJob(spec string, cmd func()) (cron.EntryID, error)
	RemoveJob(id cron.EntryID)
	Entry(id cron.EntryID) cron.Entry
	Stop()
}

// Dispatcher abstracts the messaging collaborator notifications go out through.
type Dispatcher interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
}

// ReminderStatus describes a user's reminder configuration and armed handle.
type ReminderStatus struct {
	Scheduled bool
	Enabled   bool
	Hour      int
	Minute    int
	NextRun   time.Time
	UserID    string
}

// SchedulerService defines the interface for the background reminder timer service.
type SchedulerService interface {
	ScheduleArmer

	// Status reports the reminder state for a user, including the next fire time.
	Status(ctx context.Context, userID string) *ReminderStatus
	// ScheduleTest arms a one-off digest job a short fixed delay from now.
	// Test jobs are tracked separately and never replace the recurring handle.
	ScheduleTest(ctx context.Context, target dto.TelegramRequest) (time.Time, error)
	// SendDigest builds today's digest and dispatches it immediately.
	SendDigest(ctx context.Context, target dto.TelegramRequest) (int, error)
	// TestConnection sends a fixed probe message synchronously.
	TestConnection(ctx context.Context, target dto.TelegramRequest) error
	// DigestForDate renders the digest for a given local day without sending it.
	DigestForDate(ctx context.Context, date time.Time) (string, []entity.CalendarEvent, error)
	// InitializeSchedules arms every enabled persisted schedule on startup.
	InitializeSchedules(ctx context.Context) error
	// Stop stops the underlying cron runner.
	Stop()
}
