package service

import (
	"context"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/domain/entity"
)

// ScheduleArmer is the slice of the scheduler the schedule store drives.
type ScheduleArmer interface {
	// Rearm cancels any existing recurring handle for the schedule's user and,
	// if the schedule is enabled, arms a new one. Returns the next fire time.
	Rearm(ctx context.Context, schedule *entity.ReminderSchedule) (time.Time, error)
	// Cancel removes the recurring handle for a user, reporting whether one existed.
	Cancel(ctx context.Context, userID string) bool
}

// PutResult reports the outcome of a schedule configuration update.
type PutResult struct {
	Schedule *entity.ReminderSchedule
	NextRun  time.Time
}

// ScheduleService defines the interface for the persisted reminder configuration.
type ScheduleService interface {
	// Get retrieves the schedule for a user. Returns ErrScheduleNotFound when absent.
	Get(ctx context.Context, userID string) (*entity.ReminderSchedule, error)
	// Put validates and persists a configuration, then notifies the scheduler
	// to re-arm. Validation failures prevent persistence entirely.
	Put(ctx context.Context, req dto.ScheduleReminderRequest) (*PutResult, error)
	// Disable turns off a user's reminder and cancels its handle. Reports
	// whether an armed handle existed.
	Disable(ctx context.Context, userID string) (bool, error)
}
