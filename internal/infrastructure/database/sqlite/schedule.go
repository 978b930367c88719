package sqlite

import (
	"context"
	"errors"
	"fmt"

	"calreminder/internal/domain/entity"
	"calreminder/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// FindByUserID retrieves the schedule for a specific user.
func (r *scheduleRepository) FindByUserID(ctx context.Context, userID string) (*entity.ReminderSchedule, error) {
	var schedule entity.ReminderSchedule
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule for user %s not found: %w", userID, err)
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to find schedule by user_id %s: %w", userID, err)
	}
	return &schedule, nil
}

// FindEnabled retrieves all enabled schedules.
func (r *scheduleRepository) FindEnabled(ctx context.Context) ([]*entity.ReminderSchedule, error) {
	var schedules []*entity.ReminderSchedule
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find enabled schedules: %w", err)
	}
	return schedules, nil
}

// Save creates or replaces a user's schedule.
func (r *scheduleRepository) Save(ctx context.Context, schedule *entity.ReminderSchedule) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(schedule).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to save schedule for user %s: %w", schedule.UserID, err)
	}
	return nil
}
