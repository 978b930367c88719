package service

import (
	"context"
	"errors"
	"fmt"

	"calreminder/internal/application/dto"
	"calreminder/internal/domain/entity"
	"calreminder/internal/domain/repository"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

// allowedMinutes are the only minute values a reminder may fire at.
var allowedMinutes = map[int]bool{0: true, 15: true, 30: true, 45: true}

const defaultUserID = "default_user"

type scheduleService struct {
	repo  repository.ScheduleRepository
	armer ScheduleArmer
	log   logger.Logger
}

// NewScheduleService creates a new instance of ScheduleService implementation.
func NewScheduleService(repo repository.ScheduleRepository, armer ScheduleArmer, log logger.Logger) ScheduleService {
	return &scheduleService{
		repo:  repo,
		armer: armer,
		log:   log,
	}
}

// Get retrieves the schedule for a user.
func (s *scheduleService) Get(ctx context.Context, userID string) (*entity.ReminderSchedule, error) {
	if userID == "" {
		userID = defaultUserID
	}
	schedule, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrScheduleNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to load schedule for user %s", userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return schedule, nil
}

// Put validates and persists a configuration, then re-arms the scheduler.
func (s *scheduleService) Put(ctx context.Context, req dto.ScheduleReminderRequest) (*PutResult, error) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	if req.Hour < 0 || req.Hour > 23 {
		return nil, fmt.Errorf("%w: hour %d out of range", appErrors.ErrInvalidSchedule, req.Hour)
	}
	if !allowedMinutes[req.Minute] {
		return nil, fmt.Errorf("%w: minute must be one of 0, 15, 30, 45", appErrors.ErrInvalidSchedule)
	}
	if enabled && (req.BotToken == "" || req.ChatID == "") {
		return nil, fmt.Errorf("%w: bot token and chat ID are required", appErrors.ErrInvalidSchedule)
	}

	schedule := &entity.ReminderSchedule{
		UserID:   userID,
		Enabled:  enabled,
		Hour:     req.Hour,
		Minute:   req.Minute,
		BotToken: req.BotToken,
		ChatID:   req.ChatID,
	}
	if err := s.repo.Save(ctx, schedule); err != nil {
		s.log.Error(fmt.Sprintf("Failed to persist schedule for user %s", userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	nextRun, err := s.armer.Rearm(ctx, schedule)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to re-arm reminder for user %s after configuration update", userID), err)
		return nil, err
	}

	if enabled {
		s.log.Info(fmt.Sprintf("Daily reminder for user %s configured at %02d:%02d, next run %v.",
			userID, req.Hour, req.Minute, nextRun))
	} else {
		s.log.Info(fmt.Sprintf("Daily reminder for user %s disabled.", userID))
	}
	return &PutResult{Schedule: schedule, NextRun: nextRun}, nil
}

// Disable turns off a user's reminder and cancels its handle.
func (s *scheduleService) Disable(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		userID = defaultUserID
	}

	schedule, err := s.Get(ctx, userID)
	if err != nil && !errors.Is(err, appErrors.ErrScheduleNotFound) {
		return false, err
	}
	if schedule != nil {
		schedule.Enabled = false
		if saveErr := s.repo.Save(ctx, schedule); saveErr != nil {
			s.log.Error(fmt.Sprintf("Failed to persist disabled schedule for user %s", userID), saveErr)
			return false, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, saveErr)
		}
	}

	cancelled := s.armer.Cancel(ctx, userID)
	if cancelled {
		s.log.Info(fmt.Sprintf("Cancelled daily reminder for user %s.", userID))
	}
	return cancelled, nil
}
