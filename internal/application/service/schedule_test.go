package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/domain/entity"
	appErrors "calreminder/internal/pkg/errors"
)

func TestPutRejectsInvalidConfigurationsBeforePersisting(t *testing.T) {
	cases := []struct {
		name string
		req  dto.ScheduleReminderRequest
	}{
		{"minute off the quarter grid", dto.ScheduleReminderRequest{BotToken: "t", ChatID: "c", Hour: 8, Minute: 7}},
		{"hour past midnight", dto.ScheduleReminderRequest{BotToken: "t", ChatID: "c", Hour: 25, Minute: 0}},
		{"negative hour", dto.ScheduleReminderRequest{BotToken: "t", ChatID: "c", Hour: -1, Minute: 0}},
		{"enabled without bot token", dto.ScheduleReminderRequest{ChatID: "c", Hour: 8, Minute: 0}},
		{"enabled without chat ID", dto.ScheduleReminderRequest{BotToken: "t", Hour: 8, Minute: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeScheduleRepo()
			armer := &fakeArmer{}
			svc := NewScheduleService(repo, armer, nopLogger{})

			_, err := svc.Put(context.Background(), tc.req)
			if !errors.Is(err, appErrors.ErrInvalidSchedule) {
				t.Fatalf("expected ErrInvalidSchedule, got %v", err)
			}
			if repo.saveCalls != 0 {
				t.Fatalf("a rejected configuration must not be persisted, got %d save(s)", repo.saveCalls)
			}
			if armer.rearmCalls != 0 {
				t.Fatalf("a rejected configuration must not re-arm, got %d call(s)", armer.rearmCalls)
			}
		})
	}
}

func TestPutAcceptsEveryAllowedMinute(t *testing.T) {
	for _, minute := range []int{0, 15, 30, 45} {
		repo := newFakeScheduleRepo()
		svc := NewScheduleService(repo, &fakeArmer{}, nopLogger{})

		req := dto.ScheduleReminderRequest{BotToken: "t", ChatID: "c", Hour: 8, Minute: minute}
		if _, err := svc.Put(context.Background(), req); err != nil {
			t.Fatalf("minute %d: %v", minute, err)
		}
	}
}

func TestPutPersistsThenRearms(t *testing.T) {
	repo := newFakeScheduleRepo()
	next := time.Date(2026, time.March, 11, 8, 30, 0, 0, reminderLocation)
	armer := &fakeArmer{nextRun: next}
	svc := NewScheduleService(repo, armer, nopLogger{})

	result, err := svc.Put(context.Background(), dto.ScheduleReminderRequest{
		BotToken: "token", ChatID: "chat", Hour: 8, Minute: 30,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	saved, findErr := repo.FindByUserID(context.Background(), "default_user")
	if findErr != nil {
		t.Fatalf("find saved schedule: %v", findErr)
	}
	if !saved.Enabled || saved.Hour != 8 || saved.Minute != 30 {
		t.Fatalf("saved schedule = %+v", saved)
	}
	if armer.rearmCalls != 1 {
		t.Fatalf("rearm called %d time(s), want 1", armer.rearmCalls)
	}
	if !result.NextRun.Equal(next) {
		t.Fatalf("next run = %v, want %v", result.NextRun, next)
	}
}

func TestPutDefaultsEnabledAndUser(t *testing.T) {
	repo := newFakeScheduleRepo()
	armer := &fakeArmer{}
	svc := NewScheduleService(repo, armer, nopLogger{})

	if _, err := svc.Put(context.Background(), dto.ScheduleReminderRequest{
		BotToken: "t", ChatID: "c", Hour: 9, Minute: 0,
	}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if armer.lastSchedule.UserID != "default_user" {
		t.Fatalf("user ID = %q, want default_user", armer.lastSchedule.UserID)
	}
	if !armer.lastSchedule.Enabled {
		t.Fatal("enabled should default to true")
	}
}

func TestPutDisabledSkipsTargetRequirement(t *testing.T) {
	repo := newFakeScheduleRepo()
	armer := &fakeArmer{}
	svc := NewScheduleService(repo, armer, nopLogger{})

	disabled := false
	result, err := svc.Put(context.Background(), dto.ScheduleReminderRequest{
		Hour: 8, Minute: 0, Enabled: &disabled,
	})
	if err != nil {
		t.Fatalf("put disabled: %v", err)
	}
	if result.Schedule.Enabled {
		t.Fatal("schedule should be disabled")
	}
	if armer.rearmCalls != 1 {
		t.Fatalf("rearm still runs to drop any live handle, got %d call(s)", armer.rearmCalls)
	}
}

func TestGetMapsMissingScheduleToNotFound(t *testing.T) {
	svc := NewScheduleService(newFakeScheduleRepo(), &fakeArmer{}, nopLogger{})

	_, err := svc.Get(context.Background(), "nobody")
	if !errors.Is(err, appErrors.ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestDisablePersistsAndCancels(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.schedules["default_user"] = &entity.ReminderSchedule{
		UserID: "default_user", Enabled: true, Hour: 8, Minute: 0, BotToken: "t", ChatID: "c",
	}
	armer := &fakeArmer{cancelResult: true}
	svc := NewScheduleService(repo, armer, nopLogger{})

	cancelled, err := svc.Disable(context.Background(), "")
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if !cancelled {
		t.Fatal("expected an armed handle to be cancelled")
	}
	if armer.cancelCalls != 1 {
		t.Fatalf("cancel called %d time(s), want 1", armer.cancelCalls)
	}
	saved, _ := repo.FindByUserID(context.Background(), "default_user")
	if saved.Enabled {
		t.Fatal("schedule should be persisted as disabled")
	}
}

func TestDisableWithoutScheduleReportsNothingCancelled(t *testing.T) {
	armer := &fakeArmer{cancelResult: false}
	svc := NewScheduleService(newFakeScheduleRepo(), armer, nopLogger{})

	cancelled, err := svc.Disable(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if cancelled {
		t.Fatal("nothing was armed, cancelled should be false")
	}
}
