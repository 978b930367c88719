package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"calreminder/internal/application/dto"
	"calreminder/internal/domain/entity"
	"calreminder/internal/domain/repository"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const (
	// testJobDelay is how far in the future a one-off test job fires.
	testJobDelay = time.Minute

	connectionTestMessage = "🤖 Test message from Calendar Reminder Bot!\n\nYour Telegram integration is working correctly."
)

// DayEventSource is the slice of the calendar service the scheduler pulls
// provider-fresh day events from.
type DayEventSource interface {
	EventsForDate(ctx context.Context, date time.Time) ([]entity.CalendarEvent, error)
}

type schedulerService struct {
	cron         CronRunner
	scheduleRepo repository.ScheduleRepository
	events       DayEventSource
	dispatcher   Dispatcher
	log          logger.Logger
	now          func() time.Time

	mu        sync.Mutex
	recurring map[string]cron.EntryID // one active handle per user
	testJobs  map[string]cron.EntryID
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cronRunner CronRunner,
	scheduleRepo repository.ScheduleRepository,
	events DayEventSource,
	dispatcher Dispatcher,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cron:         cronRunner,
		scheduleRepo: scheduleRepo,
		events:       events,
		dispatcher:   dispatcher,
		log:          log,
		now:          time.Now,
		recurring:    make(map[string]cron.EntryID),
		testJobs:     make(map[string]cron.EntryID),
	}
}

// Rearm cancels any existing recurring handle for the user and, if the
// schedule is enabled, arms a new one. The replacement happens under one
// lock so the old and new timer can never both be armed.
func (s *schedulerService) Rearm(ctx context.Context, schedule *entity.ReminderSchedule) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.recurring[schedule.UserID]; ok {
		delete(s.recurring, schedule.UserID)
		s.cron.RemoveJob(id)
		s.log.Info(fmt.Sprintf("Removed existing reminder handle for user %s.", schedule.UserID))
	}

	if !schedule.Enabled {
		return time.Time{}, nil
	}
	if !schedule.HasTarget() {
		return time.Time{}, fmt.Errorf("%w: refusing to arm reminder without a delivery target", appErrors.ErrInvalidSchedule)
	}

	userID := schedule.UserID
	botToken := schedule.BotToken
	chatID := schedule.ChatID
	spec := fmt.Sprintf("0 %d %d * * *", schedule.Minute, schedule.Hour)

	entryID, err := s.cron.AddJob(spec, func() {
		s.fireDaily(userID, botToken, chatID)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	s.recurring[userID] = entryID

	nextRun := s.nextRunLocked(entryID, schedule.Hour, schedule.Minute)
	s.log.Info(fmt.Sprintf("Armed daily reminder for user %s at %02d:%02d %s. Next run: %v",
		userID, schedule.Hour, schedule.Minute, reminderLocation, nextRun))
	return nextRun, nil
}

// Cancel removes the recurring handle for a user.
func (s *schedulerService) Cancel(ctx context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.recurring[userID]
	if !ok {
		return false
	}
	delete(s.recurring, userID)
	s.cron.RemoveJob(id)
	s.log.Info(fmt.Sprintf("Cancelled daily reminder handle for user %s.", userID))
	return true
}

// Status reports the reminder state for a user.
func (s *schedulerService) Status(ctx context.Context, userID string) *ReminderStatus {
	status := &ReminderStatus{UserID: userID}

	schedule, err := s.scheduleRepo.FindByUserID(ctx, userID)
	if err != nil {
		return status
	}
	status.Enabled = schedule.Enabled
	status.Hour = schedule.Hour
	status.Minute = schedule.Minute

	s.mu.Lock()
	defer s.mu.Unlock()
	id, armed := s.recurring[userID]
	if !armed {
		return status
	}
	status.Scheduled = true
	status.NextRun = s.nextRunLocked(id, schedule.Hour, schedule.Minute)
	return status
}

// ScheduleTest arms a one-off digest job a short fixed delay from now.
func (s *schedulerService) ScheduleTest(ctx context.Context, target dto.TelegramRequest) (time.Time, error) {
	fireAt := s.now().In(reminderLocation).Add(testJobDelay)
	jobKey := uuid.NewString()

	jobFunc := func() {
		s.fireDaily("test_user", target.BotToken, target.ChatID)
		s.mu.Lock()
		id, tracked := s.testJobs[jobKey]
		delete(s.testJobs, jobKey)
		s.mu.Unlock()
		if tracked {
			s.cron.RemoveJob(id)
		}
	}

	entryID, err := s.cron.AddJob(formatOneShotSpec(fireAt), jobFunc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.mu.Lock()
	s.testJobs[jobKey] = entryID
	s.mu.Unlock()
	s.log.Info(fmt.Sprintf("Scheduled one-off test reminder at %v (Job ID: %d).", fireAt, entryID))
	return fireAt, nil
}

// SendDigest builds today's digest and dispatches it immediately.
func (s *schedulerService) SendDigest(ctx context.Context, target dto.TelegramRequest) (int, error) {
	today := s.now().In(reminderLocation)
	events, err := s.events.EventsForDate(ctx, today)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Failed to fetch today's events for digest, sending empty digest: %v", err))
		events = nil
	}

	message := formatDailySchedule(today, events)
	if err := s.dispatcher.SendMessage(ctx, target.BotToken, target.ChatID, message); err != nil {
		return 0, fmt.Errorf("%w: %v", appErrors.ErrDispatchFailed, err)
	}
	return len(events), nil
}

// TestConnection sends a fixed probe message synchronously.
func (s *schedulerService) TestConnection(ctx context.Context, target dto.TelegramRequest) error {
	if err := s.dispatcher.SendMessage(ctx, target.BotToken, target.ChatID, connectionTestMessage); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDispatchFailed, err)
	}
	return nil
}

// DigestForDate renders the digest for a given local day without sending it.
func (s *schedulerService) DigestForDate(ctx context.Context, date time.Time) (string, []entity.CalendarEvent, error) {
	events, err := s.events.EventsForDate(ctx, date)
	if err != nil {
		return "", nil, err
	}
	return formatDailySchedule(date.In(reminderLocation), events), events, nil
}

// InitializeSchedules arms every enabled persisted schedule on startup.
func (s *schedulerService) InitializeSchedules(ctx context.Context) error {
	schedules, err := s.scheduleRepo.FindEnabled(ctx)
	if err != nil {
		s.log.Error("Failed to load schedules for initialization", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	armed := 0
	for _, schedule := range schedules {
		if _, armErr := s.Rearm(ctx, schedule); armErr != nil {
			s.log.Error(fmt.Sprintf("Failed to arm reminder for user %s during init", schedule.UserID), armErr)
			continue
		}
		armed++
	}
	s.log.Info(fmt.Sprintf("Schedule initialization complete. Armed: %d of %d.", armed, len(schedules)))
	return nil
}

// Stop stops the underlying cron runner.
func (s *schedulerService) Stop() {
	s.cron.Stop()
}

// fireDaily runs one reminder occurrence: pull the day's events fresh from
// the provider, render the digest, dispatch it. A dispatch failure is logged
// and never unarms the next occurrence; the daily cadence self-heals.
func (s *schedulerService) fireDaily(userID, botToken, chatID string) {
	ctx := context.Background()
	today := s.now().In(reminderLocation)
	s.log.Info(fmt.Sprintf("Firing reminder for user %s at %v.", userID, today))

	events, err := s.events.EventsForDate(ctx, today)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Failed to fetch today's events for user %s, sending empty digest: %v", userID, err))
		events = nil
	}

	message := formatDailySchedule(today, events)
	if err := s.dispatcher.SendMessage(ctx, botToken, chatID, message); err != nil {
		s.log.Error(fmt.Sprintf("%v for user %s", appErrors.ErrDispatchFailed, userID), err)
		return
	}
	s.log.Info(fmt.Sprintf("Reminder dispatched to user %s with %d event(s).", userID, len(events)))
}

// nextRunLocked resolves the next fire instant for an armed entry. Callers
// hold s.mu. Falls back to wall-clock computation when the runner has no
// entry snapshot (e.g. immediately after arming).
func (s *schedulerService) nextRunLocked(id cron.EntryID, hour, minute int) time.Time {
	if next := s.cron.Entry(id).Next; !next.IsZero() {
		return next
	}
	return nextFireTime(s.now(), hour, minute, reminderLocation)
}

// formatOneShotSpec generates a seconds-precision cron spec for a specific time.
func formatOneShotSpec(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), int(t.Month()))
}

// formatDailySchedule renders the digest for one local day.
func formatDailySchedule(day time.Time, events []entity.CalendarEvent) string {
	today := day.Format("Monday, January 2, 2006")
	if len(events) == 0 {
		return fmt.Sprintf("📅 **Schedule for %s**\n\n🎉 No events scheduled for today! Enjoy your free day.", today)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Your Schedule for %s**\n\n", today)
	for _, event := range events {
		title := event.Summary
		if title == "" {
			title = "Untitled Event"
		}
		switch {
		case event.Start.AllDay():
			fmt.Fprintf(&b, "🗓️ **%s** (All day)\n", title)
		case event.Start.DateTime != nil:
			fmt.Fprintf(&b, "⏰ **%s** - %s\n", event.Start.DateTime.In(reminderLocation).Format("03:04 PM"), title)
		}
		if event.Location != "" {
			fmt.Fprintf(&b, "   📍 %s\n", event.Location)
		}
		b.WriteString("\n")
	}
	b.WriteString("Have a great day! 🌟")
	return b.String()
}
