package scheduler

import (
	"fmt"
	"sync"
	"time"

	"calreminder/internal/domain/constant"
	"calreminder/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron jobs in the reminder timezone.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
	mu   sync.Mutex // To protect access to job management
}

var (
	schedulerInstance *Scheduler
	once              sync.Once
)

// NewScheduler creates a new singleton instance of the cron scheduler.
// Specs are evaluated in the reminder timezone, the same location the
// application layer computes next-fire times in, so recurring jobs track
// local wall-clock time across DST transitions.
func NewScheduler(log logger.Logger) *Scheduler {
	once.Do(func() {
		loc := constant.ReminderLocation()

		c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
		c.Start()
		log.Info(fmt.Sprintf("Cron scheduler started in timezone %s.", loc))
		schedulerInstance = &Scheduler{
			cron: c,
			log:  log,
		}
	})
	return schedulerInstance
}

// AddJob adds a new job to the scheduler.
// spec follows the seconds-precision cron format (e.g., "0 30 9 * * *").
// Returns the EntryID of the added job and an error if any.
func (s *Scheduler) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, cmd)
	if err != nil {
		s.log.Error("🔴 ERROR: Failed to add cron job", err)
		return 0, fmt.Errorf("failed to add cron job: %w", err)
	}
	s.log.Info(fmt.Sprintf("Added cron job with ID %d, spec: %s", id, spec))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Info(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Location returns the timezone cron specs are evaluated in.
func (s *Scheduler) Location() *time.Location {
	return s.cron.Location()
}

// Entry returns the scheduled entry for the given ID. The zero Entry is
// returned if the job is no longer registered.
func (s *Scheduler) Entry(id cron.EntryID) cron.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entry(id)
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info("Cron scheduler stopped.")
	}
}
