package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"calreminder/internal/domain/entity"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"

	"golang.org/x/sync/singleflight"
)

type bucketKey struct {
	Year  int
	Month time.Month
}

func (k bucketKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

type calendarService struct {
	provider CalendarProvider
	log      logger.Logger
	mu       sync.RWMutex
	buckets  map[bucketKey][]entity.CalendarEvent
	fills    singleflight.Group
}

// NewCalendarService creates a new instance of CalendarService implementation.
func NewCalendarService(provider CalendarProvider, log logger.Logger) CalendarService {
	return &calendarService{
		provider: provider,
		log:      log,
		buckets:  make(map[bucketKey][]entity.CalendarEvent),
	}
}

// Read returns the bucket's current contents without touching the provider.
func (s *calendarService) Read(year int, month time.Month) []entity.CalendarEvent {
	key := bucketKey{Year: year, Month: month}
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[key]
	if !ok {
		return []entity.CalendarEvent{}
	}
	out := make([]entity.CalendarEvent, len(bucket))
	copy(out, bucket)
	return out
}

// Ensure populates the bucket only if absent. Concurrent callers for the same
// bucket share a single in-flight fetch.
func (s *calendarService) Ensure(ctx context.Context, year int, month time.Month) error {
	key := bucketKey{Year: year, Month: month}
	s.mu.RLock()
	_, populated := s.buckets[key]
	s.mu.RUnlock()
	if populated {
		return nil
	}

	_, err, _ := s.fills.Do(key.String(), func() (interface{}, error) {
		// A concurrent fill may have landed while this call queued.
		s.mu.RLock()
		_, populated := s.buckets[key]
		s.mu.RUnlock()
		if populated {
			return nil, nil
		}
		return nil, s.fetchAndReplace(ctx, key)
	})
	return err
}

// Refresh unconditionally re-fetches and replaces the bucket.
func (s *calendarService) Refresh(ctx context.Context, year int, month time.Month) error {
	return s.fetchAndReplace(ctx, bucketKey{Year: year, Month: month})
}

// MonthEvents is Ensure followed by Read.
func (s *calendarService) MonthEvents(ctx context.Context, year int, month time.Month) ([]entity.CalendarEvent, error) {
	if err := s.Ensure(ctx, year, month); err != nil {
		return nil, err
	}
	return s.Read(year, month), nil
}

// CreateEvent creates one event against the provider, then refreshes the
// bucket(s) the created event lands in so reads reflect provider truth.
func (s *calendarService) CreateEvent(ctx context.Context, draft entity.EventDraft) (*entity.CalendarEvent, error) {
	created, err := s.provider.CreateEvent(ctx, draft)
	if err != nil {
		return nil, err
	}

	for _, key := range affectedBuckets(created) {
		if refreshErr := s.Refresh(ctx, key.Year, key.Month); refreshErr != nil {
			s.log.Warn(fmt.Sprintf("Failed to refresh bucket %s after event creation: %v", key, refreshErr))
		}
	}
	return created, nil
}

// EventsForDate pulls the given local day's events from the provider,
// bypassing the cache, and filters out neighbors leaking across the day
// boundary.
func (s *calendarService) EventsForDate(ctx context.Context, date time.Time) ([]entity.CalendarEvent, error) {
	local := date.In(reminderLocation)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, reminderLocation)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	events, err := s.provider.ListEvents(ctx, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrFetchFailed, err)
	}

	dateStr := startOfDay.Format("2006-01-02")
	dayEvents := make([]entity.CalendarEvent, 0, len(events))
	for _, event := range events {
		if event.Start.AllDay() {
			if event.Start.Date == dateStr {
				dayEvents = append(dayEvents, event)
			}
			continue
		}
		if event.Start.DateTime != nil && event.Start.DateTime.In(reminderLocation).Format("2006-01-02") == dateStr {
			dayEvents = append(dayEvents, event)
		}
	}
	return dayEvents, nil
}

// InvalidateAll drops every cached bucket.
func (s *calendarService) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[bucketKey][]entity.CalendarEvent)
	s.log.Info("Calendar event cache invalidated.")
}

// fetchAndReplace fetches the bucket's month from the provider and replaces
// the bucket wholesale. On failure the previous contents are left intact.
func (s *calendarService) fetchAndReplace(ctx context.Context, key bucketKey) error {
	start := time.Date(key.Year, key.Month, 1, 0, 0, 0, 0, reminderLocation)
	end := start.AddDate(0, 1, 0)

	events, err := s.provider.ListEvents(ctx, start, end)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrFetchFailed, err)
	}

	s.mu.Lock()
	s.buckets[key] = events
	s.mu.Unlock()
	s.log.Debug(fmt.Sprintf("Bucket %s replaced with %d event(s).", key, len(events)))
	return nil
}

// affectedBuckets returns the bucket keys a created event belongs to.
func affectedBuckets(event *entity.CalendarEvent) []bucketKey {
	keys := make([]bucketKey, 0, 2)
	add := func(t entity.EventTime) {
		var key bucketKey
		switch {
		case t.DateTime != nil:
			local := t.DateTime.In(reminderLocation)
			key = bucketKey{Year: local.Year(), Month: local.Month()}
		case t.AllDay():
			if parsed, err := time.ParseInLocation("2006-01-02", t.Date, reminderLocation); err == nil {
				key = bucketKey{Year: parsed.Year(), Month: parsed.Month()}
			}
		}
		if key == (bucketKey{}) {
			return
		}
		for _, existing := range keys {
			if existing == key {
				return
			}
		}
		keys = append(keys, key)
	}
	add(event.Start)
	add(event.End)
	return keys
}
