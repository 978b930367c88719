package service

import (
	"context"
	"time"

	"calreminder/internal/domain/entity"
)

// CalendarProvider abstracts the external calendar source.
type CalendarProvider interface {
	// ListEvents returns the events overlapping [start, end).
	ListEvents(ctx context.Context, start, end time.Time) ([]entity.CalendarEvent, error)
	// CreateEvent creates one event atomically and returns the provider's view of it.
	CreateEvent(ctx context.Context, draft entity.EventDraft) (*entity.CalendarEvent, error)
}

// CalendarService owns the per-month event cache and all provider reads/writes.
type CalendarService interface {
	// Read returns the bucket's current contents, or an empty slice if the
	// bucket was never populated. Never calls the provider.
	Read(year int, month time.Month) []entity.CalendarEvent
	// Ensure populates the bucket only if absent. Concurrent calls for the
	// same bucket coalesce into a single provider fetch.
	Ensure(ctx context.Context, year int, month time.Month) error
	// Refresh unconditionally re-fetches and atomically replaces the bucket.
	// On failure the previous contents are kept.
	Refresh(ctx context.Context, year int, month time.Month) error
	// MonthEvents is Ensure followed by Read.
	MonthEvents(ctx context.Context, year int, month time.Month) ([]entity.CalendarEvent, error)
	// CreateEvent creates one event and refreshes the affected bucket(s).
	CreateEvent(ctx context.Context, draft entity.EventDraft) (*entity.CalendarEvent, error)
	// EventsForDate pulls the given local day's events straight from the
	// provider, bypassing the cache.
	EventsForDate(ctx context.Context, date time.Time) ([]entity.CalendarEvent, error)
	// InvalidateAll drops every cached bucket.
	InvalidateAll()
}
