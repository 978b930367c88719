package google

import (
	"context"
	"fmt"
	"time"

	"calreminder/internal/domain/entity"
	"calreminder/internal/pkg/logger"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const calendarID = "primary"

// CalendarClient talks to the Google Calendar API for the signed-in identity.
type CalendarClient struct {
	oauth *OAuth
	log   logger.Logger
}

// NewCalendarClient creates a new calendar provider client.
func NewCalendarClient(oauth *OAuth, log logger.Logger) *CalendarClient {
	return &CalendarClient{oauth: oauth, log: log}
}

func (c *CalendarClient) service(ctx context.Context) (*calendar.Service, error) {
	source, err := c.oauth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// ListEvents returns the events overlapping [start, end), expanded to single
// occurrences and ordered by start time.
func (c *CalendarClient) ListEvents(ctx context.Context, start, end time.Time) ([]entity.CalendarEvent, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	result, err := svc.Events.List(calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		MaxResults(2500).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]entity.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, fromProviderEvent(item))
	}
	return events, nil
}

// CreateEvent creates one event and returns the provider's view of it.
func (c *CalendarClient) CreateEvent(ctx context.Context, draft entity.EventDraft) (*entity.CalendarEvent, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	tz := draft.Timezone
	if tz == "" {
		tz = "UTC"
	}
	event := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		Start:       &calendar.EventDateTime{DateTime: draft.Start, TimeZone: tz},
		End:         &calendar.EventDateTime{DateTime: draft.End, TimeZone: tz},
	}
	for _, email := range draft.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	converted := fromProviderEvent(created)
	return &converted, nil
}

func fromProviderEvent(item *calendar.Event) entity.CalendarEvent {
	return entity.CalendarEvent{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		Start:       fromProviderTime(item.Start),
		End:         fromProviderTime(item.End),
	}
}

func fromProviderTime(edt *calendar.EventDateTime) entity.EventTime {
	if edt == nil {
		return entity.EventTime{}
	}
	if edt.Date != "" {
		return entity.EventTime{Date: edt.Date}
	}
	if parsed, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
		return entity.EventTime{DateTime: &parsed}
	}
	return entity.EventTime{}
}
