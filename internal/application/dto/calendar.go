package dto

import (
	"time"

	"calreminder/internal/domain/entity"
)

// EventTimePayload mirrors the provider's start/end shape: exactly one of
// DateTime or Date is set.
type EventTimePayload struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// EventResponse is the DTO for returning one calendar event to the client.
type EventResponse struct {
	ID          string           `json:"id"`
	Summary     string           `json:"summary"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Start       EventTimePayload `json:"start"`
	End         EventTimePayload `json:"end"`
}

// ToEventResponse converts an entity.CalendarEvent to an EventResponse DTO.
func ToEventResponse(e *entity.CalendarEvent) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       toEventTimePayload(e.Start),
		End:         toEventTimePayload(e.End),
	}
}

// ToEventResponseList converts a slice of events to EventResponse DTOs.
func ToEventResponseList(events []entity.CalendarEvent) []EventResponse {
	list := make([]EventResponse, len(events))
	for i := range events {
		list[i] = ToEventResponse(&events[i])
	}
	return list
}

func toEventTimePayload(t entity.EventTime) EventTimePayload {
	if t.AllDay() {
		return EventTimePayload{Date: t.Date}
	}
	if t.DateTime != nil {
		return EventTimePayload{DateTime: t.DateTime.Format(time.RFC3339)}
	}
	return EventTimePayload{}
}

// CreateEventRequest is the DTO for creating a new calendar event.
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Timezone    string   `json:"timezone,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// ToDraft converts the request to the provider-bound draft shape.
func (r CreateEventRequest) ToDraft() entity.EventDraft {
	return entity.EventDraft{
		Title:       r.Title,
		Start:       r.Start,
		End:         r.End,
		Timezone:    r.Timezone,
		Description: r.Description,
		Location:    r.Location,
		Attendees:   r.Attendees,
	}
}

// AuthStatusResponse reports whether the session is signed in.
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}
