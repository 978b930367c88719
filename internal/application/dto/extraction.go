package dto

import "calreminder/internal/domain/entity"

// ParseTextRequest is the DTO for the text-to-events endpoint.
type ParseTextRequest struct {
	Text         string `json:"text"`
	OpenAIAPIKey string `json:"openai_api_key"`
}

// CandidatePayload describes one extracted candidate event as requested.
type CandidatePayload struct {
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Timezone    string   `json:"timezone,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// ToCandidatePayload converts a draft back to its request shape.
func ToCandidatePayload(d entity.EventDraft) CandidatePayload {
	return CandidatePayload{
		Title:       d.Title,
		Start:       d.Start,
		End:         d.End,
		Timezone:    d.Timezone,
		Description: d.Description,
		Location:    d.Location,
		Attendees:   d.Attendees,
	}
}

// CreatedEventPayload is one successfully created candidate.
type CreatedEventPayload struct {
	Event   CandidatePayload `json:"event"`
	Created EventResponse    `json:"created"`
}

// FailedEventPayload is one rejected candidate with its reason.
type FailedEventPayload struct {
	Event CandidatePayload `json:"event"`
	Error string           `json:"error"`
}

// ParseTextResponse is the aggregate result of one text submission.
type ParseTextResponse struct {
	Message       string                `json:"message"`
	EventsCreated int                   `json:"events_created"`
	EventsFailed  int                   `json:"events_failed"`
	CreatedEvents []CreatedEventPayload `json:"created_events"`
	FailedEvents  []FailedEventPayload  `json:"failed_events"`
	ParsedText    string                `json:"parsed_text"`
}
