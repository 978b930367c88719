package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"calreminder/internal/domain/entity"
	"calreminder/internal/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You convert free-form text into calendar events. Respond with a JSON object
of the form {"events": [...]} where each event has the fields: title, start, end,
timezone, and optionally description, location, attendees. start and end are ISO 8601
datetimes; timezone is an IANA name.

Rules:
1. If no year is mentioned, assume the current year.
2. If no time is mentioned, assume a 1-hour duration starting at a reasonable time.
3. Use "America/New_York" timezone unless explicitly specified otherwise.
4. Extract location only if explicitly mentioned in the text.
5. Extract attendees only if email addresses are provided.
6. Make reasonable assumptions for missing information.
7. Resolve relative dates like "tomorrow" against the current date given below.
8. If multiple events are mentioned, include all of them.
9. Be conservative - only create events that are clearly intended as calendar events.
10. If the text contains no events, return {"events": []}.`

// Extractor converts unstructured text into candidate calendar events using
// an OpenAI chat completion.
type Extractor struct {
	model string
	log   logger.Logger
}

// NewExtractor creates a new extractor. The model is taken from OPENAI_MODEL
// when set.
func NewExtractor(log logger.Logger) *Extractor {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4o
	}
	return &Extractor{model: model, log: log}
}

type extractionPayload struct {
	Events []candidatePayload `json:"events"`
}

type candidatePayload struct {
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Timezone    string   `json:"timezone"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// Extract submits the text and returns zero or more candidate events.
// The whole call fails as a unit; partial results are never returned.
func (e *Extractor) Extract(ctx context.Context, text, apiKey string) ([]entity.EventDraft, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	client := openai.NewClient(apiKey)
	now := time.Now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Current date context: Today is %s.\n\nTEXT TO PARSE: %s",
					now.Format("Monday, January 2, 2006"), text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}

	drafts := make([]entity.EventDraft, 0, len(payload.Events))
	for _, ev := range payload.Events {
		drafts = append(drafts, entity.EventDraft{
			Title:       ev.Title,
			Start:       ev.Start,
			End:         ev.End,
			Timezone:    ev.Timezone,
			Description: ev.Description,
			Location:    ev.Location,
			Attendees:   ev.Attendees,
		})
	}
	e.log.Debug(fmt.Sprintf("Extractor produced %d candidate event(s).", len(drafts)))
	return drafts, nil
}
