package service

import (
	"context"

	"calreminder/internal/domain/entity"
)

// Extractor abstracts the external text-to-events extraction collaborator.
// A call fails as a whole; partial candidate lists are never returned.
type Extractor interface {
	Extract(ctx context.Context, text, apiKey string) ([]entity.EventDraft, error)
}

// CandidateOutcome records one candidate's creation attempt. Exactly one of
// Created or Err is set.
type CandidateOutcome struct {
	Candidate entity.EventDraft
	Created   *entity.CalendarEvent
	Err       error
}

// ExtractionResult aggregates per-candidate outcomes in input order.
type ExtractionResult struct {
	Outcomes []CandidateOutcome
}

// CreatedCount returns the number of successfully created candidates.
func (r *ExtractionResult) CreatedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// FailedCount returns the number of rejected candidates.
func (r *ExtractionResult) FailedCount() int {
	return len(r.Outcomes) - r.CreatedCount()
}

// ExtractionService converts free text into provider events.
type ExtractionService interface {
	// ParseAndCreate extracts candidates from text and attempts each creation
	// independently. It does not touch the event cache; callers refresh the
	// affected buckets when at least one candidate succeeded.
	ParseAndCreate(ctx context.Context, text, apiKey string) (*ExtractionResult, error)
}
