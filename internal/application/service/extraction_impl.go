package service

import (
	"context"
	"fmt"

	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"
)

type extractionService struct {
	extractor Extractor
	provider  CalendarProvider
	log       logger.Logger
}

// NewExtractionService creates a new instance of ExtractionService implementation.
func NewExtractionService(extractor Extractor, provider CalendarProvider, log logger.Logger) ExtractionService {
	return &extractionService{
		extractor: extractor,
		provider:  provider,
		log:       log,
	}
}

// ParseAndCreate extracts candidates and attempts each creation independently.
// One candidate's rejection never aborts its siblings, and outcomes are
// reported in candidate order.
func (s *extractionService) ParseAndCreate(ctx context.Context, text, apiKey string) (*ExtractionResult, error) {
	candidates, err := s.extractor.Extract(ctx, text, apiKey)
	if err != nil {
		s.log.Error("Extraction collaborator call failed", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrExtractionFailed, err)
	}

	result := &ExtractionResult{Outcomes: make([]CandidateOutcome, len(candidates))}
	for i, candidate := range candidates {
		created, createErr := s.provider.CreateEvent(ctx, candidate)
		result.Outcomes[i] = CandidateOutcome{
			Candidate: candidate,
			Created:   created,
			Err:       createErr,
		}
		if createErr != nil {
			s.log.Warn(fmt.Sprintf("Candidate %q rejected by provider: %v", candidate.Title, createErr))
		}
	}

	s.log.Info(fmt.Sprintf("Extraction pipeline finished: %d created, %d failed of %d candidate(s).",
		result.CreatedCount(), result.FailedCount(), len(candidates)))
	return result, nil
}
