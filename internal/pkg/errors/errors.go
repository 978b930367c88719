package errors

import "errors"

// Custom application errors
var (
	ErrNotAuthenticated  = errors.New("user not authenticated with the calendar provider") // Operation attempted outside the signed-in state
	ErrFetchFailed       = errors.New("failed to fetch events from the calendar provider") // Provider read error; cached events are kept
	ErrExtractionFailed  = errors.New("failed to extract events from text")                // Extraction collaborator error; no provider writes attempted
	ErrInvalidSchedule   = errors.New("invalid reminder schedule")                         // Validation rejection; nothing is persisted
	ErrScheduleNotFound  = errors.New("reminder schedule not found")                       // No persisted schedule for the user
	ErrDispatchFailed    = errors.New("failed to dispatch message")                        // Messaging collaborator error
	ErrDatabaseOperation = errors.New("database operation failed")                         // Generic database error
	ErrScheduling        = errors.New("failed to schedule job")                            // Generic cron scheduling error
	ErrInternalServer    = errors.New("internal server error")                             // Generic internal error
)
