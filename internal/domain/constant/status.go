package constant

// AuthState tracks where the calendar provider session is in its lifecycle.
type AuthState int

const (
	// StateSignedOut represents a session with no valid provider credentials.
	StateSignedOut AuthState = iota
	// StateChecking represents a session whose status probe is in flight.
	StateChecking
	// StateSignedIn represents a session confirmed by the provider.
	StateSignedIn
	// StateAuthError represents a session whose last status probe failed.
	StateAuthError
)

func (s AuthState) String() string {
	switch s {
	case StateSignedOut:
		return "signed_out"
	case StateChecking:
		return "checking"
	case StateSignedIn:
		return "signed_in"
	case StateAuthError:
		return "error"
	default:
		return "unknown"
	}
}
