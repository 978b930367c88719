package service

import (
	"context"

	"calreminder/internal/domain/constant"
)

// TokenManager abstracts the provider credential store consumed by AuthService.
type TokenManager interface {
	// AuthURL returns the consent URL that starts the sign-in flow.
	AuthURL(state string) string
	// Exchange trades a callback code for persisted credentials.
	Exchange(ctx context.Context, code string) error
	// Valid reports whether usable credentials exist. A clean "no" is not an error.
	Valid(ctx context.Context) (bool, error)
	// Clear removes persisted credentials. Idempotent.
	Clear() error
}

// AuthService defines the interface for the provider session state machine.
type AuthService interface {
	// AuthURL returns the consent URL that begins sign-in.
	AuthURL() string
	// CompleteSignIn finishes the sign-in flow with the provider callback code.
	CompleteSignIn(ctx context.Context, code string) error
	// Probe checks the session against the credential store and transitions
	// the state machine accordingly.
	Probe(ctx context.Context) (bool, error)
	// State returns the current session state.
	State() constant.AuthState
	// RequireSignedIn probes and returns ErrNotAuthenticated unless signed in.
	RequireSignedIn(ctx context.Context) error
	// SignOut clears credentials and fires the sign-out hook. Idempotent.
	SignOut(ctx context.Context) error
	// SetSignOutHook registers a callback run on every sign-out, used to
	// invalidate state that is no longer trustworthy for the identity.
	SetSignOutHook(hook func())
}
