package service

import (
	"context"
	"fmt"
	"sync"

	"calreminder/internal/domain/constant"
	appErrors "calreminder/internal/pkg/errors"
	"calreminder/internal/pkg/logger"
)

type authService struct {
	tokens      TokenManager
	log         logger.Logger
	mu          sync.Mutex
	state       constant.AuthState
	lastErr     error
	signOutHook func()
}

// NewAuthService creates a new instance of AuthService implementation.
// Sessions start signed out.
func NewAuthService(tokens TokenManager, log logger.Logger) AuthService {
	return &authService{
		tokens: tokens,
		log:    log,
		state:  constant.StateSignedOut,
	}
}

// AuthURL returns the consent URL that begins sign-in.
func (s *authService) AuthURL() string {
	return s.tokens.AuthURL("state-token")
}

// CompleteSignIn finishes the sign-in flow with the provider callback code.
func (s *authService) CompleteSignIn(ctx context.Context, code string) error {
	if err := s.tokens.Exchange(ctx, code); err != nil {
		s.setState(constant.StateAuthError, err)
		return fmt.Errorf("%w: %v", appErrors.ErrNotAuthenticated, err)
	}
	s.setState(constant.StateSignedIn, nil)
	s.log.Info("Sign-in completed, session is now signed in.")
	return nil
}

// Probe checks the session against the credential store.
func (s *authService) Probe(ctx context.Context) (bool, error) {
	s.setState(constant.StateChecking, nil)

	ok, err := s.tokens.Valid(ctx)
	if err != nil {
		s.setState(constant.StateAuthError, err)
		s.log.Error("Session status probe failed", err)
		return false, fmt.Errorf("%w: %v", appErrors.ErrNotAuthenticated, err)
	}
	if !ok {
		s.setState(constant.StateSignedOut, nil)
		return false, nil
	}
	s.setState(constant.StateSignedIn, nil)
	return true, nil
}

// State returns the current session state.
func (s *authService) State() constant.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RequireSignedIn probes and rejects callers outside the signed-in state.
func (s *authService) RequireSignedIn(ctx context.Context) error {
	ok, err := s.Probe(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.ErrNotAuthenticated
	}
	return nil
}

// SignOut clears credentials and fires the sign-out hook. Idempotent.
func (s *authService) SignOut(ctx context.Context) error {
	if err := s.tokens.Clear(); err != nil {
		s.log.Error("Failed to clear credentials during sign-out", err)
		return fmt.Errorf("%w: %v", appErrors.ErrInternalServer, err)
	}
	s.setState(constant.StateSignedOut, nil)

	s.mu.Lock()
	hook := s.signOutHook
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	s.log.Info("Signed out; cached provider state invalidated.")
	return nil
}

// SetSignOutHook registers a callback run on every sign-out.
// This is called during dependency injection setup to break the cycle with
// the calendar cache.
func (s *authService) SetSignOutHook(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOutHook = hook
}

func (s *authService) setState(state constant.AuthState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.lastErr = err
}
