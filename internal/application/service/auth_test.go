package service

import (
	"context"
	"errors"
	"testing"

	"calreminder/internal/domain/constant"
	appErrors "calreminder/internal/pkg/errors"
)

func TestSessionStartsSignedOut(t *testing.T) {
	svc := NewAuthService(&fakeTokens{}, nopLogger{})
	if got := svc.State(); got != constant.StateSignedOut {
		t.Fatalf("initial state = %v, want SignedOut", got)
	}
}

func TestProbeTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials sign the session in", func(t *testing.T) {
		svc := NewAuthService(&fakeTokens{valid: true}, nopLogger{})
		ok, err := svc.Probe(ctx)
		if err != nil || !ok {
			t.Fatalf("probe = %v, %v; want true, nil", ok, err)
		}
		if got := svc.State(); got != constant.StateSignedIn {
			t.Fatalf("state = %v, want SignedIn", got)
		}
	})

	t.Run("missing credentials are a clean signed-out, not an error", func(t *testing.T) {
		svc := NewAuthService(&fakeTokens{valid: false}, nopLogger{})
		ok, err := svc.Probe(ctx)
		if err != nil {
			t.Fatalf("probe err = %v, want nil", err)
		}
		if ok {
			t.Fatal("probe = true, want false")
		}
		if got := svc.State(); got != constant.StateSignedOut {
			t.Fatalf("state = %v, want SignedOut", got)
		}
	})

	t.Run("probe failure lands in the error state", func(t *testing.T) {
		svc := NewAuthService(&fakeTokens{validErr: errors.New("store unreadable")}, nopLogger{})
		_, err := svc.Probe(ctx)
		if !errors.Is(err, appErrors.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if got := svc.State(); got != constant.StateAuthError {
			t.Fatalf("state = %v, want AuthError", got)
		}
	})
}

func TestCompleteSignIn(t *testing.T) {
	ctx := context.Background()

	svc := NewAuthService(&fakeTokens{}, nopLogger{})
	if err := svc.CompleteSignIn(ctx, "code"); err != nil {
		t.Fatalf("complete sign-in: %v", err)
	}
	if got := svc.State(); got != constant.StateSignedIn {
		t.Fatalf("state = %v, want SignedIn", got)
	}

	failing := NewAuthService(&fakeTokens{exchangeErr: errors.New("bad code")}, nopLogger{})
	if err := failing.CompleteSignIn(ctx, "code"); !errors.Is(err, appErrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := failing.State(); got != constant.StateAuthError {
		t.Fatalf("state = %v, want AuthError", got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	ctx := context.Background()

	signedOut := NewAuthService(&fakeTokens{valid: false}, nopLogger{})
	if err := signedOut.RequireSignedIn(ctx); !errors.Is(err, appErrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	signedIn := NewAuthService(&fakeTokens{valid: true}, nopLogger{})
	if err := signedIn.RequireSignedIn(ctx); err != nil {
		t.Fatalf("expected nil for a signed-in session, got %v", err)
	}
}

func TestSignOutClearsCredentialsAndFiresHook(t *testing.T) {
	ctx := context.Background()
	tokens := &fakeTokens{valid: true}
	svc := NewAuthService(tokens, nopLogger{})

	hookFired := 0
	svc.SetSignOutHook(func() { hookFired++ })

	if _, err := svc.Probe(ctx); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if tokens.clearCalls != 1 {
		t.Fatalf("clear called %d time(s), want 1", tokens.clearCalls)
	}
	if hookFired != 1 {
		t.Fatalf("hook fired %d time(s), want 1", hookFired)
	}
	if got := svc.State(); got != constant.StateSignedOut {
		t.Fatalf("state = %v, want SignedOut", got)
	}

	// Signing out twice is harmless.
	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("second sign out: %v", err)
	}
	if hookFired != 2 {
		t.Fatalf("hook fired %d time(s) after second sign-out, want 2", hookFired)
	}
}
