package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"calreminder/internal/pkg/logger"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
)

// OAuth manages the Google OAuth flow and the persisted token file.
type OAuth struct {
	config    *oauth2.Config
	tokenFile string
	log       logger.Logger
	mu        sync.Mutex // serializes token file access
}

var (
	oauthInstance *OAuth
	once          sync.Once
)

// NewOAuth creates a new singleton OAuth manager.
// It reads credentials from environment variables.
func NewOAuth(log logger.Logger) *OAuth {
	once.Do(func() {
		clientID := os.Getenv("GOOGLE_CLIENT_ID")
		clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
		if clientID == "" || clientSecret == "" {
			log.Error("🔴 ERROR: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables must be set", nil)
			os.Exit(1)
		}

		redirectURI := os.Getenv("GOOGLE_REDIRECT_URI")
		if redirectURI == "" {
			redirectURI = "http://localhost:8080/auth/callback"
		}
		tokenFile := os.Getenv("GOOGLE_TOKEN_FILE")
		if tokenFile == "" {
			tokenFile = "calendar_token.json"
		}

		oauthInstance = &OAuth{
			config: &oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURI,
				Scopes:       []string{calendar.CalendarScope},
				Endpoint:     googleoauth.Endpoint,
			},
			tokenFile: tokenFile,
			log:       log,
		}
		log.Info("Google OAuth manager initialized.")
	})
	return oauthInstance
}

// AuthURL returns the provider consent URL that starts the sign-in flow.
func (o *OAuth) AuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for a token and persists it.
func (o *OAuth) Exchange(ctx context.Context, code string) error {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return o.saveToken(token)
}

// Token returns a valid token, refreshing and re-persisting it when expired.
func (o *OAuth) Token(ctx context.Context) (*oauth2.Token, error) {
	stored, err := o.loadToken()
	if err != nil {
		return nil, err
	}
	if stored.Valid() {
		return stored, nil
	}

	refreshed, err := o.config.TokenSource(ctx, stored).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if err := o.saveToken(refreshed); err != nil {
		o.log.Warn(fmt.Sprintf("Failed to persist refreshed token: %v", err))
	}
	return refreshed, nil
}

// Valid reports whether a usable token exists. A missing token file means
// not authenticated; any other failure is a probe error.
func (o *OAuth) Valid(ctx context.Context) (bool, error) {
	o.mu.Lock()
	_, statErr := os.Stat(o.tokenFile)
	o.mu.Unlock()
	if os.IsNotExist(statErr) {
		return false, nil
	}
	if statErr != nil {
		return false, fmt.Errorf("failed to stat token file: %w", statErr)
	}

	if _, err := o.Token(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the persisted token. Idempotent.
func (o *OAuth) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := os.Remove(o.tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// TokenSource returns a self-refreshing source for API clients.
func (o *OAuth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := o.Token(ctx)
	if err != nil {
		return nil, err
	}
	return o.config.TokenSource(ctx, token), nil
}

func (o *OAuth) loadToken() (*oauth2.Token, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, err := os.ReadFile(o.tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return &token, nil
}

func (o *OAuth) saveToken(token *oauth2.Token) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(o.tokenFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
