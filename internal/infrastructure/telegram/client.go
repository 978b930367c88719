package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"calreminder/internal/pkg/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client sends messages through the Telegram Bot API. Bot tokens arrive per
// delivery target, so a single client serves every user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logger.Logger
}

// NewClient creates a new Telegram client.
func NewClient(log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		log:        log,
	}
}

// NewClientWithBaseURL creates a client against a non-default API endpoint.
func NewClientWithBaseURL(baseURL string, log logger.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// SendMessage sends a text message to the given chat.
func (c *Client) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	if botToken == "" || chatID == "" {
		return fmt.Errorf("bot token and chat ID are required")
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode message payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(body))
	}

	c.log.Debug("Successfully sent Telegram message.")
	return nil
}
