package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Error(string, error) {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Info(string)         {}
func (nopLogger) Debug(string)        {}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, nopLogger{})
	if err := client.SendMessage(context.Background(), "123:abc", "42", "hello"); err != nil {
		t.Fatalf("send message: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody["chat_id"] != "42" || gotBody["text"] != "hello" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, nopLogger{})
	err := client.SendMessage(context.Background(), "bad-token", "42", "hello")
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("error should carry the status code, got %v", err)
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Fatalf("error should carry the response body, got %v", err)
	}
}

func TestSendMessageRequiresTarget(t *testing.T) {
	client := NewClient(nopLogger{})
	if err := client.SendMessage(context.Background(), "", "42", "hello"); err == nil {
		t.Fatal("expected an error for a missing bot token")
	}
	if err := client.SendMessage(context.Background(), "123:abc", "", "hello"); err == nil {
		t.Fatal("expected an error for a missing chat ID")
	}
}
