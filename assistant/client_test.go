package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripsage/config"
)

func testClient(url string) *Client {
	return NewClient(&config.Config{AIAPIURL: url, AIAPIKey: "test-key"})
}

func TestCompleteSendsSystemPromptFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer key, got %q", got)
		}
		var body struct {
			Messages []ProviderMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(body.Messages))
		}
		if body.Messages[0].Role != "system" {
			t.Errorf("first message should be system, got %q", body.Messages[0].Role)
		}
		if body.Messages[1].Content != "plan me a weekend in Porto" {
			t.Errorf("unexpected user content %q", body.Messages[1].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Day 1: Ribeira..."}}]}`))
	}))
	defer srv.Close()

	reply, err := testClient(srv.URL).Complete(context.Background(), []ProviderMessage{
		{Role: "user", Content: "plan me a weekend in Porto"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Day 1: Ribeira..." {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestCompleteProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error on provider 503")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestCompleteNotConfigured(t *testing.T) {
	c := NewClient(&config.Config{})
	if c.Enabled() {
		t.Fatal("client without keys should be disabled")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := c.Complete(ctx, nil); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}
