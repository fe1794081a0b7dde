package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func completionResponse(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	opts = append(opts, WithSleeper(func(time.Duration) {}))
	client, err := NewClient(Config{APIKey: "test", BaseURL: url, Model: "demo-model", MaxAttempts: 3}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestCompleteReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "demo-model" {
			t.Fatalf("unexpected model %q", body.Model)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("hello from model"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := client.Complete(context.Background(), Request{System: "sys", User: "user"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "hello from model" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestCompletePerCallModelOverride(t *testing.T) {
	var gotModel atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel.Store(body.Model)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Complete(context.Background(), Request{Model: "code-model", User: "u"}); err != nil {
		t.Fatal(err)
	}
	if gotModel.Load() != "code-model" {
		t.Fatalf("expected per-call model override, got %v", gotModel.Load())
	}
}

func TestCompleteRetriesWithBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("recovered"))
	}))
	defer server.Close()

	var delays []time.Duration
	client, err := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo", MaxAttempts: 3},
		WithRetryBackoff(time.Second),
		WithSleeper(func(d time.Duration) { delays = append(delays, d) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := client.Complete(context.Background(), Request{User: "u"})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("unexpected content: %q", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("expected doubling delays, got %v", delays)
	}
}

func TestCompleteFailsAfterExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Complete(context.Background(), Request{User: "u"}); err == nil {
		t.Fatal("expected failure after retries")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Complete(context.Background(), Request{User: "u"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient(Config{Model: "m"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error without model")
	}
}
