package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestChatGPT(url string) *ChatGPT {
	return &ChatGPT{
		APIKey:      "test-key",
		URL:         url,
		Model:       "gpt-4o-2024-08-06",
		Temperature: 0,
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestChatGPTGenerateReturnsCompletion(t *testing.T) {
	var gotRequest OpenAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer API key, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Counter: ..."}}]}`))
	}))
	defer server.Close()

	client := newTestChatGPT(server.URL)

	text, err := client.Generate(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Counter: ..." {
		t.Errorf("Expected completion text, got %q", text)
	}
	if len(gotRequest.Messages) != 2 || gotRequest.Messages[0].Role != "system" || gotRequest.Messages[1].Role != "user" {
		t.Errorf("Expected system and user messages, got %+v", gotRequest.Messages)
	}
	if gotRequest.Model != "gpt-4o-2024-08-06" {
		t.Errorf("Expected configured model, got %s", gotRequest.Model)
	}
}

func TestChatGPTGenerateInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key"}}`))
	}))
	defer server.Close()

	client := newTestChatGPT(server.URL)

	_, err := client.Generate(context.Background(), "s", "u")
	if !IsKind(err, ErrAuth) {
		t.Errorf("Expected auth error, got %v", err)
	}
}

func TestChatGPTGenerateRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestChatGPT(server.URL)

	_, err := client.Generate(context.Background(), "s", "u")
	if !IsKind(err, ErrRateLimit) {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}

func TestChatGPTGenerateMissingKey(t *testing.T) {
	client := newTestChatGPT("http://127.0.0.1:1")
	client.APIKey = ""

	_, err := client.Generate(context.Background(), "s", "u")
	if !IsKind(err, ErrAuth) {
		t.Errorf("Expected auth error for missing key, got %v", err)
	}
}

func TestChatGPTGenerateUnreachable(t *testing.T) {
	client := newTestChatGPT("http://127.0.0.1:1")

	_, err := client.Generate(context.Background(), "s", "u")
	if !IsKind(err, ErrNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}
