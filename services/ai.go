package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"contrahub/config"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

type OpenAIRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatGPT calls the OpenAI chat completions API
type ChatGPT struct {
	APIKey      string
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// NewChatGPT builds an OpenAI client from the app configuration
func NewChatGPT(cfg *config.Config) *ChatGPT {
	return &ChatGPT{
		APIKey:      cfg.LLM.Openai.ApiKey,
		URL:         defaultOpenAIURL,
		Model:       cfg.LLM.Openai.Model,
		Temperature: cfg.LLM.Openai.Temperature,
		MaxTokens:   cfg.LLM.Openai.MaxTokens,
		HTTPClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

var _ TextGenerator = (*ChatGPT)(nil)

// Generate sends a system and user message pair and returns the completion text
func (c *ChatGPT) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.APIKey == "" {
		return "", NewAPIError(ErrAuth, "OpenAI API key is missing", nil)
	}

	requestData := OpenAIRequest{
		Model: c.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	payload, err := json.Marshal(requestData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", NewAPIError(ErrNetwork, "OpenAI is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewAPIError(ErrNetwork, "Failed to read OpenAI response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", openAIStatusError(resp.StatusCode, body)
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(responseData.Choices) > 0 {
		return responseData.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("unexpected response format")
}

func openAIStatusError(status int, body []byte) error {
	if kind, ok := kindFromStatus(status); ok {
		switch kind {
		case ErrAuth:
			return NewAPIError(ErrAuth, "OpenAI rejected the API key", fmt.Errorf("status %d: %s", status, body))
		case ErrRateLimit:
			return NewAPIError(ErrRateLimit, "OpenAI rate limit exceeded", fmt.Errorf("status %d", status))
		case ErrNetwork:
			return NewAPIError(ErrNetwork, "OpenAI is unavailable", fmt.Errorf("status %d: %s", status, body))
		}
	}
	return fmt.Errorf("API error: %s", string(body))
}
