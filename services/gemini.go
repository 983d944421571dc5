package services

import (
	"context"
	"fmt"
	"strings"

	"contrahub/config"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API through the genai client
type Gemini struct {
	Client *genai.Client
	Model  string
}

// NewGemini builds a Gemini client from the app configuration
func NewGemini(ctx context.Context, cfg *config.Config) (*Gemini, error) {
	if cfg.LLM.Gemini.ApiKey == "" {
		return nil, NewAPIError(ErrAuth, "Gemini API key is missing", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.LLM.Gemini.ApiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &Gemini{Client: client, Model: cfg.LLM.Gemini.Model}, nil
}

var _ TextGenerator = (*Gemini)(nil)

// Generate sends the combined prompt and returns the model text
func (g *Gemini) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if g.Client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	prompt := systemPrompt + "\n\n" + userPrompt
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", geminiError(err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty model response")
	}
	return cleanModelOutput(text), nil
}

// geminiError maps genai failures onto the pipeline error taxonomy. The SDK
// reports quota and auth problems only through the error text.
func geminiError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "exhausted"):
		return NewAPIError(ErrRateLimit, "Gemini rate limit exceeded", err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key"):
		return NewAPIError(ErrAuth, "Gemini rejected the API key", err)
	default:
		return NewAPIError(ErrNetwork, "Gemini is unavailable", err)
	}
}

func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
