package services

import "context"

// TextGenerator is the model client used by the counter-argument pipeline.
// Both the OpenAI and Gemini clients implement it, and tests inject fakes.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
