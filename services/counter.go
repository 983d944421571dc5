package services

import (
	"context"
	"encoding/json"
	"log"

	"contrahub/models"
)

// CounterArgumentService runs the two model calls of the pipeline: extract
// the post's argument as structured JSON, then generate a counter-argument.
type CounterArgumentService struct {
	Generator TextGenerator
}

func NewCounterArgumentService(generator TextGenerator) *CounterArgumentService {
	return &CounterArgumentService{Generator: generator}
}

// ExtractArgument asks the model for the post's main position and rationale.
// A response that fails to parse falls back to a placeholder argument instead
// of failing the run; model call errors are returned as-is.
func (s *CounterArgumentService) ExtractArgument(ctx context.Context, post models.Post) (models.Argument, error) {
	system, user := ExtractionPrompt(post)
	response, err := s.Generator.Generate(ctx, system, user)
	if err != nil {
		return models.Argument{}, err
	}

	var argument models.Argument
	if err := json.Unmarshal([]byte(cleanModelOutput(response)), &argument); err != nil {
		log.Printf("Failed to parse analysis response, using default structure: %v", err)
		return models.Argument{
			MainPosition: "Could not extract main position",
			Rationale:    []string{"Could not extract rationale"},
		}, nil
	}
	return argument, nil
}

// GenerateCounterArgument asks the model to argue against the extracted position
func (s *CounterArgumentService) GenerateCounterArgument(ctx context.Context, argument models.Argument) (string, error) {
	system, user := CounterPrompt(argument)
	return s.Generator.Generate(ctx, system, user)
}

// Analyze runs both steps for one post. Any model failure aborts the run with
// no partial result.
func (s *CounterArgumentService) Analyze(ctx context.Context, post models.Post) (*models.Analysis, error) {
	argument, err := s.ExtractArgument(ctx, post)
	if err != nil {
		return nil, err
	}

	counterText, err := s.GenerateCounterArgument(ctx, argument)
	if err != nil {
		return nil, err
	}

	return &models.Analysis{
		Argument: argument,
		CounterArgument: models.CounterArgument{
			SourcePostID: post.ID,
			Text:         counterText,
		},
	}, nil
}
