package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	geminiTemperature     = 0.7
	geminiMaxOutputTokens = 2048
)

var ErrMissingAPIKey = errors.New("gemini api key is required")

// GeminiGenerator is the production Generator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func NewGeminiGenerator(ctx context.Context, apiKey string, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](geminiTemperature),
			MaxOutputTokens:  geminiMaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
	}, nil
}

func (generator *GeminiGenerator) Model() string {
	return generator.model
}

func (generator *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := generator.client.Models.GenerateContent(ctx, generator.model, genai.Text(prompt), generator.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if result == nil {
		return "", nil
	}
	return result.Text(), nil
}
