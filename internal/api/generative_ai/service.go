package generativeAI

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// AIClient wraps the Gemini SDK with a fixed model and a per-call timeout.
// The key and model are injected at construction; nothing reads the
// environment at call sites.
type AIClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewAIClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*AIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (ai *AIClient) Model() string {
	return ai.model
}

// GenerateContent submits the prompt as a single non-streaming completion and
// returns the full response text. The call is bounded by the configured
// timeout; a timeout surfaces as an ordinary error for the caller to classify.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ai.timeout)
	defer cancel()

	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	txt := result.Text()
	if txt == "" {
		return "", fmt.Errorf("no content in model response")
	}
	return txt, nil
}
