// internal/services/assistant/generator.go
package assistant

import (
	"context"

	"github.com/dalemusser/taskforge/internal/app/system/apperr"
	"google.golang.org/genai"
)

// Generator produces a completion for a prompt. Implementations wrap a
// model provider; failures come back as Inference-kind errors so chat can
// recover locally.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator connects to the Gemini API with the given key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// DisabledGenerator stands in when no API key is configured. Every call
// fails with an Inference error, which chat degrades to its fallback reply.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", apperr.Inference("assistant model is not configured")
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInference, err, "model request failed")
	}
	return resp.Text(), nil
}
