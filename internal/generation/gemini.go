package generation

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider "качественный" провайдер поверх Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider создает клиента Gemini с указанным ключом и моделью.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	const op = "generation.NewGeminiProvider"
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Generate выполняет один вызов генерации без истории чата.
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	const op = "generation.gemini.Generate"

	model := p.client.GenerativeModel(p.modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(maxOutputTokens(req.WordCount))

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("%s: unexpected response part type", op)
	}
	return string(text), nil
}

// Close освобождает ресурсы клиента.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
