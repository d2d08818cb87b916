package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// TurboProvider "быстрый" провайдер поверх OpenAI-совместимого chat API.
type TurboProvider struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewTurboProvider создаёт клиента быстрого провайдера.
// Таймаут несет контекст запроса, поэтому у httpClient его нет.
func NewTurboProvider(apiURL, apiKey string) *TurboProvider {
	return &TurboProvider{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type turboRequest struct {
	Model       string         `json:"model"`
	Messages    []turboMessage `json:"messages"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p"`
	MaxTokens   int32          `json:"max_tokens"`
}

type turboMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type turboResponse struct {
	Choices []struct {
		Message turboMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate выполняет один вызов chat completions.
func (p *TurboProvider) Generate(ctx context.Context, req Request) (string, error) {
	const op = "generation.turbo.Generate"

	body := turboRequest{
		Model: "gpt-4o-mini",
		Messages: []turboMessage{
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   maxOutputTokens(req.WordCount),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", context.DeadlineExceeded
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var parsed turboResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s: provider error: %s", op, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return parsed.Choices[0].Message.Content, nil
}
