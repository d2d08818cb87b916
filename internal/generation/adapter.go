// Package generation содержит адаптер внешней генерации текста.
//
// Поддерживаются два взаимозаменяемых провайдера: "быстрый" с низкой
// задержкой (OpenAI-совместимый HTTP API) и "качественный" (Gemini).
// Оба — черные ящики: адаптер собирает промпт, передает параметры
// сэмплирования и возвращает текст либо ошибку. Таймаут несет контекст
// вызывающей стороны, списание кредитов при любой ошибке не происходит.
package generation

import (
	"context"
	"errors"
	"fmt"
)

// Kind вид генерируемого контента, выбирает шаблон промпта и провайдера.
type Kind string

const (
	KindPost           Kind = "post"
	KindComment        Kind = "comment"
	KindTemplate       Kind = "template"
	KindProfileSummary Kind = "profile-summary"
)

// Тоны, которые принимают все шаблоны.
var tones = map[string]struct{}{
	"professional":  {},
	"casual":        {},
	"witty":         {},
	"inspirational": {},
	"informative":   {},
}

// ErrUnknownTone запрошен тон, которого нет в перечислении.
var ErrUnknownTone = errors.New("unknown tone")

// ErrEmptyResponse провайдер вернул пустой результат.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Request параметры одной генерации.
type Request struct {
	Kind      Kind   // Вид контента
	Content   string // Свободный текст: тема поста, комментируемый пост и т.п.
	Tone      string // Тон из перечисления
	WordCount int    // Целевой объем в словах, 0 — на усмотрение провайдера
}

// Validate проверяет параметры запроса до обращения к провайдеру.
func (r Request) Validate() error {
	if r.Content == "" {
		return errors.New("content is empty")
	}
	if r.Tone != "" {
		if _, ok := tones[r.Tone]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTone, r.Tone)
		}
	}
	return nil
}

// Generator единый контракт провайдера генерации текста.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Adapter маршрутизирует запросы между провайдерами: комментарии уходят
// быстрому провайдеру, остальные виды — качественному. Если быстрый
// провайдер не сконфигурирован, все запросы обслуживает качественный.
type Adapter struct {
	fast    Generator
	quality Generator
}

// NewAdapter создает адаптер из пары провайдеров. quality обязателен,
// fast может быть nil.
func NewAdapter(fast, quality Generator) *Adapter {
	return &Adapter{fast: fast, quality: quality}
}

// Generate валидирует запрос и передает его подходящему провайдеру.
func (a *Adapter) Generate(ctx context.Context, req Request) (string, error) {
	const op = "generation.Generate"
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	provider := a.quality
	if req.Kind == KindComment && a.fast != nil {
		provider = a.fast
	}
	text, err := provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return text, nil
}
