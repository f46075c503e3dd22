// Package llm provides the text-generation backends used to summarize pages.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtnitsch/web-summarizer/models"
)

// Generator turns a prompt into raw completion text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrUnsupportedProvider is returned by New for an unknown provider name.
var ErrUnsupportedProvider = errors.New("unsupported llm provider")

// ErrEmptyResponse is returned when a backend answers without any text parts.
var ErrEmptyResponse = errors.New("empty response")

// New creates a Generator for the configured provider.
func New(ctx context.Context, cfg models.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case models.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	case models.ProviderAnthropic:
		return NewAnthropicGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
