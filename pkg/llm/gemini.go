package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtnitsch/web-summarizer/models"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API through google.golang.org/genai.
type GeminiGenerator struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiGenerator(ctx context.Context, cfg models.LLMConfig) (*GeminiGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &GeminiGenerator{
		client:    client,
		model:     strings.TrimPrefix(cfg.Model, "models/"),
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var gc *genai.GenerateContentConfig
	if g.maxTokens > 0 {
		gc = &genai.GenerateContentConfig{MaxOutputTokens: int32(g.maxTokens)}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), gc)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
