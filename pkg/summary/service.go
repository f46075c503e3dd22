package summary

import (
	"context"
	"log/slog"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
)

// Extractor yields the normalized text of a page.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Generator answers a prompt with completion text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Creator persists a new summary.
type Creator interface {
	Create(ctx context.Context, n models.NewSummary) (*models.SummaryRecord, error)
}

type Service struct {
	extractor Extractor
	generator Generator
	store     Creator
	logger    *slog.Logger
}

func NewService(e Extractor, g Generator, s Creator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractor: e, generator: g, store: s, logger: logger}
}

// Summarize runs the ingestion flow for url. Nothing is stored unless every
// earlier step succeeded. Errors are FetchError, GenerationError or
// PersistenceError.
func (s *Service) Summarize(ctx context.Context, url string) (*models.SummaryRecord, error) {
	start := time.Now()
	log := s.logger.With("url", url)

	text, err := s.extractor.Extract(ctx, url)
	if err != nil {
		log.Error("extraction failed", "error", err)
		return nil, models.FetchError("extract", err)
	}
	log.Debug("extracted page", "chars", len([]rune(text)))

	raw, err := s.generator.Generate(ctx, BuildPrompt(text))
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, models.GenerationError("generate", err)
	}

	sum, keyPoints := ParseResponse(raw)
	log.Debug("parsed response", "key_points", len(keyPoints))

	rec, err := s.store.Create(ctx, models.NewSummary{
		URL:       url,
		Title:     url,
		Summary:   sum,
		KeyPoints: keyPoints,
	})
	if err != nil {
		log.Error("failed to store summary", "error", err)
		return nil, models.PersistenceError("create", err)
	}

	log.Info("summarized page", "id", rec.ID, "duration_ms", time.Since(start).Milliseconds())
	return rec, nil
}
