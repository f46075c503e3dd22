package common

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/caching"
	"github.com/dtnitsch/web-summarizer/pkg/db"
	"github.com/dtnitsch/web-summarizer/pkg/extractor"
	"github.com/dtnitsch/web-summarizer/pkg/fetcher"
	"github.com/dtnitsch/web-summarizer/pkg/llm"
	"github.com/dtnitsch/web-summarizer/pkg/mongostore"
	"github.com/dtnitsch/web-summarizer/pkg/retrieval"
	"github.com/dtnitsch/web-summarizer/pkg/store"
	"github.com/dtnitsch/web-summarizer/pkg/summary"
)

// OpenStore opens the backend selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg models.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case models.StoreSQLite, "":
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return database, nil
	case models.StoreMongo:
		s, err := mongostore.Open(ctx, cfg.URI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongo store: %w", err)
		}
		return s, nil
	case models.StoreMemory:
		return store.NewMemory(nil), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}

// NewExtractor builds the fetcher, with its optional disk cache, and the
// extractor on top of it.
func NewExtractor(cfg models.FetchConfig) (*extractor.Extractor, error) {
	opts := fetcher.Options{
		Timeout:      cfg.Timeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create fetch cache: %w", err)
		}
		opts.Cache = cache
	}
	return extractor.New(fetcher.NewFetcher(opts), extractor.Mode(cfg.Mode)), nil
}

// Services is the wired ingestion and retrieval graph over one store handle.
type Services struct {
	Store      store.Store
	Summarizer *summary.Service
	Retrieval  *retrieval.Service
}

// NewRetrieval opens the store and wires only the retrieval path, which
// needs no generation credentials.
func NewRetrieval(ctx context.Context, cfg *models.Config) (*Services, error) {
	st, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	return &Services{Store: st, Retrieval: retrieval.NewService(st)}, nil
}

// NewServices opens the store and wires both flows.
func NewServices(ctx context.Context, cfg *models.Config, logger *slog.Logger) (*Services, error) {
	ext, err := NewExtractor(cfg.Fetch)
	if err != nil {
		return nil, err
	}
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", cfg.LLM.Provider, err)
	}

	svc, err := NewRetrieval(ctx, cfg)
	if err != nil {
		return nil, err
	}
	svc.Summarizer = summary.NewService(ext, gen, svc.Store, logger)
	return svc, nil
}

// Close releases the store handle.
func (s *Services) Close() error {
	return s.Store.Close()
}
