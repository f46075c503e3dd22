// Package retrieval serves filtered historical queries over stored summaries.
package retrieval

import (
	"context"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/store"
)

// MaxResults caps every retrieval.
const MaxResults = 100

// Querier reads summaries from a store.
type Querier interface {
	Query(ctx context.Context, f filter.Filter, s store.SortSpec, limit int) ([]models.SummaryRecord, error)
}

type Service struct {
	store Querier
}

func NewService(q Querier) *Service {
	return &Service{store: q}
}

// Find returns at most MaxResults records matching f, newest first.
func (s *Service) Find(ctx context.Context, f filter.Filter) ([]models.SummaryRecord, error) {
	records, err := s.store.Query(ctx, f, store.NewestFirst, MaxResults)
	if err != nil {
		return nil, models.QueryError("find", err)
	}
	if records == nil {
		return []models.SummaryRecord{}, nil
	}
	// Backends push sort and limit down; the order and cap hold regardless.
	return store.NewestFirst.Apply(records, MaxResults), nil
}

// Search builds a Filter from raw params and runs Find. Invalid dates are
// query errors.
func (s *Service) Search(ctx context.Context, p filter.Params) ([]models.SummaryRecord, error) {
	f, err := filter.Build(p)
	if err != nil {
		return nil, models.QueryError("build filter", err)
	}
	return s.Find(ctx, f)
}
