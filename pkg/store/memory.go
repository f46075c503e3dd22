package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/google/uuid"
)

// ErrClosed is returned by a Memory store after Close.
var ErrClosed = errors.New("store closed")

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records []models.SummaryRecord
	clock   *Clock
	closed  bool
}

// NewMemory returns an empty Memory store. A nil clock uses the system
// clock at nanosecond resolution.
func NewMemory(clock *Clock) *Memory {
	if clock == nil {
		clock = NewClock(time.Nanosecond, nil)
	}
	return &Memory{clock: clock}
}

func (m *Memory) Create(ctx context.Context, n models.NewSummary) (*models.SummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.PersistenceError("create", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, models.PersistenceError("create", ErrClosed)
	}

	rec := n.Record(uuid.NewString(), m.clock.Now())
	m.records = append(m.records, rec)
	out := clone(rec)
	return &out, nil
}

func (m *Memory) Query(ctx context.Context, f filter.Filter, s SortSpec, limit int) ([]models.SummaryRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, models.QueryError("query", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, models.QueryError("query", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, models.QueryError("query", ErrClosed)
	}

	matched := make([]models.SummaryRecord, 0)
	for _, rec := range m.records {
		if f.Matches(rec) {
			matched = append(matched, clone(rec))
		}
	}
	return s.Apply(matched, limit), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func clone(r models.SummaryRecord) models.SummaryRecord {
	points := make([]string, len(r.KeyPoints))
	copy(points, r.KeyPoints)
	r.KeyPoints = points
	return r
}
