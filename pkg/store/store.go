// Package store defines the SummaryStore contract shared by the SQLite,
// MongoDB and in-memory backends.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
)

// Store persists and retrieves summary records.
type Store interface {
	// Create inserts a new record and assigns its id and timestamps.
	// Failures are persistence errors.
	Create(ctx context.Context, n models.NewSummary) (*models.SummaryRecord, error)
	// Query returns records matching f, ordered by s, at most limit of them.
	// A limit <= 0 means no limit. Failures are query errors.
	Query(ctx context.Context, f filter.Filter, s SortSpec, limit int) ([]models.SummaryRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// FieldCreatedAt is the only sortable field.
const FieldCreatedAt = "createdAt"

// SortSpec orders query results.
type SortSpec struct {
	Field      string
	Descending bool
}

// NewestFirst sorts by creation time, most recent first.
var NewestFirst = SortSpec{Field: FieldCreatedAt, Descending: true}

// Validate rejects fields outside the sortable set.
func (s SortSpec) Validate() error {
	if s.Field != FieldCreatedAt {
		return fmt.Errorf("unsupported sort field %q", s.Field)
	}
	return nil
}

// Less reports whether a sorts before b under s.
func (s SortSpec) Less(a, b models.SummaryRecord) bool {
	if s.Descending {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Apply sorts records in place under s and truncates to limit.
func (s SortSpec) Apply(records []models.SummaryRecord, limit int) []models.SummaryRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return s.Less(records[i], records[j])
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

// Clock hands out creation timestamps that strictly increase at the given
// resolution, even when the wall clock stalls or steps backwards.
type Clock struct {
	mu         sync.Mutex
	resolution time.Duration
	now        func() time.Time
	last       time.Time
}

// NewClock returns a Clock reading now. A nil now uses time.Now.
func NewClock(resolution time.Duration, now func() time.Time) *Clock {
	if resolution <= 0 {
		resolution = time.Nanosecond
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{resolution: resolution, now: now}
}

// Now returns the next timestamp, in UTC, truncated to the resolution.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(c.resolution)
	if !t.After(c.last) {
		t = c.last.Add(c.resolution)
	}
	c.last = t
	return t
}
