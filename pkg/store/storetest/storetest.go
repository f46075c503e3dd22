// Package storetest holds the behavioural tests every store.Store backend
// must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens an empty store whose creation timestamps come from clock.
type Factory func(t *testing.T, clock *store.Clock) store.Store

// Epoch is the first timestamp handed out by the stepped clock the suite uses.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SteppedClock returns a clock that advances by step on every reading,
// starting at Epoch.
func SteppedClock(step time.Duration) *store.Clock {
	next := Epoch
	return store.NewClock(time.Millisecond, func() time.Time {
		t := next
		next = next.Add(step)
		return t
	})
}

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAssignsIdentity", func(t *testing.T) { testCreate(t, newStore) })
	t.Run("KeyPointOrder", func(t *testing.T) { testKeyPointOrder(t, newStore) })
	t.Run("SearchRoundTrip", func(t *testing.T) { testSearch(t, newStore) })
	t.Run("DomainLiteral", func(t *testing.T) { testDomain(t, newStore) })
	t.Run("UnicodeCaseFold", func(t *testing.T) { testUnicodeCase(t, newStore) })
	t.Run("DateRangeInclusive", func(t *testing.T) { testDateRange(t, newStore) })
	t.Run("NewestFirstAndLimit", func(t *testing.T) { testLimit(t, newStore) })
	t.Run("Composition", func(t *testing.T) { testComposition(t, newStore) })
	t.Run("UnsupportedSort", func(t *testing.T) { testUnsupportedSort(t, newStore) })
}

func create(t *testing.T, s store.Store, n models.NewSummary) *models.SummaryRecord {
	t.Helper()
	rec, err := s.Create(context.Background(), n)
	require.NoError(t, err)
	return rec
}

func query(t *testing.T, s store.Store, p filter.Params, limit int) []models.SummaryRecord {
	t.Helper()
	f, err := filter.Build(p)
	require.NoError(t, err)
	recs, err := s.Query(context.Background(), f, store.NewestFirst, limit)
	require.NoError(t, err)
	return recs
}

func urls(recs []models.SummaryRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.URL
	}
	return out
}

func testCreate(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	a := create(t, s, models.NewSummary{URL: "https://a.test", Title: "https://a.test", Summary: "A"})
	b := create(t, s, models.NewSummary{URL: "https://b.test", Title: "https://b.test"})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
	assert.True(t, b.CreatedAt.After(a.CreatedAt))
	assert.NotNil(t, b.KeyPoints)
	assert.Empty(t, b.KeyPoints)

	all := query(t, s, filter.Params{}, 0)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, a.ID, all[1].ID)
	assert.Equal(t, "A", all[1].Summary)
	assert.True(t, a.CreatedAt.Equal(all[1].CreatedAt))
}

func testKeyPointOrder(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	points := []string{"3. third", "1. first", "- dash", "2. second"}
	create(t, s, models.NewSummary{URL: "https://order.test", KeyPoints: points})

	recs := query(t, s, filter.Params{}, 0)
	require.Len(t, recs, 1)
	assert.Equal(t, points, recs[0].KeyPoints)
}

func testSearch(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	site := create(t, s, models.NewSummary{URL: "https://site.test", Title: "Example Site"})
	create(t, s, models.NewSummary{URL: "https://summary.test", Title: "t", Summary: "An EXAMPLE summary"})
	create(t, s, models.NewSummary{URL: "https://point.test", Title: "t", KeyPoints: []string{"nothing", "an example point"}})
	create(t, s, models.NewSummary{URL: "https://none.test", Title: "unrelated", Summary: "nothing here"})

	for _, q := range []string{"example", "EXAMPLE", "ExAmPlE"} {
		recs := query(t, s, filter.Params{Search: q}, 0)
		assert.ElementsMatch(t, []string{"https://site.test", "https://summary.test", "https://point.test"}, urls(recs), "search %q", q)
	}

	recs := query(t, s, filter.Params{Search: "Example Site"}, 0)
	require.Len(t, recs, 1)
	assert.Equal(t, site.ID, recs[0].ID)

	assert.Empty(t, query(t, s, filter.Params{Search: "exa.ple"}, 0))
	assert.Empty(t, query(t, s, filter.Params{Search: "%"}, 0))
	assert.Empty(t, query(t, s, filter.Params{Search: "_xample"}, 0))
}

func testDomain(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	create(t, s, models.NewSummary{URL: "https://www.example.com/post"})
	create(t, s, models.NewSummary{URL: "https://exampleXcom/post"})
	create(t, s, models.NewSummary{URL: "https://EXAMPLE.COM/upper"})

	recs := query(t, s, filter.Params{Domain: "example.com"}, 0)
	assert.ElementsMatch(t, []string{"https://www.example.com/post", "https://EXAMPLE.COM/upper"}, urls(recs))
}

func testUnicodeCase(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	create(t, s, models.NewSummary{URL: "https://müller.de/artikel", Title: "Über Straße"})
	create(t, s, models.NewSummary{URL: "https://other.test", Title: "t", KeyPoints: []string{"- ÉCOLE normale"}})
	create(t, s, models.NewSummary{URL: "https://plain.test", Title: "uber strasse"})

	for _, q := range []string{"über", "ÜBER", "straße"} {
		assert.Equal(t, []string{"https://müller.de/artikel"}, urls(query(t, s, filter.Params{Search: q}, 0)), "search %q", q)
	}
	assert.Equal(t, []string{"https://other.test"}, urls(query(t, s, filter.Params{Search: "école"}, 0)))
	assert.Equal(t, []string{"https://müller.de/artikel"}, urls(query(t, s, filter.Params{Domain: "MÜLLER.DE"}, 0)))
}

func testDateRange(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(24*time.Hour))
	defer s.Close()

	// Created at Epoch + 0..4 days.
	var recs []*models.SummaryRecord
	for i := 0; i < 5; i++ {
		recs = append(recs, create(t, s, models.NewSummary{URL: fmt.Sprintf("https://day%d.test", i)}))
	}

	from := recs[1].CreatedAt.Format(time.RFC3339Nano)
	to := recs[3].CreatedAt.Format(time.RFC3339Nano)

	got := query(t, s, filter.Params{FromDate: from, ToDate: to}, 0)
	assert.Equal(t, []string{"https://day3.test", "https://day2.test", "https://day1.test"}, urls(got))

	got = query(t, s, filter.Params{FromDate: from}, 0)
	assert.Equal(t, []string{"https://day4.test", "https://day3.test", "https://day2.test", "https://day1.test"}, urls(got))

	got = query(t, s, filter.Params{ToDate: "2024-01-02"}, 0)
	assert.Equal(t, []string{"https://day1.test", "https://day0.test"}, urls(got))

	// Bounds far outside the stored range include everything.
	for _, p := range []filter.Params{
		{ToDate: "3000-01-01"},
		{ToDate: "9999-12-31"},
		{FromDate: "1600-01-01"},
		{FromDate: "0001-01-01", ToDate: "9999-12-31T23:59:59Z"},
	} {
		assert.Len(t, query(t, s, p, 0), 5, "params %+v", p)
	}
	assert.Empty(t, query(t, s, filter.Params{FromDate: "3000-01-01"}, 0))
	assert.Empty(t, query(t, s, filter.Params{ToDate: "1600-01-01"}, 0))
}

func testLimit(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	for i := 0; i < 150; i++ {
		create(t, s, models.NewSummary{URL: fmt.Sprintf("https://example.com/%03d", i)})
	}

	recs := query(t, s, filter.Params{Domain: "example.com"}, 100)
	require.Len(t, recs, 100)
	assert.Equal(t, "https://example.com/149", recs[0].URL)
	assert.Equal(t, "https://example.com/050", recs[99].URL)
	for i := 1; i < len(recs); i++ {
		assert.True(t, recs[i-1].CreatedAt.After(recs[i].CreatedAt), "records out of order at %d", i)
	}
}

func testComposition(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	create(t, s, models.NewSummary{URL: "https://example.com/go", Title: "Golang news"})
	create(t, s, models.NewSummary{URL: "https://other.org/go", Title: "Golang news"})
	create(t, s, models.NewSummary{URL: "https://example.com/rust", Title: "Rust news", KeyPoints: []string{"no match"}})
	create(t, s, models.NewSummary{URL: "https://example.com/kp", Title: "Misc", KeyPoints: []string{"mentions golang"}})

	recs := query(t, s, filter.Params{Search: "golang", Domain: "example.com"}, 0)
	assert.ElementsMatch(t, []string{"https://example.com/go", "https://example.com/kp"}, urls(recs))
}

func testUnsupportedSort(t *testing.T, newStore Factory) {
	s := newStore(t, SteppedClock(time.Second))
	defer s.Close()

	_, err := s.Query(context.Background(), filter.Filter{}, store.SortSpec{Field: "title"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrQuery)
}
