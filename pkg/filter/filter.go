// Package filter builds the retrieval predicate for stored summaries from
// optional query parameters.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
)

// Params are the raw, optional query inputs. An empty string means the
// parameter was not supplied.
type Params struct {
	Search   string
	Domain   string
	FromDate string
	ToDate   string
}

// Filter is an immutable predicate over SummaryRecords. Field groups are
// ANDed; the zero Filter matches every record.
type Filter struct {
	// Search is matched case-insensitively as a literal substring of the
	// title, the summary, or any key point.
	Search string
	// Domain is matched case-insensitively as a literal substring of the URL.
	Domain string
	// From and To are inclusive bounds on CreatedAt.
	From *time.Time
	To   *time.Time
}

// ErrInvalidDate is returned by Build when a date parameter cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Build translates p into a Filter.
func Build(p Params) (Filter, error) {
	f := Filter{Search: p.Search, Domain: p.Domain}

	if p.FromDate != "" {
		from, err := ParseDate(p.FromDate)
		if err != nil {
			return Filter{}, fmt.Errorf("fromDate: %w", err)
		}
		f.From = &from
	}
	if p.ToDate != "" {
		to, err := ParseDate(p.ToDate)
		if err != nil {
			return Filter{}, fmt.Errorf("toDate: %w", err)
		}
		f.To = &to
	}
	return f, nil
}

// ParseDate accepts RFC 3339 timestamps, a zone-less date-time (UTC) or a
// bare date (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// IsEmpty reports whether f places no constraint on records.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Domain == "" && f.From == nil && f.To == nil
}

// Matches evaluates f against a single record.
func (f Filter) Matches(r models.SummaryRecord) bool {
	if f.Search != "" && !matchesSearch(f.Search, r) {
		return false
	}
	if f.Domain != "" && !containsFold(r.URL, f.Domain) {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func matchesSearch(q string, r models.SummaryRecord) bool {
	if containsFold(r.Title, q) || containsFold(r.Summary, q) {
		return true
	}
	for _, p := range r.KeyPoints {
		if containsFold(p, q) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
