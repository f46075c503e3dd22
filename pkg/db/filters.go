package db

import (
	"math"
	"strings"
	"time"

	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/store"
)

// FilterResult holds a WHERE clause and its positional args.
type FilterResult struct {
	WhereClause string
	Args        []interface{}
}

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching s anywhere in a value.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Stored timestamps are Unix nanoseconds, so bounds outside that range
// clamp to the int64 limits.
var (
	minNanoTime = time.Unix(0, math.MinInt64)
	maxNanoTime = time.Unix(0, math.MaxInt64)
)

func boundNanos(t time.Time) int64 {
	switch {
	case t.Before(minNanoTime):
		return math.MinInt64
	case t.After(maxNanoTime):
		return math.MaxInt64
	}
	return t.UnixNano()
}

// buildWhere translates a Filter to SQL. Text columns are folded with
// unicode_lower and compared against a lowered pattern.
func buildWhere(f filter.Filter) *FilterResult {
	if f.IsEmpty() {
		return &FilterResult{WhereClause: "1=1", Args: []interface{}{}}
	}

	var parts []string
	var args []interface{}

	if f.Search != "" {
		pattern := containsPattern(strings.ToLower(f.Search))
		parts = append(parts, `(unicode_lower(title) LIKE ? ESCAPE '\'`+
			` OR unicode_lower(summary) LIKE ? ESCAPE '\'`+
			` OR EXISTS (SELECT 1 FROM json_each(summaries.key_points) AS kp WHERE unicode_lower(kp.value) LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern, pattern)
	}

	if f.Domain != "" {
		parts = append(parts, `unicode_lower(url) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(strings.ToLower(f.Domain)))
	}

	if f.From != nil {
		parts = append(parts, "created_at >= ?")
		args = append(args, boundNanos(*f.From))
	}
	if f.To != nil {
		parts = append(parts, "created_at <= ?")
		args = append(args, boundNanos(*f.To))
	}

	return &FilterResult{
		WhereClause: strings.Join(parts, " AND "),
		Args:        args,
	}
}

// sortColumns maps sortable fields to database columns.
var sortColumns = map[string]string{
	store.FieldCreatedAt: "created_at",
}

func orderBy(s store.SortSpec) string {
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return sortColumns[s.Field] + " " + dir
}
