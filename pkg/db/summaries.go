package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/dtnitsch/web-summarizer/pkg/store"
	"github.com/google/uuid"
)

// Create inserts a new summary and returns it with its id and timestamps.
func (db *DB) Create(ctx context.Context, n models.NewSummary) (*models.SummaryRecord, error) {
	rec := n.Record(uuid.NewString(), db.clock.Now())

	keyPoints, err := json.Marshal(rec.KeyPoints)
	if err != nil {
		return nil, models.PersistenceError("encode key points", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO summaries (id, url, title, summary, key_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, rec.Title, rec.Summary, string(keyPoints), rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano())
	if err != nil {
		return nil, models.PersistenceError("insert summary", err)
	}

	return &rec, nil
}

// Query returns summaries matching f, ordered by s and capped at limit.
func (db *DB) Query(ctx context.Context, f filter.Filter, s store.SortSpec, limit int) ([]models.SummaryRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, models.QueryError("query summaries", err)
	}

	where := buildWhere(f)
	query := "SELECT id, url, title, summary, key_points, created_at, updated_at FROM summaries WHERE " +
		where.WhereClause + " ORDER BY " + orderBy(s)
	args := where.Args
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.QueryError("query summaries", err)
	}
	defer rows.Close()

	records := make([]models.SummaryRecord, 0)
	for rows.Next() {
		var rec models.SummaryRecord
		var keyPoints string
		var createdAt, updatedAt int64

		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Title, &rec.Summary, &keyPoints, &createdAt, &updatedAt); err != nil {
			return nil, models.QueryError("scan summary", err)
		}
		if err := json.Unmarshal([]byte(keyPoints), &rec.KeyPoints); err != nil {
			return nil, models.QueryError("decode key points", fmt.Errorf("summary %s: %w", rec.ID, err))
		}
		if rec.KeyPoints == nil {
			rec.KeyPoints = []string{}
		}
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		rec.UpdatedAt = time.Unix(0, updatedAt).UTC()

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, models.QueryError("query summaries", err)
	}

	return records, nil
}
