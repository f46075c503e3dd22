// Package models defines the records, errors and configuration shared by the
// summarizer packages.
package models

import "time"

// SummaryRecord is a stored summary of a single web page.
type SummaryRecord struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Summary   string    `json:"summary" yaml:"summary"`
	KeyPoints []string  `json:"keyPoints" yaml:"key_points"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// NewSummary carries the caller-supplied fields of a record before the store
// assigns its id and timestamps.
type NewSummary struct {
	URL       string
	Title     string
	Summary   string
	KeyPoints []string
}

// Record builds a SummaryRecord from n. KeyPoints is copied so the stored
// record never aliases the caller's slice, and is never nil.
func (n NewSummary) Record(id string, now time.Time) SummaryRecord {
	points := make([]string, len(n.KeyPoints))
	copy(points, n.KeyPoints)
	return SummaryRecord{
		ID:        id,
		URL:       n.URL,
		Title:     n.Title,
		Summary:   n.Summary,
		KeyPoints: points,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
