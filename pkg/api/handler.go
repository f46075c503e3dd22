// Package api exposes the summarize and retrieval flows over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/gin-gonic/gin"
)

// Summarizer runs the ingestion flow for one URL.
type Summarizer interface {
	Summarize(ctx context.Context, url string) (*models.SummaryRecord, error)
}

// Finder runs filtered retrieval.
type Finder interface {
	Search(ctx context.Context, p filter.Params) ([]models.SummaryRecord, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SummaryHandler struct {
	summarizer Summarizer
	finder     Finder
	pinger     Pinger
	logger     *slog.Logger
}

func NewSummaryHandler(s Summarizer, f Finder, p Pinger, logger *slog.Logger) *SummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryHandler{summarizer: s, finder: f, pinger: p, logger: logger}
}

type summarizeRequest struct {
	URL string `json:"url"`
}

// PostSummarize handles POST /summarize.
func (h *SummaryHandler) PostSummarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The pipeline keeps running if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())

	rec, err := h.summarizer.Summarize(ctx, req.URL)
	if err != nil {
		h.logger.Error("summarize failed", "url", req.URL, "kind", models.KindOf(err), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate summary"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// GetSummaries handles GET /summary.
func (h *SummaryHandler) GetSummaries(c *gin.Context) {
	params := filter.Params{
		Search:   c.Query("search"),
		Domain:   c.Query("domain"),
		FromDate: c.Query("fromDate"),
		ToDate:   c.Query("toDate"),
	}

	records, err := h.finder.Search(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("fetch summaries failed", "params", params, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch summaries"})
		return
	}
	if records == nil {
		records = []models.SummaryRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// GetHealth handles GET /health.
func (h *SummaryHandler) GetHealth(c *gin.Context) {
	if err := h.pinger.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
