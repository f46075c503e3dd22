package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dtnitsch/web-summarizer/models"
	"github.com/dtnitsch/web-summarizer/pkg/filter"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	mu     sync.Mutex
	rec    *models.SummaryRecord
	err    error
	gotURL string
	ctxErr error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, url string) (*models.SummaryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotURL = url
	f.ctxErr = ctx.Err()
	return f.rec, f.err
}

type fakeFinder struct {
	records   []models.SummaryRecord
	err       error
	gotParams filter.Params
}

func (f *fakeFinder) Search(ctx context.Context, p filter.Params) ([]models.SummaryRecord, error) {
	f.gotParams = p
	return f.records, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newTestRouter(cfg models.ServerConfig, s Summarizer, f Finder, p Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, NewSummaryHandler(s, f, p, logger), logger)
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func sampleRecord() *models.SummaryRecord {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.SummaryRecord{
		ID:        "abc",
		URL:       "https://example.com",
		Title:     "https://example.com",
		Summary:   "An example.",
		KeyPoints: []string{"- one", "- two"},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestPostSummarize_Success(t *testing.T) {
	s := &fakeSummarizer{rec: sampleRecord()}
	r := newTestRouter(models.ServerConfig{}, s, &fakeFinder{}, fakePinger{})

	w := do(r, http.MethodPost, "/summarize", `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", s.gotURL)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "abc", got["id"])
	assert.Equal(t, "https://example.com", got["title"])
	assert.Equal(t, "An example.", got["summary"])
	assert.Equal(t, []any{"- one", "- two"}, got["keyPoints"])
	assert.Equal(t, "2024-03-01T12:00:00Z", got["createdAt"])
	assert.Contains(t, got, "updatedAt")
}

func TestPostSummarize_Failure(t *testing.T) {
	s := &fakeSummarizer{err: models.FetchError("fetch", errors.New("no such host"))}
	r := newTestRouter(models.ServerConfig{}, s, &fakeFinder{}, fakePinger{})

	w := do(r, http.MethodPost, "/summarize", `{"url":"https://nowhere.invalid"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate summary"}`, w.Body.String())
}

func TestPostSummarize_InvalidBody(t *testing.T) {
	s := &fakeSummarizer{rec: sampleRecord()}
	r := newTestRouter(models.ServerConfig{}, s, &fakeFinder{}, fakePinger{})

	w := do(r, http.MethodPost, "/summarize", `{"url":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())
	assert.Empty(t, s.gotURL)
}

func TestPostSummarize_DetachedFromClient(t *testing.T) {
	s := &fakeSummarizer{rec: sampleRecord()}
	r := newTestRouter(models.ServerConfig{}, s, &fakeFinder{}, fakePinger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"url":"https://example.com"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, s.ctxErr)
}

func TestGetSummaries_PassesParams(t *testing.T) {
	f := &fakeFinder{records: []models.SummaryRecord{*sampleRecord()}}
	r := newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, f, fakePinger{})

	w := do(r, http.MethodGet, "/summary?search=go&domain=example.com&fromDate=2024-01-01&toDate=2024-02-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, filter.Params{Search: "go", Domain: "example.com", FromDate: "2024-01-01", ToDate: "2024-02-01"}, f.gotParams)

	var got []models.SummaryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].ID)
}

func TestGetSummaries_Empty(t *testing.T) {
	r := newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, &fakeFinder{}, fakePinger{})

	w := do(r, http.MethodGet, "/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetSummaries_Error(t *testing.T) {
	f := &fakeFinder{err: models.QueryError("build filter", filter.ErrInvalidDate)}
	r := newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, f, fakePinger{})

	w := do(r, http.MethodGet, "/summary?fromDate=garbage", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch summaries"}`, w.Body.String())
}

func TestBasePath(t *testing.T) {
	cfg := models.ServerConfig{BasePath: "/api"}
	r := newTestRouter(cfg, &fakeSummarizer{rec: sampleRecord()}, &fakeFinder{}, fakePinger{})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/summary", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/summarize", `{"url":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/summary", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, &fakeFinder{}, fakePinger{})
	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	r = newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, &fakeFinder{}, fakePinger{err: errors.New("down")})
	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := newTestRouter(models.ServerConfig{}, &fakeSummarizer{}, &fakeFinder{}, fakePinger{})

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	r = newTestRouter(models.ServerConfig{AllowedOrigins: []string{"http://allowed.local"}}, &fakeSummarizer{}, &fakeFinder{}, fakePinger{})
	req = httptest.NewRequest(http.MethodGet, "/summary", nil)
	req.Header.Set("Origin", "http://other.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostSummarize_MissingURLReachesPipeline(t *testing.T) {
	s := &fakeSummarizer{err: models.FetchError("fetch", errors.New("unsupported protocol scheme"))}
	r := newTestRouter(models.ServerConfig{}, s, &fakeFinder{}, fakePinger{})

	w := do(r, http.MethodPost, "/summarize", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate summary"}`, w.Body.String())
	assert.Equal(t, "", s.gotURL)
}
