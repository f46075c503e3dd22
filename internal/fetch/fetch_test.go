package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dtnitsch/web-summarizer/models"
)

type fakeSummarizer struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, url string) (*models.SummaryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[url]++
	if f.fail[url] {
		return nil, models.FetchError("fetch", errors.New("404"))
	}
	return &models.SummaryRecord{ID: url + "-id", URL: url, KeyPoints: []string{}}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_AllSucceed(t *testing.T) {
	s := &fakeSummarizer{}
	urls := []string{"https://a.test", "https://b.test", "https://a.test"}

	results, err := run(context.Background(), discardLogger(), s, urls, 3)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("run() returned %d results, want 3", len(results))
	}
	if s.calls["https://a.test"] != 2 {
		t.Errorf("duplicate URL summarized %d times, want 2", s.calls["https://a.test"])
	}

	out := buildOutput(urls, results)
	if out.Status != "success" || out.Stats.Successful != 3 || out.Stats.Failed != 0 {
		t.Errorf("output = %+v", out)
	}
	for i, u := range urls {
		if out.Results[i].URL != u {
			t.Errorf("Results[%d].URL = %q, want %q", i, out.Results[i].URL, u)
		}
	}
}

func TestRun_PartialFailure(t *testing.T) {
	s := &fakeSummarizer{fail: map[string]bool{"https://bad.test": true}}
	urls := []string{"https://bad.test", "https://good.test"}

	results, err := run(context.Background(), discardLogger(), s, urls, 0)
	if !errors.Is(err, errJobsFailed) {
		t.Fatalf("run() error = %v, want errJobsFailed", err)
	}

	out := buildOutput(urls, results)
	if out.Status != "partial" {
		t.Errorf("Status = %q, want partial", out.Status)
	}
	if out.Results[0].Status != "failed" || out.Results[0].ErrorType != string(models.KindFetch) {
		t.Errorf("Results[0] = %+v, want failed fetch_error", out.Results[0])
	}
	if out.Results[1].Summary == nil || out.Results[1].Summary.ID != "https://good.test-id" {
		t.Errorf("Results[1] = %+v, want stored summary", out.Results[1])
	}
}

func TestBuildOutput_AllFailed(t *testing.T) {
	urls := []string{"x"}
	out := buildOutput(urls, []Result{{URL: "x", Error: errors.New("boom")}})
	if out.Status != "failed" || out.Stats.Failed != 1 {
		t.Errorf("output = %+v", out)
	}
}
