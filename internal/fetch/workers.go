package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dtnitsch/web-summarizer/models"
)

// Summarizer runs the ingestion flow for one URL.
type Summarizer interface {
	Summarize(ctx context.Context, url string) (*models.SummaryRecord, error)
}

// errJobsFailed is returned by run when at least one URL failed.
var errJobsFailed = errors.New("one or more jobs failed")

// run summarizes urls with workerCount concurrent workers. Identical URLs
// are processed independently.
func run(ctx context.Context, logger *slog.Logger, s Summarizer, urls []string, workerCount int) ([]Result, error) {
	if workerCount < 1 {
		workerCount = 1
	}

	logger.Info("Starting summarize phase", "url_count", len(urls), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(urls))
	results := make(chan Result, len(urls))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, s, &wg, jobs, results)
	}

	for _, rawURL := range urls {
		jobs <- Job{URL: rawURL}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All summarize workers finished")

	allResults := make([]Result, 0, len(urls))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = errJobsFailed
		}
	}
	return allResults, runErr
}

func worker(ctx context.Context, id int, logger *slog.Logger, s Summarizer, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Debug("Worker started job", "worker_id", id, "url", job.URL)

		rec, err := s.Summarize(ctx, job.URL)
		if err != nil {
			logger.Error("Error summarizing URL", "worker_id", id, "url", job.URL, "error_type", models.KindOf(err), "error", err)
			results <- Result{URL: job.URL, Error: err}
			continue
		}
		results <- Result{URL: job.URL, Record: rec}
	}
}
