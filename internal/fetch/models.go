package fetch

import (
	"github.com/dtnitsch/web-summarizer/models"
)

type Job struct {
	URL string
}

// Result holds the outcome of a processed job.
type Result struct {
	URL    string
	Record *models.SummaryRecord
	Error  error
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL       string                `json:"url" yaml:"url"`
	Status    string                `json:"status" yaml:"status"`
	Error     string                `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType string                `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Summary   *models.SummaryRecord `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status" yaml:"status"`
	Results []ResultOutput `json:"results" yaml:"results"`
	Stats   Stats          `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int     `json:"total_urls" yaml:"total_urls"`
	Successful       int     `json:"successful" yaml:"successful"`
	Failed           int     `json:"failed" yaml:"failed"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}

func toOutput(r Result) ResultOutput {
	if r.Error != nil {
		return ResultOutput{
			URL:       r.URL,
			Status:    "failed",
			Error:     r.Error.Error(),
			ErrorType: string(models.KindOf(r.Error)),
		}
	}
	return ResultOutput{URL: r.URL, Status: "success", Summary: r.Record}
}

// buildOutput orders outputs by input position so results are stable
// regardless of which worker finished first.
func buildOutput(urls []string, results []Result) *FinalOutput {
	byURL := make(map[string][]Result, len(results))
	for _, r := range results {
		byURL[r.URL] = append(byURL[r.URL], r)
	}

	out := &FinalOutput{Status: "success", Results: make([]ResultOutput, 0, len(results))}
	for _, u := range urls {
		rs := byURL[u]
		if len(rs) == 0 {
			continue
		}
		r := rs[0]
		byURL[u] = rs[1:]

		ro := toOutput(r)
		if r.Error != nil {
			out.Stats.Failed++
		} else {
			out.Stats.Successful++
		}
		out.Results = append(out.Results, ro)
	}
	out.Stats.TotalURLs = len(urls)

	switch {
	case out.Stats.Failed == 0:
	case out.Stats.Successful == 0:
		out.Status = "failed"
	default:
		out.Status = "partial"
	}
	return out
}
