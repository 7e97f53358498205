package domain

import "time"

// AnalysisJob asks the worker to run the full pipeline over a set of URLs.
type AnalysisJob struct {
	ID         string    `json:"id"`
	URLs       []string  `json:"urls"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
