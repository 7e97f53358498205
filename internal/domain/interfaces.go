package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when an id does not exist.
var ErrNotFound = errors.New("document not found")

// Scraper fetches a single article and extracts its raw fields.
type Scraper interface {
	Scrape(ctx context.Context, url string) (RawArticle, error)
}

// Enricher runs the NLP pipeline over one raw article.
type Enricher interface {
	Enrich(article RawArticle) (EnrichedArticle, error)
}

// Comparator computes pairwise similarity between enriched articles.
type Comparator interface {
	Compare(first, second EnrichedArticle) ComparisonResult
	CompareMany(articles []EnrichedArticle) (MultiComparison, error)
}

// TimelineBuilder groups enriched articles into a chronological timeline.
type TimelineBuilder interface {
	Generate(articles []EnrichedArticle) TimelineResult
}

// ArticleRepo stores enriched articles as opaque documents.
type ArticleRepo interface {
	SaveArticles(ctx context.Context, articles []EnrichedArticle) ([]EnrichedArticle, error)
	GetArticle(ctx context.Context, id string) (EnrichedArticle, error)
	ListArticles(ctx context.Context, page, perPage int) ([]EnrichedArticle, int, error)
}

// AnalysisRepo stores full analysis runs.
type AnalysisRepo interface {
	SaveAnalysis(ctx context.Context, analysis Analysis) (Analysis, error)
	GetAnalysis(ctx context.Context, id string) (Analysis, error)
}

// ComparisonRepo stores comparison results.
type ComparisonRepo interface {
	SaveComparison(ctx context.Context, comparison StoredComparison) (StoredComparison, error)
	GetComparison(ctx context.Context, id string) (StoredComparison, error)
}

// Cache is a simple TTL byte store.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AnalysisQueue moves analysis jobs between the API and the worker.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, job AnalysisJob) error
	Pop(ctx context.Context) (AnalysisJob, error)
}
