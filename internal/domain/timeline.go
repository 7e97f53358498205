package domain

import "time"

// ArticleRef is a weak reference to a stored article inside a timeline event.
type ArticleRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// TimelineEvent summarizes all articles that resolve to one calendar day.
type TimelineEvent struct {
	ID           int          `json:"id"`
	Date         string       `json:"date"` // YYYY-MM-DD
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Intensity    float64      `json:"intensity"` // 0..10
	Entities     []string     `json:"entities"`  // top 15 by frequency
	Keywords     []Keyword    `json:"keywords"`  // top 10 by aggregate score
	Sources      []string     `json:"sources"`
	ArticleCount int          `json:"article_count"`
	Articles     []ArticleRef `json:"articles"`
}

// ChartData is the parallel label/value series for timeline visualization.
type ChartData struct {
	Labels        []string  `json:"labels"`
	Intensities   []float64 `json:"intensities"`
	ArticleCounts []int     `json:"article_counts"`
}

// EntityFrequency is an entity with its corpus-wide occurrence count.
type EntityFrequency struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// TimelineStatistics are corpus-wide summary numbers for one timeline run.
type TimelineStatistics struct {
	TotalEvents        int               `json:"total_events"`
	TotalArticles      int               `json:"total_articles"`
	UniqueSources      int               `json:"unique_sources"`
	TopEntities        []EntityFrequency `json:"top_entities"`
	TopKeywords        []Keyword         `json:"top_keywords"`
	SourceDistribution map[string]int    `json:"source_distribution"`
	AverageIntensity   float64           `json:"average_intensity"`
}

// DateRange is the first and last calendar day covered by a timeline.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// TimelineResult is the full output of one timeline generation run. Events
// are ordered by date ascending.
type TimelineResult struct {
	Events        []TimelineEvent    `json:"events"`
	ChartData     ChartData          `json:"chart_data"`
	Statistics    TimelineStatistics `json:"statistics"`
	DateRange     DateRange          `json:"date_range"`
	TotalArticles int                `json:"total_articles"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// Analysis is a persisted run of the full pipeline over a set of URLs.
type Analysis struct {
	ID        string            `json:"id"`
	URLs      []string          `json:"urls"`
	Articles  []EnrichedArticle `json:"articles"`
	Timeline  TimelineResult    `json:"timeline"`
	CreatedAt time.Time         `json:"created_at"`
}
