package domain

import "time"

// EntityComparison holds the per-type set comparison of two articles' entities.
type EntityComparison struct {
	CommonEntities []string `json:"common_entities"`
	OnlyInFirst    []string `json:"only_in_first"`
	OnlyInSecond   []string `json:"only_in_second"`
	Similarity     float64  `json:"similarity"`
}

// KeywordComparison holds the set comparison of two articles' keyword strings.
type KeywordComparison struct {
	CommonKeywords []string `json:"common_keywords"`
	OnlyInFirst    []string `json:"only_in_first"`
	OnlyInSecond   []string `json:"only_in_second"`
	Similarity     float64  `json:"similarity"`
}

// SentimentScores are normalized to sum to 1 across the three buckets.
type SentimentScores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// SentimentComparison reports both articles' sentiment and the per-bucket
// absolute difference.
type SentimentComparison struct {
	First      SentimentScores `json:"first"`
	Second     SentimentScores `json:"second"`
	Difference SentimentScores `json:"difference"`
}

// ContentDifference is a sentence present in only one of the two articles.
type ContentDifference struct {
	Type    string `json:"type"` // "removed" (only in first) or "added" (only in second)
	Text    string `json:"text"`
	Article int    `json:"article"`
}

// ComparisonMetadata records when and between which articles a comparison ran.
type ComparisonMetadata struct {
	ComparedAt   time.Time `json:"compared_at"`
	FirstID      string    `json:"first_id,omitempty"`
	SecondID     string    `json:"second_id,omitempty"`
	FirstSource  string    `json:"first_source,omitempty"`
	SecondSource string    `json:"second_source,omitempty"`
}

// ComparisonResult is the full pairwise comparison of two enriched articles.
// It is derived and stateless; every request recomputes it.
type ComparisonResult struct {
	SimilarityScore    float64             `json:"similarity_score"`
	ContentSimilarity  float64             `json:"content_similarity"`
	EntityComparison   EntityComparison    `json:"entity_comparison"`
	KeywordComparison  KeywordComparison   `json:"keyword_comparison"`
	SentimentAnalysis  SentimentComparison `json:"sentiment_analysis"`
	ContentDifferences []ContentDifference `json:"content_differences"`
	Metadata           ComparisonMetadata  `json:"metadata"`
}

// PairComparison is one entry of a multi-article comparison.
type PairComparison struct {
	FirstIndex      int              `json:"first_index"`
	SecondIndex     int              `json:"second_index"`
	SimilarityScore float64          `json:"similarity_score"`
	Result          ComparisonResult `json:"result"`
}

// SimilarityDistribution buckets pair scores: high >0.7, medium [0.3,0.7], low <0.3.
type SimilarityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// MultiComparison is the full pairwise similarity matrix over n articles.
type MultiComparison struct {
	Comparisons       []PairComparison       `json:"comparisons"`
	Matrix            [][]float64            `json:"similarity_matrix"`
	MostSimilar       PairComparison         `json:"most_similar_pair"`
	MostDifferent     PairComparison         `json:"most_different_pair"`
	AverageSimilarity float64                `json:"average_similarity"`
	Distribution      SimilarityDistribution `json:"similarity_distribution"`
}

// StoredComparison is a persisted comparison between two stored articles.
type StoredComparison struct {
	ID        string           `json:"id"`
	FirstID   string           `json:"first_id"`
	SecondID  string           `json:"second_id"`
	Result    ComparisonResult `json:"result"`
	CreatedAt time.Time        `json:"created_at"`
}
