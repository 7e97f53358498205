package nlp

import (
	"errors"
	"math"
	"sort"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

// ErrEmptyVocabulary is returned when no terms survive filtering, e.g. when
// every token was a stopword. Callers degrade to an empty keyword list.
var ErrEmptyVocabulary = errors.New("keyword extraction: empty vocabulary")

const defaultMaxKeywords = 10

// KeywordExtractor ranks unigram and bigram terms of a single document by
// TF-IDF. With a one-document corpus the smoothed IDF is constant, so the
// ranking reduces to l2-normalized term frequency.
type KeywordExtractor struct {
	maxKeywords int
}

// NewKeywordExtractor builds an extractor; maxKeywords <= 0 uses the default.
func NewKeywordExtractor(maxKeywords int) *KeywordExtractor {
	if maxKeywords <= 0 {
		maxKeywords = defaultMaxKeywords
	}
	return &KeywordExtractor{maxKeywords: maxKeywords}
}

// Extract ranks terms built from the already-filtered token sequence. Ties
// break lexicographically so repeated runs agree.
func (e *KeywordExtractor) Extract(tokens []string) ([]domain.Keyword, error) {
	counts := make(map[string]float64)
	for _, term := range ngramTerms(tokens) {
		counts[term]++
	}
	if len(counts) == 0 {
		return nil, ErrEmptyVocabulary
	}

	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	norm = math.Sqrt(norm)

	keywords := make([]domain.Keyword, 0, len(counts))
	for term, c := range counts {
		score := c / norm
		if score <= 0 {
			continue
		}
		keywords = append(keywords, domain.Keyword{Keyword: term, Score: score})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})
	if len(keywords) > e.maxKeywords {
		keywords = keywords[:e.maxKeywords]
	}
	return keywords, nil
}

// ngramTerms returns the unigrams plus space-joined bigrams of consecutive
// tokens.
func ngramTerms(tokens []string) []string {
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
