package similarity

import (
	"errors"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

// ErrNotEnoughArticles is returned by CompareMany for fewer than two inputs.
var ErrNotEnoughArticles = errors.New("need at least 2 articles for comparison")

// Overall similarity weights.
const (
	contentWeight = 0.5
	entityWeight  = 0.3
	keywordWeight = 0.2
)

const maxDifferencesPerSide = 5

// Comparator computes multi-factor similarity between enriched articles.
// It is stateless apart from the injected lexicon and safe for concurrent use.
type Comparator struct {
	lex     lexicon.Lexicon
	workers int
	now     func() time.Time
}

var _ domain.Comparator = (*Comparator)(nil)

// NewComparator builds a comparator over the given lexicon.
func NewComparator(lex lexicon.Lexicon) *Comparator {
	return &Comparator{lex: lex, workers: runtime.GOMAXPROCS(0), now: time.Now}
}

// Compare produces the full pairwise comparison. It is symmetric up to
// floating-point rounding.
func (c *Comparator) Compare(first, second domain.EnrichedArticle) domain.ComparisonResult {
	lang := first.Language

	contentSim := contentSimilarity(first.Content, second.Content, lang, c.lex.EnglishStopwords)
	entityCmp := compareEntities(first.Entities, second.Entities)
	keywordCmp := compareKeywords(first.Keywords, second.Keywords)

	sentimentFirst := analyzeSentiment(first.Content, lang, c.lex.Sentiment)
	sentimentSecond := analyzeSentiment(second.Content, lang, c.lex.Sentiment)

	overall := contentWeight*contentSim + entityWeight*entityCmp.Similarity + keywordWeight*keywordCmp.Similarity

	return domain.ComparisonResult{
		SimilarityScore:   clamp01(overall),
		ContentSimilarity: contentSim,
		EntityComparison:  entityCmp,
		KeywordComparison: keywordCmp,
		SentimentAnalysis: domain.SentimentComparison{
			First:  sentimentFirst,
			Second: sentimentSecond,
			Difference: domain.SentimentScores{
				Positive: abs(sentimentFirst.Positive - sentimentSecond.Positive),
				Neutral:  abs(sentimentFirst.Neutral - sentimentSecond.Neutral),
				Negative: abs(sentimentFirst.Negative - sentimentSecond.Negative),
			},
		},
		ContentDifferences: contentDifferences(first.Content, second.Content),
		Metadata: domain.ComparisonMetadata{
			ComparedAt:   c.now().UTC(),
			FirstID:      first.ID,
			SecondID:     second.ID,
			FirstSource:  first.Source,
			SecondSource: second.Source,
		},
	}
}

// CompareMany computes the full pairwise similarity matrix, the argmax and
// argmin pairs and the high/medium/low score distribution. Pairs are compared
// across a bounded worker pool; results are deterministic.
func (c *Comparator) CompareMany(articles []domain.EnrichedArticle) (domain.MultiComparison, error) {
	n := len(articles)
	if n < 2 {
		return domain.MultiComparison{}, ErrNotEnoughArticles
	}

	type pairIndex struct{ i, j int }
	var pairs []pairIndex
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pairIndex{i, j})
		}
	}

	results := make([]domain.PairComparison, len(pairs))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := c.workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p := pairs[idx]
				result := c.Compare(articles[p.i], articles[p.j])
				results[idx] = domain.PairComparison{
					FirstIndex:      p.i,
					SecondIndex:     p.j,
					SimilarityScore: result.SimilarityScore,
					Result:          result,
				}
			}
		}()
	}
	for idx := range pairs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	var sum float64
	var dist domain.SimilarityDistribution
	mostSimilar, mostDifferent := 0, 0
	for idx, pc := range results {
		matrix[pc.FirstIndex][pc.SecondIndex] = pc.SimilarityScore
		matrix[pc.SecondIndex][pc.FirstIndex] = pc.SimilarityScore
		sum += pc.SimilarityScore
		switch {
		case pc.SimilarityScore > 0.7:
			dist.High++
		case pc.SimilarityScore >= 0.3:
			dist.Medium++
		default:
			dist.Low++
		}
		if pc.SimilarityScore > results[mostSimilar].SimilarityScore {
			mostSimilar = idx
		}
		if pc.SimilarityScore < results[mostDifferent].SimilarityScore {
			mostDifferent = idx
		}
	}

	return domain.MultiComparison{
		Comparisons:       results,
		Matrix:            matrix,
		MostSimilar:       results[mostSimilar],
		MostDifferent:     results[mostDifferent],
		AverageSimilarity: sum / float64(len(results)),
		Distribution:      dist,
	}, nil
}

// compareEntities runs the per-type set comparison and the Dice coefficient
// over the combined entity totals.
func compareEntities(first, second map[domain.EntityType][]string) domain.EntityComparison {
	var common, onlyFirst, onlySecond []string
	totalFirst, totalSecond := 0, 0

	types := make(map[domain.EntityType]struct{})
	for t := range first {
		types[t] = struct{}{}
	}
	for t := range second {
		types[t] = struct{}{}
	}

	for _, entityType := range domain.EntityTypes {
		if _, ok := types[entityType]; !ok {
			continue
		}
		setFirst := toStringSet(first[entityType])
		setSecond := toStringSet(second[entityType])
		totalFirst += len(setFirst)
		totalSecond += len(setSecond)
		for v := range setFirst {
			if _, ok := setSecond[v]; ok {
				common = append(common, v)
			} else {
				onlyFirst = append(onlyFirst, v)
			}
		}
		for v := range setSecond {
			if _, ok := setFirst[v]; !ok {
				onlySecond = append(onlySecond, v)
			}
		}
	}
	sort.Strings(common)
	sort.Strings(onlyFirst)
	sort.Strings(onlySecond)

	similarity := 0.0
	if total := totalFirst + totalSecond; total > 0 {
		similarity = 2.0 * float64(len(common)) / float64(total)
	}
	return domain.EntityComparison{
		CommonEntities: common,
		OnlyInFirst:    onlyFirst,
		OnlyInSecond:   onlySecond,
		Similarity:     similarity,
	}
}

// compareKeywords applies the Dice coefficient to the keyword string sets;
// scores are ignored for the set operation.
func compareKeywords(first, second []domain.Keyword) domain.KeywordComparison {
	setFirst := make(map[string]struct{}, len(first))
	for _, kw := range first {
		if s := strings.TrimSpace(kw.Keyword); s != "" {
			setFirst[s] = struct{}{}
		}
	}
	setSecond := make(map[string]struct{}, len(second))
	for _, kw := range second {
		if s := strings.TrimSpace(kw.Keyword); s != "" {
			setSecond[s] = struct{}{}
		}
	}

	var common, onlyFirst, onlySecond []string
	for v := range setFirst {
		if _, ok := setSecond[v]; ok {
			common = append(common, v)
		} else {
			onlyFirst = append(onlyFirst, v)
		}
	}
	for v := range setSecond {
		if _, ok := setFirst[v]; !ok {
			onlySecond = append(onlySecond, v)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyFirst)
	sort.Strings(onlySecond)

	similarity := 0.0
	if total := len(setFirst) + len(setSecond); total > 0 {
		similarity = 2.0 * float64(len(common)) / float64(total)
	}
	return domain.KeywordComparison{
		CommonKeywords: common,
		OnlyInFirst:    onlyFirst,
		OnlyInSecond:   onlySecond,
		Similarity:     similarity,
	}
}

var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// contentDifferences is the sentence-level set difference, capped at five
// results per side and filtered to sentences longer than 30 runes. Set-based
// by design: reordered identical sentences never show up, paraphrases always
// do.
func contentDifferences(content1, content2 string) []domain.ContentDifference {
	sentences1 := splitSentences(content1)
	sentences2 := splitSentences(content2)
	set1 := toStringSet(sentences1)
	set2 := toStringSet(sentences2)

	var diffs []domain.ContentDifference
	appendSide := func(sentences []string, other map[string]struct{}, diffType string, article int) {
		added := 0
		seen := make(map[string]struct{})
		for _, s := range sentences {
			if added == maxDifferencesPerSide {
				break
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			if _, ok := other[s]; ok {
				continue
			}
			if utf8.RuneCountInString(s) <= 30 {
				continue
			}
			diffs = append(diffs, domain.ContentDifference{Type: diffType, Text: s, Article: article})
			added++
		}
	}
	appendSide(sentences1, set2, "removed", 1)
	appendSide(sentences2, set1, "added", 2)
	return diffs
}

func splitSentences(content string) []string {
	var sentences []string
	for _, part := range sentenceBoundary.Split(content, -1) {
		s := strings.TrimSpace(part)
		if utf8.RuneCountInString(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func toStringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
