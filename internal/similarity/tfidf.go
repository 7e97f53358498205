package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

const maxFeatures = 1000

// contentSimilarity is the cosine similarity of TF-IDF vectors built over the
// two contents treated as a two-document corpus (unigrams and bigrams,
// vocabulary capped at maxFeatures by collection frequency). Empty content on
// either side yields 0.
func contentSimilarity(content1, content2 string, lang domain.Language, englishStop lexicon.StringSet) float64 {
	if strings.TrimSpace(content1) == "" || strings.TrimSpace(content2) == "" {
		return 0.0
	}
	terms1 := docTerms(content1, lang, englishStop)
	terms2 := docTerms(content2, lang, englishStop)
	if len(terms1) == 0 || len(terms2) == 0 {
		return 0.0
	}

	counts1 := termCounts(terms1)
	counts2 := termCounts(terms2)
	vocab := buildVocabulary(counts1, counts2)
	if len(vocab) == 0 {
		return 0.0
	}

	vec1 := tfidfVector(counts1, counts2, vocab)
	vec2 := tfidfVector(counts2, counts1, vocab)
	return cosine(vec1, vec2)
}

// docTerms cleans a content string and expands it into unigram and bigram
// terms. Cleaning lower-cases and replaces non-alphanumeric runes with
// spaces; tokens shorter than two runes are dropped, and English documents
// additionally drop stopwords.
func docTerms(content string, lang domain.Language, englishStop lexicon.StringSet) []string {
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range strings.ToLower(content) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if lang == domain.LangEnglish && englishStop.Contains(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func termCounts(terms []string) map[string]float64 {
	counts := make(map[string]float64, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// buildVocabulary keeps at most maxFeatures terms, preferring higher
// collection frequency; ties break lexicographically.
func buildVocabulary(counts1, counts2 map[string]float64) []string {
	total := make(map[string]float64, len(counts1)+len(counts2))
	for t, c := range counts1 {
		total[t] += c
	}
	for t, c := range counts2 {
		total[t] += c
	}
	vocab := make([]string, 0, len(total))
	for t := range total {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}
	return vocab
}

// tfidfVector computes the l2-normalized TF-IDF weights for own against the
// two-document corpus, using smoothed IDF: ln((1+n)/(1+df)) + 1 with n=2.
func tfidfVector(own, other map[string]float64, vocab []string) []float64 {
	vec := make([]float64, len(vocab))
	var norm float64
	for i, term := range vocab {
		tf := own[term]
		if tf == 0 {
			continue
		}
		df := 1.0
		if other[term] > 0 {
			df = 2.0
		}
		idf := math.Log(3.0/(1.0+df)) + 1.0
		w := tf * idf
		vec[i] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0.0
	}
	return dot
}
