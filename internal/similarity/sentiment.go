package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

// analyzeSentiment scores content against the fixed positive/neutral/negative
// keyword lists via case-insensitive whole-word counting, normalized to sum
// to 1. No hits defaults to {0.3, 0.4, 0.3}; empty content is fully neutral.
func analyzeSentiment(content string, lang domain.Language, lex lexicon.SentimentLexicon) domain.SentimentScores {
	if strings.TrimSpace(content) == "" {
		return domain.SentimentScores{Positive: 0.0, Neutral: 1.0, Negative: 0.0}
	}

	lower := strings.ToLower(content)
	positive := countWholeWords(lower, lex.Positive.For(lang))
	negative := countWholeWords(lower, lex.Negative.For(lang))
	neutral := countWholeWords(lower, lex.Neutral.For(lang))

	total := positive + negative + neutral
	if total == 0 {
		return domain.SentimentScores{Positive: 0.3, Neutral: 0.4, Negative: 0.3}
	}
	return domain.SentimentScores{
		Positive: float64(positive) / float64(total),
		Neutral:  float64(neutral) / float64(total),
		Negative: float64(negative) / float64(total),
	}
}

// countWholeWords counts occurrences of each keyword whose neighbours are not
// letters or digits.
func countWholeWords(haystack string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		for offset := 0; ; {
			idx := strings.Index(haystack[offset:], needle)
			if idx < 0 {
				break
			}
			at := offset + idx
			if isWordBoundary(haystack, at) && isWordBoundary(haystack, at+len(needle)) {
				count++
			}
			offset = at + len(needle)
		}
	}
	return count
}

func isWordBoundary(s string, pos int) bool {
	if pos <= 0 || pos >= len(s) {
		return true
	}
	before, _ := utf8.DecodeLastRuneInString(s[:pos])
	after, _ := utf8.DecodeRuneInString(s[pos:])
	wordish := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	return !wordish(before) || !wordish(after)
}
