package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

// Tokenizer splits text into word tokens and drops stopwords. Thai and mixed
// text goes through dictionary-based longest-match segmentation; English text
// through Unicode word boundaries. Given the same lexicon the output is
// deterministic.
type Tokenizer struct {
	thaiStop    lexicon.StringSet
	englishStop lexicon.StringSet
	dict        *thaiDict
}

// NewTokenizer builds a tokenizer over the given lexicon.
func NewTokenizer(lex lexicon.Lexicon) *Tokenizer {
	return &Tokenizer{
		thaiStop:    lex.ThaiStopwords,
		englishStop: lex.EnglishStopwords,
		dict:        newThaiDict(lex.ThaiWords),
	}
}

// Tokenize returns the token sequence in original appearance order,
// duplicates retained.
func (t *Tokenizer) Tokenize(text string, lang domain.Language) []string {
	if lang == domain.LangEnglish {
		return t.tokenizeEnglish(text)
	}
	return t.tokenizeThai(text)
}

// tokenizeEnglish lower-cases, segments on Unicode word boundaries and drops
// stopwords and tokens of length <= 2.
func (t *Tokenizer) tokenizeEnglish(text string) []string {
	var tokens []string
	it := words.FromString(strings.ToLower(text))
	for it.Next() {
		tok := it.Value()
		if !hasAlnum(tok) {
			continue
		}
		if t.englishStop.Contains(tok) || utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// tokenizeThai segments Thai-script runs with the dictionary and everything
// else with Unicode word boundaries, then drops Thai stopwords and tokens of
// length <= 1.
func (t *Tokenizer) tokenizeThai(text string) []string {
	var raw []string
	flush := func(chunk string, thai bool) {
		if chunk == "" {
			return
		}
		if thai {
			raw = append(raw, t.dict.segment(chunk)...)
			return
		}
		it := words.FromString(chunk)
		for it.Next() {
			if tok := it.Value(); hasAlnum(tok) {
				raw = append(raw, tok)
			}
		}
	}

	var run []rune
	runThai := false
	for _, r := range text {
		thai := isThaiRune(r)
		if len(run) > 0 && thai != runThai {
			flush(string(run), runThai)
			run = run[:0]
		}
		run = append(run, r)
		runThai = thai
	}
	flush(string(run), runThai)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		if t.thaiStop.Contains(tok) || utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func isThaiRune(r rune) bool {
	return r >= 0x0E00 && r <= 0x0E7F
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// thaiDict is a longest-match segmenter over a fixed word list. Substrings
// with no dictionary match are emitted as single unknown chunks.
type thaiDict struct {
	words  map[string]struct{}
	maxLen int
}

func newThaiDict(wordList []string) *thaiDict {
	d := &thaiDict{words: make(map[string]struct{}, len(wordList))}
	for _, w := range wordList {
		d.words[w] = struct{}{}
		if n := utf8.RuneCountInString(w); n > d.maxLen {
			d.maxLen = n
		}
	}
	return d
}

func (d *thaiDict) segment(run string) []string {
	runes := []rune(run)
	var out []string
	var unknown []rune
	for i := 0; i < len(runes); {
		limit := d.maxLen
		if rest := len(runes) - i; rest < limit {
			limit = rest
		}
		matched := 0
		for l := limit; l >= 1; l-- {
			if _, ok := d.words[string(runes[i:i+l])]; ok {
				matched = l
				break
			}
		}
		if matched == 0 {
			unknown = append(unknown, runes[i])
			i++
			continue
		}
		if len(unknown) > 0 {
			out = append(out, string(unknown))
			unknown = unknown[:0]
		}
		out = append(out, string(runes[i:i+matched]))
		i += matched
	}
	if len(unknown) > 0 {
		out = append(out, string(unknown))
	}
	return out
}
