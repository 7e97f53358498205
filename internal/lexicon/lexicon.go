// Package lexicon loads the fixed language tables the engine depends on:
// stopword sets, the Thai segmentation dictionary, sentiment keyword lists
// and per-source credibility scores. All data is embedded and parsed once;
// the resulting Lexicon is immutable and safe for concurrent use.
package lexicon

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

//go:embed data/stopwords.yaml
var stopwordsYAML []byte

//go:embed data/sentiment.yaml
var sentimentYAML []byte

//go:embed data/credibility.yaml
var credibilityYAML []byte

//go:embed data/thai_words.txt
var thaiWordsTxt string

// StringSet is an immutable membership set.
type StringSet map[string]struct{}

// Contains reports whether v is in the set.
func (s StringSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// LanguageLists holds one keyword list per supported language.
type LanguageLists struct {
	Thai    []string `yaml:"th"`
	English []string `yaml:"en"`
}

// For returns the list for the given language. Mixed text uses the Thai
// list, matching the tokenizer's th/mixed pairing.
func (l LanguageLists) For(lang domain.Language) []string {
	if lang == domain.LangEnglish {
		return l.English
	}
	return l.Thai
}

// SentimentLexicon holds the positive/negative/neutral keyword lists.
type SentimentLexicon struct {
	Positive LanguageLists `yaml:"positive"`
	Negative LanguageLists `yaml:"negative"`
	Neutral  LanguageLists `yaml:"neutral"`
}

// Lexicon bundles all fixed tables. Construct via Load or MustLoad and
// inject it; nothing here is mutated after loading.
type Lexicon struct {
	ThaiStopwords     StringSet
	EnglishStopwords  StringSet
	ThaiWords         []string
	Sentiment         SentimentLexicon
	SourceCredibility map[string]float64
}

type stopwordsFile struct {
	Thai    []string `yaml:"th"`
	English []string `yaml:"en"`
}

type credibilityFile struct {
	Sources map[string]float64 `yaml:"sources"`
}

// Load parses the embedded tables.
func Load() (Lexicon, error) {
	var stops stopwordsFile
	if err := yaml.Unmarshal(stopwordsYAML, &stops); err != nil {
		return Lexicon{}, fmt.Errorf("parse stopwords: %w", err)
	}

	var sentiment SentimentLexicon
	if err := yaml.Unmarshal(sentimentYAML, &sentiment); err != nil {
		return Lexicon{}, fmt.Errorf("parse sentiment lists: %w", err)
	}

	var cred credibilityFile
	if err := yaml.Unmarshal(credibilityYAML, &cred); err != nil {
		return Lexicon{}, fmt.Errorf("parse credibility scores: %w", err)
	}

	lex := Lexicon{
		ThaiStopwords:     toSet(stops.Thai),
		EnglishStopwords:  toSet(stops.English),
		Sentiment:         sentiment,
		SourceCredibility: cred.Sources,
	}

	// Stopwords join the segmentation dictionary so they still come out as
	// standalone tokens before filtering drops them.
	seen := make(map[string]struct{})
	for _, line := range strings.Split(thaiWordsTxt, "\n") {
		word := strings.TrimSpace(line)
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		lex.ThaiWords = append(lex.ThaiWords, word)
	}
	for _, word := range stops.Thai {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		lex.ThaiWords = append(lex.ThaiWords, word)
	}

	return lex, nil
}

// MustLoad is Load for wiring code; the embedded data is part of the build,
// so a parse failure is a programming error.
func MustLoad() Lexicon {
	lex, err := Load()
	if err != nil {
		panic(err)
	}
	return lex
}

func toSet(words []string) StringSet {
	set := make(StringSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
