package nlp

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

// ErrMissingFields is returned for articles without title or content; such
// records are excluded rather than partially enriched.
var ErrMissingFields = errors.New("article is missing title or content")

// Enricher orchestrates the per-article pipeline: language detection,
// tokenization, entity/keyword/event/date extraction. A failing sub-extractor
// degrades to its empty default and is recorded in Degraded; it never aborts
// the article.
type Enricher struct {
	tokenizer *Tokenizer
	entities  *EntityExtractor
	keywords  *KeywordExtractor
	events    *EventExtractor
	dates     *DateExtractor
	log       zerolog.Logger
	now       func() time.Time
}

// NewEnricher builds the full pipeline over the given lexicon.
func NewEnricher(lex lexicon.Lexicon, logger zerolog.Logger) *Enricher {
	return &Enricher{
		tokenizer: NewTokenizer(lex),
		entities:  NewEntityExtractor(),
		keywords:  NewKeywordExtractor(defaultMaxKeywords),
		events:    NewEventExtractor(),
		dates:     NewDateExtractor(),
		log:       logger,
		now:       time.Now,
	}
}

var sentenceSplit = regexp.MustCompile(`[.!?]`)

// Enrich produces exactly one EnrichedArticle for a valid raw article.
func (e *Enricher) Enrich(raw domain.RawArticle) (domain.EnrichedArticle, error) {
	if strings.TrimSpace(raw.Title) == "" || strings.TrimSpace(raw.Content) == "" {
		return domain.EnrichedArticle{}, ErrMissingFields
	}

	lang := DetectLanguage(raw.Content)
	article := domain.EnrichedArticle{
		RawArticle: raw,
		Language:   lang,
	}

	article.Tokens = e.tokenizer.Tokenize(raw.Content, lang)
	article.Entities = e.entities.Extract(raw.Content, lang)

	keywords, err := e.keywords.Extract(article.Tokens)
	if err != nil {
		e.log.Debug().Err(err).Str("url", raw.URL).Msg("keyword extraction degraded")
		article.Degraded = append(article.Degraded, "keywords")
		keywords = []domain.Keyword{}
	}
	article.Keywords = keywords

	article.Events = e.events.Extract(raw.Content, lang)
	article.ContentDates = e.dates.Extract(raw.Content)
	article.WordCount = len(article.Tokens)
	article.SentenceCount = len(sentenceSplit.Split(raw.Content, -1))
	article.ProcessedAt = e.now().UTC()
	return article, nil
}
