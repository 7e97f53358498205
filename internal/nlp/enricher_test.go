package nlp

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

func newTestEnricher(t *testing.T) *Enricher {
	t.Helper()
	lex, err := lexicon.Load()
	if err != nil {
		t.Fatalf("lexicon load failed: %v", err)
	}
	return NewEnricher(lex, zerolog.Nop())
}

func TestEnrichThaiArticle(t *testing.T) {
	e := newTestEnricher(t)
	raw := domain.RawArticle{
		URL:       "https://www.thairath.co.th/news/1",
		Source:    "Thairath",
		Title:     "น้ำท่วมกรุงเทพ",
		Content:   "เกิดเหตุ น้ำท่วมกรุงเทพ เมื่อ 15 มกราคม 2567 นายสมชน เปิดเผยรายละเอียด. รัฐบาลประกาศมาตรการช่วยเหลือ.",
		ScrapedAt: time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
	}
	article, err := e.Enrich(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Language != domain.LangThai {
		t.Fatalf("expected thai, got %s", article.Language)
	}
	if len(article.Tokens) == 0 {
		t.Fatalf("expected tokens")
	}
	if article.WordCount != len(article.Tokens) {
		t.Fatalf("word count %d does not match %d tokens", article.WordCount, len(article.Tokens))
	}
	for _, entityType := range domain.EntityTypes {
		if _, ok := article.Entities[entityType]; !ok {
			t.Fatalf("expected entity type %s present", entityType)
		}
	}
	if len(article.Entities[domain.EntityPerson]) == 0 {
		t.Fatalf("expected a person entity")
	}
	if len(article.Keywords) == 0 {
		t.Fatalf("expected keywords")
	}
	if len(article.Events) == 0 {
		t.Fatalf("expected events")
	}
	if len(article.ContentDates) != 1 {
		t.Fatalf("expected 1 content date, got %+v", article.ContentDates)
	}
	if article.SentenceCount < 2 {
		t.Fatalf("expected at least 2 sentences, got %d", article.SentenceCount)
	}
	if article.ProcessedAt.IsZero() {
		t.Fatalf("expected processed timestamp")
	}
	if len(article.Degraded) != 0 {
		t.Fatalf("expected no degraded fields, got %q", article.Degraded)
	}
}

func TestEnrichRejectsMissingFields(t *testing.T) {
	e := newTestEnricher(t)
	_, err := e.Enrich(domain.RawArticle{Title: "  ", Content: "something"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	_, err = e.Enrich(domain.RawArticle{Title: "title", Content: ""})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestEnrichDegradesKeywordsNotArticle(t *testing.T) {
	e := newTestEnricher(t)
	// Single-rune tokens are all filtered, leaving nothing to rank.
	article, err := e.Enrich(domain.RawArticle{Title: "x", Content: "ก ข ค"})
	if err != nil {
		t.Fatalf("expected degraded enrichment, not failure: %v", err)
	}
	if len(article.Keywords) != 0 {
		t.Fatalf("expected empty keywords, got %+v", article.Keywords)
	}
	if len(article.Degraded) != 1 || article.Degraded[0] != "keywords" {
		t.Fatalf("expected keywords marked degraded, got %q", article.Degraded)
	}
}
