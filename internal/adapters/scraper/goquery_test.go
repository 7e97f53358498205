package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title | Site</title>
	<meta property="article:published_time" content="2024-01-15T10:30:00Z">
	<meta name="author" content="Somchai J.">
	<meta name="keywords" content="thailand, flood , news">
	<script>var tracking = true;</script>
</head>
<body>
	<nav>Site navigation</nav>
	<h1>Flood warning issued for Bangkok</h1>
	<div class="article-content">
		<p>Authorities issued a flood warning for Bangkok on Monday after heavy rain.
		Residents in low-lying districts were told to prepare for rising water levels
		over the coming days as the river continues to swell.</p>
	</div>
	<footer>Copyright</footer>
</body>
</html>`

func TestScrapeExtractsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	s := New(srv.Client(), "test-agent", zerolog.Nop())
	article, err := s.Scrape(context.Background(), srv.URL+"/news/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "Flood warning issued for Bangkok" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if !strings.Contains(article.Content, "flood warning for Bangkok") {
		t.Fatalf("unexpected content %q", article.Content)
	}
	if strings.Contains(article.Content, "Site navigation") || strings.Contains(article.Content, "tracking") {
		t.Fatalf("boilerplate leaked into content: %q", article.Content)
	}
	if article.PublishedDate == nil || !article.PublishedDate.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected published date %v", article.PublishedDate)
	}
	if article.Author != "Somchai J." {
		t.Fatalf("unexpected author %q", article.Author)
	}
	if len(article.Tags) != 3 || article.Tags[0] != "flood" || article.Tags[1] != "news" || article.Tags[2] != "thailand" {
		t.Fatalf("unexpected tags %q", article.Tags)
	}
	if article.ScrapedAt.IsZero() {
		t.Fatalf("expected scrape timestamp")
	}
}

func TestScrapeRejectsEmptyPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>too short</p></body></html>"))
	}))
	defer srv.Close()

	s := New(srv.Client(), "", zerolog.Nop())
	_, err := s.Scrape(context.Background(), srv.URL)
	if !errors.Is(err, ErrEmptyArticle) {
		t.Fatalf("expected ErrEmptyArticle, got %v", err)
	}
}

func TestScrapeRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(srv.Client(), "", zerolog.Nop())
	if _, err := s.Scrape(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestScrapeFallsBackToParagraphs(t *testing.T) {
	long := strings.Repeat("Paragraph content with enough words to be kept around. ", 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><h1>Headline</h1><p>" + long + "</p><p>tiny</p></body></html>"))
	}))
	defer srv.Close()

	s := New(srv.Client(), "", zerolog.Nop())
	article, err := s.Scrape(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(article.Content, "Paragraph content") {
		t.Fatalf("expected paragraph fallback, got %q", article.Content)
	}
	if strings.Contains(article.Content, "tiny") {
		t.Fatalf("short paragraphs must be dropped, got %q", article.Content)
	}
}

func TestSourceName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.thairath.co.th/news/local/1", "Thairath"},
		{"https://thaipbs.or.th/news/2", "Thai PBS"},
		{"https://www.example.org/a", "example.org"},
		{"not a url", "Unknown"},
	}
	for _, tc := range cases {
		if got := SourceName(tc.url); got != tc.want {
			t.Fatalf("SourceName(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
