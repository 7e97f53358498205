package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/metrics"
)

const minContentLength = 100

// ErrEmptyArticle is returned when a page yields no usable title or content.
var ErrEmptyArticle = errors.New("page has no usable title or content")

// sourceNames maps known news domains to display names. Unknown domains fall
// back to the bare domain.
var sourceNames = map[string]string{
	"thairath.co.th":     "Thairath",
	"kapook.com":         "Kapook",
	"bangkokpost.com":    "Bangkok Post",
	"nationthailand.com": "The Nation Thailand",
	"khaosod.co.th":      "Khaosod",
	"matichon.co.th":     "Matichon",
	"manager.co.th":      "Manager",
	"thaipbs.or.th":      "Thai PBS",
	"sanook.com":         "Sanook",
	"dailynews.co.th":    "Daily News",
}

var (
	titleSelectors = []string{
		"h1",
		".headline",
		".title",
		".article-title",
		".post-title",
		"h1.entry-title",
		`[property="og:title"]`,
	}
	contentSelectors = []string{
		".article-content",
		".entry-content",
		".post-content",
		".content",
		".article-body",
		`[property="articleBody"]`,
		".story-body",
		".news-content",
	}
	dateSelectors = []string{
		`meta[property="article:published_time"]`,
		`meta[name="publishdate"]`,
		`meta[name="date"]`,
		"time[datetime]",
		".publish-date",
		".date",
		".article-date",
	}
	authorSelectors = []string{
		`meta[name="author"]`,
		".author",
		".byline",
		".article-author",
		`[rel="author"]`,
	}
	tagSelectors = []string{
		".tags a",
		".categories a",
		".tag",
		".category",
		`meta[name="keywords"]`,
	}

	publishedLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02/01/2006",
		"January 2, 2006",
		"2 January 2006",
	}

	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// HTTPScraper fetches news pages and extracts raw article fields by trying a
// fixed list of selectors per field, most specific first.
type HTTPScraper struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
	now       func() time.Time
}

var _ domain.Scraper = (*HTTPScraper)(nil)

// New builds the scraper. A nil client gets a 30 second timeout default.
func New(client *http.Client, userAgent string, logger zerolog.Logger) *HTTPScraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	return &HTTPScraper{
		client:    client,
		userAgent: userAgent,
		log:       logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Scrape fetches one article page and extracts its fields.
func (s *HTTPScraper) Scrape(ctx context.Context, pageURL string) (domain.RawArticle, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		metrics.ScrapeErrors.Inc()
		return domain.RawArticle{}, err
	}

	// Strip boilerplate before any text extraction.
	doc.Find("script, style, nav, header, footer, aside").Remove()

	article := domain.RawArticle{
		URL:           pageURL,
		Source:        SourceName(pageURL),
		Title:         extractTitle(doc),
		Content:       extractContent(doc),
		PublishedDate: extractPublishedDate(doc),
		Author:        extractAuthor(doc),
		Tags:          extractTags(doc),
		ScrapedAt:     s.now(),
	}

	if article.Title == "" || article.Content == "" {
		metrics.ScrapeErrors.Inc()
		s.log.Warn().Str("url", pageURL).Msg("scraped page is empty")
		return domain.RawArticle{}, fmt.Errorf("%s: %w", pageURL, ErrEmptyArticle)
	}

	s.log.Debug().
		Str("url", pageURL).
		Str("source", article.Source).
		Int("content_len", len(article.Content)).
		Msg("article scraped")
	return article, nil
}

func (s *HTTPScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.ObserveNetworkRequest("http", "scrape", hostOf(pageURL), start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// SourceName resolves a URL to a known source display name.
func SourceName(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return "Unknown"
	}
	domainName := strings.ToLower(parsed.Hostname())
	domainName = strings.TrimPrefix(domainName, "www.")
	if name, ok := sourceNames[domainName]; ok {
		return name
	}
	return domainName
}

func hostOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "unknown"
	}
	return parsed.Hostname()
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range titleSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractContent(doc *goquery.Document) string {
	var builder strings.Builder
	for _, selector := range contentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		sel.Each(func(_ int, node *goquery.Selection) {
			builder.WriteString(node.Text())
			builder.WriteString("\n")
		})
		break
	}

	// No recognised content area: fall back to substantial paragraphs.
	if strings.TrimSpace(builder.String()) == "" {
		doc.Find("p").Each(func(_ int, node *goquery.Selection) {
			text := strings.TrimSpace(node.Text())
			if len([]rune(text)) > 50 {
				builder.WriteString(text)
				builder.WriteString("\n")
			}
		})
	}

	content := strings.TrimSpace(whitespaceExpr.ReplaceAllString(builder.String(), " "))
	if len([]rune(content)) <= minContentLength {
		return ""
	}
	return content
}

func extractPublishedDate(doc *goquery.Document) *time.Time {
	for _, selector := range dateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		raw, ok := sel.Attr("content")
		if !ok {
			raw, ok = sel.Attr("datetime")
		}
		if !ok {
			raw = sel.Text()
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if parsed, ok := parsePublishedDate(raw); ok {
			return &parsed
		}
	}
	return nil
}

func parsePublishedDate(raw string) (time.Time, bool) {
	for _, layout := range publishedLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func extractAuthor(doc *goquery.Document) string {
	for _, selector := range authorSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}
	return ""
}

func extractTags(doc *goquery.Document) []string {
	seen := map[string]struct{}{}
	for _, selector := range tagSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		sel.Each(func(_ int, node *goquery.Selection) {
			if goquery.NodeName(node) == "meta" {
				content, _ := node.Attr("content")
				for _, tag := range strings.Split(content, ",") {
					if tag = strings.TrimSpace(tag); tag != "" {
						seen[tag] = struct{}{}
					}
				}
				return
			}
			if text := strings.TrimSpace(node.Text()); text != "" {
				seen[text] = struct{}{}
			}
		})
		break
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
