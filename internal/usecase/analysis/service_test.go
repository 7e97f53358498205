package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

type stubScraper struct {
	failing map[string]bool
	calls   []string
}

func (s *stubScraper) Scrape(_ context.Context, url string) (domain.RawArticle, error) {
	s.calls = append(s.calls, url)
	if s.failing[url] {
		return domain.RawArticle{}, errors.New("fetch failed")
	}
	return domain.RawArticle{
		URL:       url,
		Source:    "Thairath",
		Title:     "title " + url,
		Content:   "content " + url,
		ScrapedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

type stubEnricher struct {
	failing map[string]bool
}

func (e *stubEnricher) Enrich(raw domain.RawArticle) (domain.EnrichedArticle, error) {
	if e.failing[raw.URL] {
		return domain.EnrichedArticle{}, errors.New("enrich failed")
	}
	return domain.EnrichedArticle{RawArticle: raw, Language: domain.LangThai, WordCount: 2}, nil
}

type stubComparator struct {
	compareCalls int
}

func (c *stubComparator) Compare(first, second domain.EnrichedArticle) domain.ComparisonResult {
	c.compareCalls++
	return domain.ComparisonResult{
		SimilarityScore: 0.5,
		Metadata:        domain.ComparisonMetadata{FirstID: first.ID, SecondID: second.ID},
	}
}

func (c *stubComparator) CompareMany(articles []domain.EnrichedArticle) (domain.MultiComparison, error) {
	if len(articles) < 2 {
		return domain.MultiComparison{}, errors.New("need at least 2 articles for comparison")
	}
	var pairs []domain.PairComparison
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			pairs = append(pairs, domain.PairComparison{FirstIndex: i, SecondIndex: j, SimilarityScore: 0.5})
		}
	}
	return domain.MultiComparison{Comparisons: pairs}, nil
}

type stubTimeline struct {
	got []domain.EnrichedArticle
}

func (t *stubTimeline) Generate(articles []domain.EnrichedArticle) domain.TimelineResult {
	t.got = articles
	return domain.TimelineResult{TotalArticles: len(articles), GeneratedAt: time.Now()}
}

type memRepo struct {
	articles    map[string]domain.EnrichedArticle
	analyses    map[string]domain.Analysis
	comparisons map[string]domain.StoredComparison
	seq         int
}

func newMemRepo() *memRepo {
	return &memRepo{
		articles:    map[string]domain.EnrichedArticle{},
		analyses:    map[string]domain.Analysis{},
		comparisons: map[string]domain.StoredComparison{},
	}
}

func (r *memRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("id-%d", r.seq)
}

func (r *memRepo) SaveArticles(_ context.Context, articles []domain.EnrichedArticle) ([]domain.EnrichedArticle, error) {
	saved := make([]domain.EnrichedArticle, 0, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			a.ID = r.nextID()
		}
		r.articles[a.ID] = a
		saved = append(saved, a)
	}
	return saved, nil
}

func (r *memRepo) GetArticle(_ context.Context, id string) (domain.EnrichedArticle, error) {
	a, ok := r.articles[id]
	if !ok {
		return domain.EnrichedArticle{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *memRepo) ListArticles(_ context.Context, _, _ int) ([]domain.EnrichedArticle, int, error) {
	var out []domain.EnrichedArticle
	for _, a := range r.articles {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *memRepo) SaveAnalysis(_ context.Context, a domain.Analysis) (domain.Analysis, error) {
	if a.ID == "" {
		a.ID = r.nextID()
	}
	r.analyses[a.ID] = a
	return a, nil
}

func (r *memRepo) GetAnalysis(_ context.Context, id string) (domain.Analysis, error) {
	a, ok := r.analyses[id]
	if !ok {
		return domain.Analysis{}, domain.ErrNotFound
	}
	return a, nil
}

func (r *memRepo) SaveComparison(_ context.Context, c domain.StoredComparison) (domain.StoredComparison, error) {
	if c.ID == "" {
		c.ID = r.nextID()
	}
	r.comparisons[c.ID] = c
	return c, nil
}

func (r *memRepo) GetComparison(_ context.Context, id string) (domain.StoredComparison, error) {
	c, ok := r.comparisons[id]
	if !ok {
		return domain.StoredComparison{}, domain.ErrNotFound
	}
	return c, nil
}

type memCache struct {
	values map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.values[key] = value
	return nil
}

type memQueue struct {
	jobs []domain.AnalysisJob
}

func (q *memQueue) Enqueue(_ context.Context, job domain.AnalysisJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memQueue) Pop(_ context.Context) (domain.AnalysisJob, error) {
	if len(q.jobs) == 0 {
		return domain.AnalysisJob{}, errors.New("empty")
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

type testEnv struct {
	service    *Service
	scraper    *stubScraper
	enricher   *stubEnricher
	comparator *stubComparator
	timeline   *stubTimeline
	repo       *memRepo
	cache      *memCache
	queue      *memQueue
}

func newTestEnv() *testEnv {
	env := &testEnv{
		scraper:    &stubScraper{failing: map[string]bool{}},
		enricher:   &stubEnricher{failing: map[string]bool{}},
		comparator: &stubComparator{},
		timeline:   &stubTimeline{},
		repo:       newMemRepo(),
		cache:      &memCache{values: map[string][]byte{}},
		queue:      &memQueue{},
	}
	env.service = NewService(Deps{
		Scraper:       env.scraper,
		Enricher:      env.enricher,
		Comparator:    env.comparator,
		Timeline:      env.timeline,
		Articles:      env.repo,
		Analyses:      env.repo,
		Comparisons:   env.repo,
		Cache:         env.cache,
		Queue:         env.queue,
		Logger:        zerolog.Nop(),
		EnrichWorkers: 2,
		MaxArticles:   5,
		ComparisonTTL: time.Minute,
	})
	return env
}

func TestAnalyzeURLsSkipsFailures(t *testing.T) {
	env := newTestEnv()
	env.scraper.failing["https://bad.example.com"] = true

	urls := []string{"https://a.example.com", "https://bad.example.com", "https://b.example.com"}
	analysis, err := env.service.AnalyzeURLs(context.Background(), urls)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Articles) != 2 {
		t.Fatalf("expected 2 surviving articles, got %d", len(analysis.Articles))
	}
	// Input order survives the worker pool.
	if analysis.Articles[0].URL != "https://a.example.com" || analysis.Articles[1].URL != "https://b.example.com" {
		t.Fatalf("articles out of order: %q, %q", analysis.Articles[0].URL, analysis.Articles[1].URL)
	}
	for _, a := range analysis.Articles {
		if a.ID == "" {
			t.Fatalf("expected stored articles to carry ids")
		}
	}
	if len(env.timeline.got) != 2 {
		t.Fatalf("timeline must receive saved articles, got %d", len(env.timeline.got))
	}
	if env.timeline.got[0].ID == "" {
		t.Fatalf("timeline input must carry stored ids")
	}
	if analysis.ID == "" {
		t.Fatalf("expected persisted analysis id")
	}
	if _, err := env.service.GetAnalysis(context.Background(), analysis.ID); err != nil {
		t.Fatalf("analysis not persisted: %v", err)
	}
}

func TestAnalyzeURLsValidation(t *testing.T) {
	env := newTestEnv()
	if _, err := env.service.AnalyzeURLs(context.Background(), nil); !errors.Is(err, ErrNoURLs) {
		t.Fatalf("expected ErrNoURLs, got %v", err)
	}

	many := make([]string, 6)
	for i := range many {
		many[i] = fmt.Sprintf("https://example.com/%d", i)
	}
	if _, err := env.service.AnalyzeURLs(context.Background(), many); !errors.Is(err, ErrTooManyURLs) {
		t.Fatalf("expected ErrTooManyURLs, got %v", err)
	}
}

func TestAnalyzeURLsAllFailing(t *testing.T) {
	env := newTestEnv()
	env.scraper.failing["https://bad1.example.com"] = true
	env.scraper.failing["https://bad2.example.com"] = true
	_, err := env.service.AnalyzeURLs(context.Background(), []string{"https://bad1.example.com", "https://bad2.example.com"})
	if !errors.Is(err, ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
}

func TestAnalyzeURLsEnrichmentFailureSkipsArticle(t *testing.T) {
	env := newTestEnv()
	env.enricher.failing["https://broken.example.com"] = true
	analysis, err := env.service.AnalyzeURLs(context.Background(), []string{"https://ok.example.com", "https://broken.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.Articles) != 1 || analysis.Articles[0].URL != "https://ok.example.com" {
		t.Fatalf("expected only the enrichable article, got %+v", analysis.Articles)
	}
}

func TestCompareStoredCaches(t *testing.T) {
	env := newTestEnv()
	saved, err := env.repo.SaveArticles(context.Background(), []domain.EnrichedArticle{
		{RawArticle: domain.RawArticle{Title: "a", Content: "a"}},
		{RawArticle: domain.RawArticle{Title: "b", Content: "b"}},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	first, err := env.service.CompareStored(context.Background(), saved[0].ID, saved[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected persisted comparison id")
	}
	if env.comparator.compareCalls != 1 {
		t.Fatalf("expected 1 comparison, got %d", env.comparator.compareCalls)
	}

	second, err := env.service.CompareStored(context.Background(), saved[0].ID, saved[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.comparator.compareCalls != 1 {
		t.Fatalf("expected repeat served from cache, got %d comparisons", env.comparator.compareCalls)
	}
	if second.ID != first.ID {
		t.Fatalf("cached result must match stored one")
	}
}

func TestCompareStoredMissingArticle(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.CompareStored(context.Background(), "missing-1", "missing-2")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompareBatch(t *testing.T) {
	env := newTestEnv()
	saved, err := env.repo.SaveArticles(context.Background(), []domain.EnrichedArticle{
		{RawArticle: domain.RawArticle{Title: "a"}},
		{RawArticle: domain.RawArticle{Title: "b"}},
		{RawArticle: domain.RawArticle{Title: "c"}},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	multi, err := env.service.CompareBatch(context.Background(), []string{saved[0].ID, saved[1].ID, saved[2].ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(multi.Comparisons) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(multi.Comparisons))
	}
}

func TestEnqueueAnalysis(t *testing.T) {
	env := newTestEnv()
	job, err := env.service.EnqueueAnalysis(context.Background(), []string{"https://example.com/1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" || job.EnqueuedAt.IsZero() {
		t.Fatalf("expected populated job, got %+v", job)
	}
	if len(env.queue.jobs) != 1 || env.queue.jobs[0].ID != job.ID {
		t.Fatalf("job not enqueued: %+v", env.queue.jobs)
	}
	if _, err := env.service.EnqueueAnalysis(context.Background(), nil); !errors.Is(err, ErrNoURLs) {
		t.Fatalf("expected ErrNoURLs, got %v", err)
	}
}

func TestComparisonCacheKeyIsOrderSensitive(t *testing.T) {
	key1 := comparisonCacheKey("a", "b")
	key2 := comparisonCacheKey("b", "a")
	if key1 == key2 {
		t.Fatalf("swapped ids must produce distinct keys")
	}
	if !strings.HasPrefix(key1, "comparison:") {
		t.Fatalf("unexpected key format %q", key1)
	}
}
