package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/metrics"
)

// ErrNoURLs is returned when an analysis request carries no URLs.
var ErrNoURLs = errors.New("no urls to analyze")

// ErrNoArticles is returned when no URL yielded a usable article.
var ErrNoArticles = errors.New("no articles could be scraped")

// ErrTooManyURLs is returned when a request exceeds the per-run URL limit.
var ErrTooManyURLs = errors.New("too many urls in one request")

// Service runs the full pipeline: scrape, enrich, persist, build timeline,
// and compare stored articles.
type Service struct {
	scraper     domain.Scraper
	enricher    domain.Enricher
	comparator  domain.Comparator
	timeline    domain.TimelineBuilder
	articles    domain.ArticleRepo
	analyses    domain.AnalysisRepo
	comparisons domain.ComparisonRepo
	cache       domain.Cache
	queue       domain.AnalysisQueue
	log         zerolog.Logger

	enrichWorkers int
	maxArticles   int
	comparisonTTL time.Duration
	now           func() time.Time
}

// Deps lists the collaborators of the analysis service.
type Deps struct {
	Scraper     domain.Scraper
	Enricher    domain.Enricher
	Comparator  domain.Comparator
	Timeline    domain.TimelineBuilder
	Articles    domain.ArticleRepo
	Analyses    domain.AnalysisRepo
	Comparisons domain.ComparisonRepo
	Cache       domain.Cache
	Queue       domain.AnalysisQueue
	Logger      zerolog.Logger

	EnrichWorkers int
	MaxArticles   int
	ComparisonTTL time.Duration
}

// NewService builds the analysis service.
func NewService(deps Deps) *Service {
	if deps.EnrichWorkers < 1 {
		deps.EnrichWorkers = 1
	}
	if deps.MaxArticles < 1 {
		deps.MaxArticles = 20
	}
	if deps.ComparisonTTL <= 0 {
		deps.ComparisonTTL = time.Hour
	}
	return &Service{
		scraper:       deps.Scraper,
		enricher:      deps.Enricher,
		comparator:    deps.Comparator,
		timeline:      deps.Timeline,
		articles:      deps.Articles,
		analyses:      deps.Analyses,
		comparisons:   deps.Comparisons,
		cache:         deps.Cache,
		queue:         deps.Queue,
		log:           deps.Logger,
		enrichWorkers: deps.EnrichWorkers,
		maxArticles:   deps.MaxArticles,
		comparisonTTL: deps.ComparisonTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// AnalyzeURLs runs the full pipeline over a set of URLs. URLs that fail to
// scrape or enrich are skipped; the run fails only if none survive.
func (s *Service) AnalyzeURLs(ctx context.Context, urls []string) (domain.Analysis, error) {
	if len(urls) == 0 {
		return domain.Analysis{}, ErrNoURLs
	}
	if len(urls) > s.maxArticles {
		return domain.Analysis{}, fmt.Errorf("%w: got %d, limit %d", ErrTooManyURLs, len(urls), s.maxArticles)
	}
	metrics.AnalyzeRequestsTotal.Inc()

	raw := make([]domain.RawArticle, 0, len(urls))
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return domain.Analysis{}, err
		}
		article, err := s.scraper.Scrape(ctx, pageURL)
		if err != nil {
			s.log.Warn().Err(err).Str("url", pageURL).Msg("skipping url")
			continue
		}
		raw = append(raw, article)
	}
	if len(raw) == 0 {
		return domain.Analysis{}, ErrNoArticles
	}

	enriched := s.enrichAll(raw)
	if len(enriched) == 0 {
		return domain.Analysis{}, ErrNoArticles
	}

	// Persist first so the timeline references carry stored ids.
	saved, err := s.articles.SaveArticles(ctx, enriched)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("save articles: %w", err)
	}

	start := time.Now()
	timeline := s.timeline.Generate(saved)
	metrics.TimelineBuildSeconds.Observe(time.Since(start).Seconds())

	result, err := s.analyses.SaveAnalysis(ctx, domain.Analysis{
		URLs:      urls,
		Articles:  saved,
		Timeline:  timeline,
		CreatedAt: s.now(),
	})
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("save analysis: %w", err)
	}

	s.log.Info().
		Str("analysis_id", result.ID).
		Int("urls", len(urls)).
		Int("articles", len(saved)).
		Int("events", len(timeline.Events)).
		Msg("analysis completed")
	return result, nil
}

// enrichAll runs the enrichment pool and returns the survivors in input order.
func (s *Service) enrichAll(raw []domain.RawArticle) []domain.EnrichedArticle {
	type slot struct {
		article domain.EnrichedArticle
		ok      bool
	}
	slots := make([]slot, len(raw))
	indexes := make(chan int)

	var wg sync.WaitGroup
	workers := s.enrichWorkers
	if workers > len(raw) {
		workers = len(raw)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				start := time.Now()
				enriched, err := s.enricher.Enrich(raw[i])
				metrics.EnrichSeconds.Observe(time.Since(start).Seconds())
				if err != nil {
					s.log.Warn().Err(err).Str("url", raw[i].URL).Msg("enrichment failed")
					continue
				}
				metrics.ArticlesProcessed.Inc()
				slots[i] = slot{article: enriched, ok: true}
			}
		}()
	}
	for i := range raw {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	enriched := make([]domain.EnrichedArticle, 0, len(raw))
	for _, st := range slots {
		if st.ok {
			enriched = append(enriched, st.article)
		}
	}
	return enriched
}

// CompareStored compares two stored articles, serving repeats from cache.
func (s *Service) CompareStored(ctx context.Context, firstID, secondID string) (domain.StoredComparison, error) {
	key := comparisonCacheKey(firstID, secondID)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var stored domain.StoredComparison
		if err := json.Unmarshal(cached, &stored); err == nil {
			metrics.ComparisonCacheHits.Inc()
			return stored, nil
		}
		s.log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	}

	first, err := s.articles.GetArticle(ctx, firstID)
	if err != nil {
		return domain.StoredComparison{}, fmt.Errorf("load article %s: %w", firstID, err)
	}
	second, err := s.articles.GetArticle(ctx, secondID)
	if err != nil {
		return domain.StoredComparison{}, fmt.Errorf("load article %s: %w", secondID, err)
	}

	metrics.ComparisonsTotal.Inc()
	stored, err := s.comparisons.SaveComparison(ctx, domain.StoredComparison{
		FirstID:   firstID,
		SecondID:  secondID,
		Result:    s.comparator.Compare(first, second),
		CreatedAt: s.now(),
	})
	if err != nil {
		return domain.StoredComparison{}, fmt.Errorf("save comparison: %w", err)
	}

	if payload, err := json.Marshal(stored); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.comparisonTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("caching comparison failed")
		}
	}
	return stored, nil
}

// CompareBatch runs the pairwise comparison over a set of stored articles.
func (s *Service) CompareBatch(ctx context.Context, ids []string) (domain.MultiComparison, error) {
	articles := make([]domain.EnrichedArticle, 0, len(ids))
	for _, id := range ids {
		article, err := s.articles.GetArticle(ctx, id)
		if err != nil {
			return domain.MultiComparison{}, fmt.Errorf("load article %s: %w", id, err)
		}
		articles = append(articles, article)
	}
	multi, err := s.comparator.CompareMany(articles)
	if err != nil {
		return domain.MultiComparison{}, err
	}
	metrics.ComparisonsTotal.Add(float64(len(multi.Comparisons)))
	return multi, nil
}

// GetAnalysis loads one stored analysis run.
func (s *Service) GetAnalysis(ctx context.Context, id string) (domain.Analysis, error) {
	return s.analyses.GetAnalysis(ctx, id)
}

// GetComparison loads one stored comparison.
func (s *Service) GetComparison(ctx context.Context, id string) (domain.StoredComparison, error) {
	return s.comparisons.GetComparison(ctx, id)
}

// GetArticle loads one stored article.
func (s *Service) GetArticle(ctx context.Context, id string) (domain.EnrichedArticle, error) {
	return s.articles.GetArticle(ctx, id)
}

// ListArticles returns one page of stored articles plus the total count.
func (s *Service) ListArticles(ctx context.Context, page, perPage int) ([]domain.EnrichedArticle, int, error) {
	return s.articles.ListArticles(ctx, page, perPage)
}

// EnqueueAnalysis publishes an analysis job for the worker.
func (s *Service) EnqueueAnalysis(ctx context.Context, urls []string) (domain.AnalysisJob, error) {
	if len(urls) == 0 {
		return domain.AnalysisJob{}, ErrNoURLs
	}
	if len(urls) > s.maxArticles {
		return domain.AnalysisJob{}, fmt.Errorf("%w: got %d, limit %d", ErrTooManyURLs, len(urls), s.maxArticles)
	}
	job := domain.AnalysisJob{
		ID:         uuid.NewString(),
		URLs:       urls,
		EnqueuedAt: s.now(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return domain.AnalysisJob{}, fmt.Errorf("enqueue analysis: %w", err)
	}
	s.log.Info().Str("job_id", job.ID).Int("urls", len(urls)).Msg("analysis job enqueued")
	return job, nil
}

// comparisonCacheKey is order sensitive: swapping the ids swaps the roles
// inside the result, so the swapped pair is a different cache entry.
func comparisonCacheKey(firstID, secondID string) string {
	return "comparison:" + firstID + ":" + secondID
}
