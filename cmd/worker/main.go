package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ChaiyasitZ/nlp-project/internal/adapters/repo"
	"github.com/ChaiyasitZ/nlp-project/internal/adapters/scraper"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/cache"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/config"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/db"
	applog "github.com/ChaiyasitZ/nlp-project/internal/infra/log"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/metrics"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/queue"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
	"github.com/ChaiyasitZ/nlp-project/internal/nlp"
	"github.com/ChaiyasitZ/nlp-project/internal/similarity"
	"github.com/ChaiyasitZ/nlp-project/internal/timeline"
	analysisusecase "github.com/ChaiyasitZ/nlp-project/internal/usecase/analysis"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9091")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: database connection failed")
	}
	defer pool.Close()

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("worker: redis address missing (REDIS_ADDR)")
	}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	lex, err := lexicon.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: lexicon load failed")
	}

	repoAdapter := repo.NewPostgres(pool)
	analysisQueue := queue.NewRedisAnalysisQueue(redisClient, cfg.Queues.Analysis)

	service := analysisusecase.NewService(analysisusecase.Deps{
		Scraper: scraper.New(
			&http.Client{Timeout: cfg.Scraper.Timeout},
			cfg.Scraper.UserAgent,
			logger.With().Str("component", "scraper").Logger(),
		),
		Enricher:      nlp.NewEnricher(lex, logger.With().Str("component", "enricher").Logger()),
		Comparator:    similarity.NewComparator(lex),
		Timeline:      timeline.NewAggregator(lex),
		Articles:      repoAdapter,
		Analyses:      repoAdapter,
		Comparisons:   repoAdapter,
		Cache:         cache.NewRedis(redisClient),
		Queue:         analysisQueue,
		Logger:        logger.With().Str("component", "analysis").Logger(),
		EnrichWorkers: cfg.Limits.EnrichWorkers,
		MaxArticles:   cfg.Limits.MaxArticles,
		ComparisonTTL: cfg.Cache.ComparisonTTL,
	})

	logger.Info().Str("queue", cfg.Queues.Analysis).Msg("worker: consuming analysis jobs")
	for {
		job, err := analysisQueue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			logger.Error().Err(err).Msg("worker: queue read failed")
			continue
		}

		result, err := service.AnalyzeURLs(ctx, job.URLs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: job failed")
			continue
		}
		logger.Info().
			Str("job_id", job.ID).
			Str("analysis_id", result.ID).
			Int("articles", len(result.Articles)).
			Msg("worker: job completed")
	}
	logger.Info().Msg("worker: stopped")
}
