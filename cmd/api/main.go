package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ChaiyasitZ/nlp-project/internal/adapters/repo"
	"github.com/ChaiyasitZ/nlp-project/internal/adapters/scraper"
	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/cache"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/config"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/db"
	httpinfra "github.com/ChaiyasitZ/nlp-project/internal/infra/http"
	applog "github.com/ChaiyasitZ/nlp-project/internal/infra/log"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/metrics"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/queue"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
	"github.com/ChaiyasitZ/nlp-project/internal/nlp"
	"github.com/ChaiyasitZ/nlp-project/internal/similarity"
	"github.com/ChaiyasitZ/nlp-project/internal/timeline"
	analysisusecase "github.com/ChaiyasitZ/nlp-project/internal/usecase/analysis"
)

type analyzeRequest struct {
	URLs  []string `json:"urls"`
	Async bool     `json:"async,omitempty"`
}

type compareRequest struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
}

type compareBatchRequest struct {
	IDs []string `json:"ids"`
}

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: database connection failed")
	}
	defer pool.Close()

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("api: redis address missing (REDIS_ADDR)")
	}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	lex, err := lexicon.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("api: lexicon load failed")
	}

	repoAdapter := repo.NewPostgres(pool)
	scraperAdapter := scraper.New(
		&http.Client{Timeout: cfg.Scraper.Timeout},
		cfg.Scraper.UserAgent,
		logger.With().Str("component", "scraper").Logger(),
	)

	service := analysisusecase.NewService(analysisusecase.Deps{
		Scraper:       scraperAdapter,
		Enricher:      nlp.NewEnricher(lex, logger.With().Str("component", "enricher").Logger()),
		Comparator:    similarity.NewComparator(lex),
		Timeline:      timeline.NewAggregator(lex),
		Articles:      repoAdapter,
		Analyses:      repoAdapter,
		Comparisons:   repoAdapter,
		Cache:         cache.NewRedis(redisClient),
		Queue:         queue.NewRedisAnalysisQueue(redisClient, cfg.Queues.Analysis),
		Logger:        logger.With().Str("component", "analysis").Logger(),
		EnrichWorkers: cfg.Limits.EnrichWorkers,
		MaxArticles:   cfg.Limits.MaxArticles,
		ComparisonTTL: cfg.Cache.ComparisonTTL,
	})

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	registerRoutes(server.Router, service)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func registerRoutes(r chi.Router, service *analysisusecase.Service) {
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/analyze", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Async {
			job, err := service.EnqueueAnalysis(r.Context(), req.URLs)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(map[string]string{"job_id": job.ID})
			return
		}
		analysis, err := service.AnalyzeURLs(r.Context(), req.URLs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, analysis)
	})

	r.Post("/api/v1/compare", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req compareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.FirstID == "" || req.SecondID == "" {
			writeError(w, http.StatusBadRequest, "first_id and second_id are required")
			return
		}
		comparison, err := service.CompareStored(r.Context(), req.FirstID, req.SecondID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, comparison)
	})

	r.Post("/api/v1/compare-batch", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req compareBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		multi, err := service.CompareBatch(r.Context(), req.IDs)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, multi)
	})

	r.Get("/api/v1/analyses/{id}", func(w http.ResponseWriter, r *http.Request) {
		analysis, err := service.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, analysis)
	})

	r.Get("/api/v1/timeline/{id}", func(w http.ResponseWriter, r *http.Request) {
		analysis, err := service.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, analysis.Timeline)
	})

	r.Get("/api/v1/comparisons/{id}", func(w http.ResponseWriter, r *http.Request) {
		comparison, err := service.GetComparison(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, comparison)
	})

	r.Get("/api/v1/articles", func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", 10)
		articles, total, err := service.ListArticles(r.Context(), page, perPage)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if articles == nil {
			articles = []domain.EnrichedArticle{}
		}
		writeJSON(w, map[string]any{
			"articles": articles,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	})

	r.Get("/api/v1/articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		article, err := service.GetArticle(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, article)
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysisusecase.ErrNoURLs),
		errors.Is(err, analysisusecase.ErrTooManyURLs),
		errors.Is(err, similarity.ErrNotEnoughArticles):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, analysisusecase.ErrNoArticles):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
