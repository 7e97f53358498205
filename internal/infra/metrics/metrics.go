package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	EnrichSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "article_enrich_seconds",
		Help:    "Time spent enriching one article",
		Buckets: prometheus.DefBuckets,
	})
	TimelineBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timeline_build_seconds",
		Help:    "Time spent generating a timeline",
		Buckets: prometheus.DefBuckets,
	})
	AnalyzeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analyze_requests_total",
		Help: "Analysis pipeline runs",
	})
	ComparisonsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparisons_total",
		Help: "Pairwise article comparisons computed",
	})
	ComparisonCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "comparison_cache_hits_total",
		Help: "Comparisons served from cache",
	})
	ScrapeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_errors_total",
		Help: "Failed article fetches",
	})
	ArticlesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "articles_processed_total",
		Help: "Articles that completed enrichment",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of outbound requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Outbound request count",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister registers all collectors.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		EnrichSeconds,
		TimelineBuildSeconds,
		AnalyzeRequestsTotal,
		ComparisonsTotal,
		ComparisonCacheHits,
		ScrapeErrors,
		ArticlesProcessed,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer runs an HTTP server exposing /metrics until ctx is done.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest records the duration and status of one outbound
// request.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}
