package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds the runtime configuration for all services.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	Port   int    `envconfig:"PORT" default:"8080"`

	PGDSN     string `envconfig:"PG_DSN"`
	RedisAddr string `envconfig:"REDIS_ADDR"`

	Scraper struct {
		Timeout   time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"30s"`
		UserAgent string        `envconfig:"SCRAPER_USER_AGENT" default:"Mozilla/5.0 (compatible; nlp-project/1.0)"`
	} `envconfig:""`

	Limits struct {
		EnrichWorkers int `envconfig:"ENRICH_WORKERS" default:"4"`
		MaxArticles   int `envconfig:"ANALYZE_MAX_ARTICLES" default:"20"`
	} `envconfig:""`

	Cache struct {
		ComparisonTTL time.Duration `envconfig:"COMPARISON_CACHE_TTL" default:"1h"`
	} `envconfig:""`

	Queues struct {
		Analysis string `envconfig:"ANALYSIS_QUEUE_KEY" default:"analysis_jobs"`
	} `envconfig:""`
}

// Load reads the config from the environment.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
