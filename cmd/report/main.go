package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ChaiyasitZ/nlp-project/internal/adapters/repo"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/config"
	"github.com/ChaiyasitZ/nlp-project/internal/infra/db"
	applog "github.com/ChaiyasitZ/nlp-project/internal/infra/log"
	"github.com/ChaiyasitZ/nlp-project/internal/report"
)

func main() {
	analysisID := flag.String("analysis", "", "id of the stored analysis to render")
	output := flag.String("out", "", "output file; empty writes to stdout")
	flag.Parse()

	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	if *analysisID == "" {
		logger.Fatal().Msg("report: -analysis flag is required")
	}

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("report: database connection failed")
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analysis, err := repo.NewPostgres(pool).GetAnalysis(ctx, *analysisID)
	if err != nil {
		logger.Fatal().Err(err).Str("analysis_id", *analysisID).Msg("report: analysis load failed")
	}

	rendered := report.RenderTimeline(analysis)
	if *output == "" {
		fmt.Print(rendered)
		return
	}
	if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
		logger.Fatal().Err(err).Str("path", *output).Msg("report: write failed")
	}
	logger.Info().Str("path", *output).Msg("report: written")
}
