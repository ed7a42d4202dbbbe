package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nutrisnap/backend/internal/adapters/database"
	"github.com/nutrisnap/backend/internal/adapters/directory"
	"github.com/nutrisnap/backend/internal/application/services"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/gemini"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	"github.com/nutrisnap/backend/internal/infrastructure/observability"
	"github.com/nutrisnap/backend/pkg/config"
)

func main() {
	var userID string
	flag.StringVar(&userID, "user", "", "Generate a summary for a single user instead of the full run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("ENV"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Fatalf("Failed to set up tracing: %v", err)
		}
		defer shutdown(context.Background())
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	analyzer, err := gemini.NewClient(&cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	summaries := services.NewSummaryService(
		database.NewWaterAdapter(pgClient),
		database.NewMealAdapter(pgClient),
		database.NewDigestionAdapter(pgClient),
		database.NewGoalsAdapter(pgClient),
		database.NewSummaryAdapter(pgClient),
		analyzer,
		cfg.Aggregation,
	)

	start := time.Now()

	if userID != "" {
		log.Printf("Generating summary for single user: %s", userID)
		lastPeriodStart := time.Now().UTC().Add(-7 * 24 * time.Hour)
		if err := summaries.Generate(ctx, userID, lastPeriodStart); err != nil {
			log.Fatalf("Failed to generate summary for %s: %v", userID, err)
		}
		log.Printf("Summary generated in %s", time.Since(start))
		return
	}

	runner := services.NewWeeklyRunService(
		directory.NewHTTPClient(cfg.Directory.BaseURL),
		summaries,
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Weekly run failed: %v", err)
	}

	log.Printf("Weekly run complete in %s", time.Since(start))
	log.Printf("Total users: %d", summary.Total)
	log.Printf("Success: %d", summary.Success)
	log.Printf("Failed: %d", summary.Failure)
}
