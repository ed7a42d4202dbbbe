package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nutrisnap/backend/internal/adapters/database"
	"github.com/nutrisnap/backend/internal/adapters/events"
	"github.com/nutrisnap/backend/internal/adapters/storage"
	"github.com/nutrisnap/backend/internal/application/services"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/gemini"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	redisclient "github.com/nutrisnap/backend/internal/infrastructure/clients/redis"
	"github.com/nutrisnap/backend/internal/infrastructure/observability"
	"github.com/nutrisnap/backend/pkg/config"
)

func main() {
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

	redisClient, err := redisclient.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}

	analyzer, err := gemini.NewClient(&cfg.Gemini)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	mealRepo := database.NewMealAdapter(pgClient)
	digestionRepo := database.NewDigestionAdapter(pgClient)

	bus := events.NewRedisEventBus(redisClient)
	defer bus.Close()

	ingest := services.NewIngestService(mealRepo, digestionRepo, bus)
	processor := services.NewRecordProcessor(mealRepo, digestionRepo, store, analyzer)

	uploads, err := bus.Subscribe(ctx, entities.ChannelStorageUploads)
	if err != nil {
		log.Fatalf("Failed to subscribe to uploads: %v", err)
	}
	created, err := bus.Subscribe(ctx, entities.ChannelRecordsCreated)
	if err != nil {
		log.Fatalf("Failed to subscribe to record events: %v", err)
	}

	log.Println("Record processor started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down")
			return
		case event, ok := <-uploads:
			if !ok {
				return
			}
			if err := ingest.HandleUpload(ctx, event); err != nil {
				log.Printf("Failed to handle upload event: %v", err)
			}
		case event, ok := <-created:
			if !ok {
				return
			}
			if err := processor.HandleRecordCreated(ctx, event); err != nil {
				log.Printf("Failed to handle record event: %v", err)
			}
		}
	}
}
