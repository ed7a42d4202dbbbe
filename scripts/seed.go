package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/nutrisnap/backend/internal/adapters/database"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	"github.com/nutrisnap/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS meal_records (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	filename TEXT,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	nutritional_report JSONB,
	error_details JSONB,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meal_records_user_created ON meal_records (user_id, created_at);

CREATE TABLE IF NOT EXISTS digestion_records (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	filename TEXT,
	notes TEXT,
	analysis JSONB,
	ai_recommendations JSONB,
	ai_concerns JSONB,
	error_details JSONB,
	processed_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_digestion_records_user_created ON digestion_records (user_id, created_at);

CREATE TABLE IF NOT EXISTS water_records (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_water_records_user_created ON water_records (user_id, created_at);

CREATE TABLE IF NOT EXISTS user_goals (
	user_id TEXT PRIMARY KEY,
	calories DOUBLE PRECISION NOT NULL,
	water DOUBLE PRECISION NOT NULL,
	macros JSONB NOT NULL,
	bristol_score INTEGER NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS weekly_summaries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	week_start_date TIMESTAMPTZ NOT NULL,
	week_end_date TIMESTAMPTZ NOT NULL,
	water_analysis JSONB,
	nutrition_analysis JSONB,
	digestion_analysis JSONB,
	correlations JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_weekly_summaries_user ON weekly_summaries (user_id, week_start_date);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				weekly_summaries,
				meal_records,
				digestion_records,
				water_records,
				user_goals
		`)
		if err != nil {
			log.Printf("Failed to reset tables (may not exist yet): %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ready")

	mealRepo := database.NewMealAdapter(pgClient)
	digestionRepo := database.NewDigestionAdapter(pgClient)
	waterRepo := database.NewWaterAdapter(pgClient)
	goalsRepo := database.NewGoalsAdapter(pgClient)

	userID := "demo-user"
	now := time.Now().UTC()

	if _, err := goalsRepo.GetOrCreate(ctx, userID); err != nil {
		log.Printf("Failed to seed goals: %v", err)
	}

	for day := 0; day < 5; day++ {
		record := &entities.WaterIntakeRecord{
			UserID:    userID,
			Amount:    1500 + float64(day)*250,
			CreatedAt: now.AddDate(0, 0, -day),
		}
		if err := waterRepo.Create(ctx, record); err != nil {
			log.Printf("Failed to seed water record: %v", err)
		}
	}

	meal := &entities.MealRecord{
		UserID:    userID,
		Filename:  "demo-lunch.jpg",
		Type:      entities.RecordTypeMeals,
		Status:    entities.StatusToBeProcessed,
		CreatedAt: now.AddDate(0, 0, -1),
	}
	if err := mealRepo.Create(ctx, meal); err != nil {
		log.Printf("Failed to seed meal record: %v", err)
	}

	digestion := &entities.DigestionRecord{
		UserID:    userID,
		Type:      entities.RecordTypeDigestions,
		Status:    entities.StatusToBeProcessed,
		CreatedAt: now.AddDate(0, 0, -1),
		Analysis: entities.DigestionAnalysis{
			BristolScale: "4",
			Color:        "brown",
			Consistency:  "solid",
			Shape:        "Regular",
			Size:         "Medium",
			Source:       entities.DigestionSourceManual,
		},
	}
	if err := digestionRepo.Create(ctx, digestion); err != nil {
		log.Printf("Failed to seed digestion record: %v", err)
	}

	log.Println("Seeding complete")
}
