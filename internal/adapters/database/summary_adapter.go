package database

import (
	"context"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

// SummaryAdapter implements weekly summary persistence in Postgres.
type SummaryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSummaryAdapter creates a new weekly summary adapter.
func NewSummaryAdapter(client *postgres.Client) repositories.WeeklySummaryRepository {
	return &SummaryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new weekly summary. Summaries are append-only.
func (a *SummaryAdapter) Create(ctx context.Context, summary *entities.WeeklySummary) error {
	if summary == nil {
		return apperrors.NewValidationError("weekly summary is required")
	}
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}

	waterBytes, err := json.Marshal(summary.WaterAnalysis)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal water analysis", err)
	}
	nutritionBytes, err := json.Marshal(summary.NutritionAnalysis)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal nutrition analysis", err)
	}
	digestionBytes, err := json.Marshal(summary.DigestionAnalysis)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal digestion summary", err)
	}
	correlationBytes, err := json.Marshal(summary.Correlations)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal correlations", err)
	}

	query, args, err := a.db.Insert(entities.CollectionWeeklySummaries).Rows(goqu.Record{
		"id":                 summary.ID,
		"user_id":            summary.UserID,
		"week_start_date":    summary.WeekStartDate,
		"week_end_date":      summary.WeekEndDate,
		"water_analysis":     string(waterBytes),
		"nutrition_analysis": string(nutritionBytes),
		"digestion_analysis": string(digestionBytes),
		"correlations":       string(correlationBytes),
		"created_at":         summary.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build summary insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create weekly summary", err)
	}

	return nil
}
