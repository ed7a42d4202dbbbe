package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

// WaterAdapter implements water intake persistence in Postgres.
type WaterAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewWaterAdapter creates a new water intake adapter.
func NewWaterAdapter(client *postgres.Client) repositories.WaterRecordRepository {
	return &WaterAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new water intake record.
func (a *WaterAdapter) Create(ctx context.Context, record *entities.WaterIntakeRecord) error {
	if record == nil {
		return apperrors.NewValidationError("water record is required")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	row := goqu.Record{
		"id":         record.ID,
		"user_id":    record.UserID,
		"amount":     record.Amount,
		"notes":      sql.NullString{String: record.Notes, Valid: record.Notes != ""},
		"created_at": record.CreatedAt,
	}

	query, args, err := a.db.Insert(entities.CollectionWaterRecords).Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build water insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create water record", err)
	}

	return nil
}

// ListInRange returns water intake records in [start, end].
func (a *WaterAdapter) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.WaterIntakeRecord, error) {
	query, args, err := a.db.Select("id", "user_id", "amount", "notes", "created_at").
		From(entities.CollectionWaterRecords).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("created_at").Gte(start),
			goqu.C("created_at").Lte(end),
		).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build water range query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list water records", err)
	}
	defer rows.Close()

	var records []entities.WaterIntakeRecord
	for rows.Next() {
		var record entities.WaterIntakeRecord
		var notes sql.NullString
		if err := rows.Scan(&record.ID, &record.UserID, &record.Amount, &notes, &record.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan water record", err)
		}
		record.Notes = notes.String
		records = append(records, record)
	}

	return records, rows.Err()
}
