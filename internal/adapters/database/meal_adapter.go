package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

// MealAdapter implements meal record persistence in Postgres.
type MealAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMealAdapter creates a new meal record adapter.
func NewMealAdapter(client *postgres.Client) repositories.MealRecordRepository {
	return &MealAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var mealColumns = []any{
	"id", "user_id", "filename", "type", "status",
	"nutritional_report", "error_details", "processed_at", "created_at",
}

// Create inserts a new meal record.
func (a *MealAdapter) Create(ctx context.Context, record *entities.MealRecord) error {
	if record == nil {
		return apperrors.NewValidationError("meal record is required")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	row := goqu.Record{
		"id":                 record.ID,
		"user_id":            record.UserID,
		"filename":           record.Filename,
		"type":               string(record.Type),
		"status":             string(record.Status),
		"nutritional_report": nil,
		"created_at":         record.CreatedAt,
	}

	query, args, err := a.db.Insert(entities.CollectionMealRecords).Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build meal insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create meal record", err)
	}

	return nil
}

// GetByID retrieves a meal record.
func (a *MealAdapter) GetByID(ctx context.Context, id string) (*entities.MealRecord, error) {
	query, args, err := a.db.Select(mealColumns...).
		From(entities.CollectionMealRecords).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build meal query", err)
	}

	record, err := scanMealRecord(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("meal record %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get meal record", err)
	}

	return record, nil
}

// SetProcessing marks a record as claimed by the processor.
func (a *MealAdapter) SetProcessing(ctx context.Context, id string) error {
	return a.updateStatus(ctx, id, goqu.Record{"status": string(entities.StatusProcessing)})
}

// MarkProcessed writes the terminal success state. Status, report and
// processed_at land in one statement.
func (a *MealAdapter) MarkProcessed(ctx context.Context, id string, report *entities.NutritionalReport, processedAt time.Time) error {
	reportBytes, err := json.Marshal(report)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal nutritional report", err)
	}

	return a.updateStatus(ctx, id, goqu.Record{
		"status":             string(entities.StatusProcessed),
		"nutritional_report": string(reportBytes),
		"processed_at":       processedAt,
	})
}

// MarkFailed writes the terminal failure state.
func (a *MealAdapter) MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error {
	detailBytes, err := json.Marshal(details)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal error details", err)
	}

	return a.updateStatus(ctx, id, goqu.Record{
		"status":        string(entities.StatusFailed),
		"error_details": string(detailBytes),
	})
}

func (a *MealAdapter) updateStatus(ctx context.Context, id string, row goqu.Record) error {
	query, args, err := a.db.Update(entities.CollectionMealRecords).
		Set(row).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build meal update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update meal record", err)
	}

	return nil
}

// ListProcessedInRange returns processed meal records in [start, end].
func (a *MealAdapter) ListProcessedInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.MealRecord, error) {
	query, args, err := a.db.Select(mealColumns...).
		From(entities.CollectionMealRecords).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("created_at").Gte(start),
			goqu.C("created_at").Lte(end),
			goqu.C("status").Eq(string(entities.StatusProcessed)),
		).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build meal range query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list meal records", err)
	}
	defer rows.Close()

	var records []entities.MealRecord
	for rows.Next() {
		record, err := scanMealRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan meal record", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMealRecord(row rowScanner) (*entities.MealRecord, error) {
	var record entities.MealRecord
	var filename, recordType, status sql.NullString
	var reportRaw, detailsRaw []byte
	var processedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&filename,
		&recordType,
		&status,
		&reportRaw,
		&detailsRaw,
		&processedAt,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Filename = filename.String
	record.Type = entities.RecordType(recordType.String)
	record.Status = entities.ProcessingStatus(status.String)
	if processedAt.Valid {
		record.ProcessedAt = &processedAt.Time
	}
	if len(reportRaw) > 0 {
		var report entities.NutritionalReport
		if err := json.Unmarshal(reportRaw, &report); err == nil {
			record.NutritionalReport = &report
		}
	}
	if len(detailsRaw) > 0 {
		var details entities.ErrorDetails
		if err := json.Unmarshal(detailsRaw, &details); err == nil {
			record.ErrorDetails = &details
		}
	}

	return &record, nil
}
