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

// DigestionAdapter implements digestion record persistence in Postgres.
type DigestionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDigestionAdapter creates a new digestion record adapter.
func NewDigestionAdapter(client *postgres.Client) repositories.DigestionRecordRepository {
	return &DigestionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var digestionColumns = []any{
	"id", "user_id", "created_at", "type", "status", "filename", "notes",
	"analysis", "ai_recommendations", "ai_concerns", "error_details", "processed_at",
}

// Create inserts a new digestion record.
func (a *DigestionAdapter) Create(ctx context.Context, record *entities.DigestionRecord) error {
	if record == nil {
		return apperrors.NewValidationError("digestion record is required")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	analysisBytes, err := json.Marshal(record.Analysis)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal digestion analysis", err)
	}

	row := goqu.Record{
		"id":         record.ID,
		"user_id":    record.UserID,
		"created_at": record.CreatedAt,
		"type":       string(record.Type),
		"status":     string(record.Status),
		"filename":   sql.NullString{String: record.Filename, Valid: record.Filename != ""},
		"notes":      sql.NullString{String: record.Notes, Valid: record.Notes != ""},
		"analysis":   string(analysisBytes),
	}

	query, args, err := a.db.Insert(entities.CollectionDigestionRecords).Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build digestion insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create digestion record", err)
	}

	return nil
}

// GetByID retrieves a digestion record.
func (a *DigestionAdapter) GetByID(ctx context.Context, id string) (*entities.DigestionRecord, error) {
	query, args, err := a.db.Select(digestionColumns...).
		From(entities.CollectionDigestionRecords).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build digestion query", err)
	}

	record, err := scanDigestionRecord(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("digestion record %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get digestion record", err)
	}

	return record, nil
}

// SetProcessing marks a record as claimed by the processor.
func (a *DigestionAdapter) SetProcessing(ctx context.Context, id string) error {
	return a.update(ctx, id, goqu.Record{"status": string(entities.StatusProcessing)})
}

// MarkProcessed writes the terminal success state. A non-nil analysis
// replaces the stored one (image path); nil keeps the user-entered fields
// (manual path).
func (a *DigestionAdapter) MarkProcessed(ctx context.Context, id string, analysis *entities.DigestionAnalysis, concerns, recommendations []string, processedAt time.Time) error {
	concernBytes, err := json.Marshal(concerns)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal concerns", err)
	}
	recBytes, err := json.Marshal(recommendations)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal recommendations", err)
	}

	row := goqu.Record{
		"status":             string(entities.StatusProcessed),
		"ai_concerns":        string(concernBytes),
		"ai_recommendations": string(recBytes),
		"processed_at":       processedAt,
	}
	if analysis != nil {
		analysisBytes, err := json.Marshal(analysis)
		if err != nil {
			return apperrors.NewInternalError("failed to marshal digestion analysis", err)
		}
		row["analysis"] = string(analysisBytes)
	}

	return a.update(ctx, id, row)
}

// MarkFailed writes the terminal failure state.
func (a *DigestionAdapter) MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error {
	detailBytes, err := json.Marshal(details)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal error details", err)
	}

	return a.update(ctx, id, goqu.Record{
		"status":        string(entities.StatusFailed),
		"error_details": string(detailBytes),
	})
}

func (a *DigestionAdapter) update(ctx context.Context, id string, row goqu.Record) error {
	query, args, err := a.db.Update(entities.CollectionDigestionRecords).
		Set(row).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build digestion update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update digestion record", err)
	}

	return nil
}

// ListInRange returns digestion records in [start, end] regardless of status.
func (a *DigestionAdapter) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.DigestionRecord, error) {
	query, args, err := a.db.Select(digestionColumns...).
		From(entities.CollectionDigestionRecords).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("created_at").Gte(start),
			goqu.C("created_at").Lte(end),
		).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build digestion range query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list digestion records", err)
	}
	defer rows.Close()

	var records []entities.DigestionRecord
	for rows.Next() {
		record, err := scanDigestionRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan digestion record", err)
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

func scanDigestionRecord(row rowScanner) (*entities.DigestionRecord, error) {
	var record entities.DigestionRecord
	var recordType, status string
	var filename, notes sql.NullString
	var analysisRaw, recsRaw, concernsRaw, detailsRaw []byte
	var processedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.CreatedAt,
		&recordType,
		&status,
		&filename,
		&notes,
		&analysisRaw,
		&recsRaw,
		&concernsRaw,
		&detailsRaw,
		&processedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Type = entities.RecordType(recordType)
	record.Status = entities.ProcessingStatus(status)
	record.Filename = filename.String
	record.Notes = notes.String
	if processedAt.Valid {
		record.ProcessedAt = &processedAt.Time
	}
	if len(analysisRaw) > 0 {
		_ = json.Unmarshal(analysisRaw, &record.Analysis)
	}
	if len(recsRaw) > 0 {
		_ = json.Unmarshal(recsRaw, &record.AIRecommendations)
	}
	if len(concernsRaw) > 0 {
		_ = json.Unmarshal(concernsRaw, &record.AIConcerns)
	}
	if len(detailsRaw) > 0 {
		var details entities.ErrorDetails
		if err := json.Unmarshal(detailsRaw, &details); err == nil {
			record.ErrorDetails = &details
		}
	}

	return &record, nil
}
