package repositories

import (
	"context"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// DigestionRecordRepository defines persistence for digestion records.
type DigestionRecordRepository interface {
	Create(ctx context.Context, record *entities.DigestionRecord) error
	GetByID(ctx context.Context, id string) (*entities.DigestionRecord, error)
	SetProcessing(ctx context.Context, id string) error
	// MarkProcessed writes the terminal status together with the AI
	// concerns/recommendations. A non-nil analysis replaces the stored
	// analysis (image path); nil keeps the user-entered one (manual path).
	MarkProcessed(ctx context.Context, id string, analysis *entities.DigestionAnalysis, concerns, recommendations []string, processedAt time.Time) error
	MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error
	// ListInRange returns digestion records for a user with created_at in
	// [start, end] inclusive, regardless of status.
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.DigestionRecord, error)
}
