package repositories

import (
	"context"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// MealRecordRepository defines persistence for meal records.
//
// The status writers update only the fields named; everything else on the
// row is left untouched. MarkProcessed writes the terminal status, the
// report and processed_at in a single statement so a processed record can
// never be observed without its result.
type MealRecordRepository interface {
	Create(ctx context.Context, record *entities.MealRecord) error
	GetByID(ctx context.Context, id string) (*entities.MealRecord, error)
	SetProcessing(ctx context.Context, id string) error
	MarkProcessed(ctx context.Context, id string, report *entities.NutritionalReport, processedAt time.Time) error
	MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error
	// ListProcessedInRange returns processed meal records for a user with
	// created_at in [start, end] inclusive. Unprocessed meals never feed
	// the nutrition analysis.
	ListProcessedInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.MealRecord, error)
}
