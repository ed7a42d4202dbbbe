package repositories

import (
	"context"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// WaterRecordRepository defines persistence for water intake records.
// Water records need no processing, so there are no status writers.
type WaterRecordRepository interface {
	Create(ctx context.Context, record *entities.WaterIntakeRecord) error
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.WaterIntakeRecord, error)
}
