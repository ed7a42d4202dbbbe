package repositories

import (
	"context"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// WeeklySummaryRepository defines persistence for weekly summaries.
// Summaries are append-only; there is deliberately no update operation.
type WeeklySummaryRepository interface {
	Create(ctx context.Context, summary *entities.WeeklySummary) error
}
