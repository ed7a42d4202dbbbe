package repositories

import (
	"context"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// UserGoalsRepository defines persistence for per-user targets.
type UserGoalsRepository interface {
	// GetOrCreate returns the user's goals, writing the hardcoded defaults
	// first if the user has none.
	GetOrCreate(ctx context.Context, userID string) (*entities.UserGoals, error)
}
