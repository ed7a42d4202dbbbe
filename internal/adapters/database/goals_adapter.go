package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/doug-martin/goqu/v9"
	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

// GoalsAdapter implements user goal persistence in Postgres.
type GoalsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewGoalsAdapter creates a new user goals adapter.
func NewGoalsAdapter(client *postgres.Client) repositories.UserGoalsRepository {
	return &GoalsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetOrCreate returns the user's goals, inserting the defaults first when the
// user has never set any.
func (a *GoalsAdapter) GetOrCreate(ctx context.Context, userID string) (*entities.UserGoals, error) {
	query, args, err := a.db.Select("user_id", "calories", "water", "macros", "bristol_score", "updated_at").
		From(entities.CollectionUserGoals).
		Where(goqu.Ex{"user_id": userID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build goals query", err)
	}

	var goals entities.UserGoals
	var macrosRaw []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&goals.UserID,
		&goals.Calories,
		&goals.Water,
		&macrosRaw,
		&goals.BristolScore,
		&goals.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return a.createDefaults(ctx, userID)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user goals", err)
	}

	if len(macrosRaw) > 0 {
		if err := json.Unmarshal(macrosRaw, &goals.Macros); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal macro goals", err)
		}
	}

	return &goals, nil
}

func (a *GoalsAdapter) createDefaults(ctx context.Context, userID string) (*entities.UserGoals, error) {
	goals := entities.DefaultGoals(userID)

	macrosBytes, err := json.Marshal(goals.Macros)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to marshal macro goals", err)
	}

	query, args, err := a.db.Insert(entities.CollectionUserGoals).Rows(goqu.Record{
		"user_id":       goals.UserID,
		"calories":      goals.Calories,
		"water":         goals.Water,
		"macros":        string(macrosBytes),
		"bristol_score": goals.BristolScore,
		"updated_at":    goals.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build goals insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to create default goals", err)
	}

	return goals, nil
}
