package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nutrisnap/backend/internal/infrastructure/clients/postgres"
	"github.com/stretchr/testify/assert"
)

func setupMockDB(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return postgres.NewClientFromDB(mockDB), mock
}

func TestGoalsAdapter_GetOrCreate_Existing(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewGoalsAdapter(client)

	updatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"user_id", "calories", "water", "macros", "bristol_score", "updated_at"}).
		AddRow("user-1", 1800.0, 2500.0, []byte(`{"proteins":35,"carbs":35,"fats":30}`), 3, updatedAt)
	mock.ExpectQuery(`SELECT .+ FROM "user_goals"`).WillReturnRows(rows)

	goals, err := adapter.GetOrCreate(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", goals.UserID)
	assert.Equal(t, 1800.0, goals.Calories)
	assert.Equal(t, 2500.0, goals.Water)
	assert.Equal(t, 35.0, goals.Macros.Proteins)
	assert.Equal(t, 3, goals.BristolScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalsAdapter_GetOrCreate_InsertsDefaults(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewGoalsAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "user_goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "calories", "water", "macros", "bristol_score", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "user_goals"`).WillReturnResult(sqlmock.NewResult(0, 1))

	goals, err := adapter.GetOrCreate(context.Background(), "user-2")
	assert.NoError(t, err)
	assert.Equal(t, "user-2", goals.UserID)
	assert.Equal(t, 2200.0, goals.Calories)
	assert.Equal(t, 2000.0, goals.Water)
	assert.Equal(t, 30.0, goals.Macros.Proteins)
	assert.Equal(t, 40.0, goals.Macros.Carbs)
	assert.Equal(t, 30.0, goals.Macros.Fats)
	assert.Equal(t, 4, goals.BristolScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalsAdapter_GetOrCreate_InsertFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewGoalsAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "user_goals"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "calories", "water", "macros", "bristol_score", "updated_at"}))
	mock.ExpectExec(`INSERT INTO "user_goals"`).WillReturnError(assert.AnError)

	goals, err := adapter.GetOrCreate(context.Background(), "user-3")
	assert.Error(t, err)
	assert.Nil(t, goals)
}
