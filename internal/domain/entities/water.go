package entities

import "time"

// WaterIntakeRecord is one logged water intake. Amount is milliliters.
type WaterIntakeRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userID" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
