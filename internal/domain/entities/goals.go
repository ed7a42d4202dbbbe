package entities

import "time"

// MacroGoals are targets expressed as percentages of total calories.
type MacroGoals struct {
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// UserGoals is the per-user target configuration the analyzers compare
// against. Created lazily with defaults on first read; only explicit user
// action updates it afterwards.
type UserGoals struct {
	UserID       string     `json:"userID" db:"user_id"`
	Calories     float64    `json:"calories" db:"calories"`
	Water        float64    `json:"water" db:"water"`
	Macros       MacroGoals `json:"macros" db:"macros"`
	BristolScore int        `json:"bristol_score" db:"bristol_score"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// DefaultGoals returns the hardcoded targets applied to users who never set
// their own.
func DefaultGoals(userID string) *UserGoals {
	return &UserGoals{
		UserID:   userID,
		Calories: 2200,
		Water:    2000,
		Macros: MacroGoals{
			Proteins: 30,
			Carbs:    40,
			Fats:     30,
		},
		BristolScore: 4,
		UpdatedAt:    time.Now().UTC(),
	}
}
