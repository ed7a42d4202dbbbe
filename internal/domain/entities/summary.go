package entities

import "time"

// WaterAnalysis is the weekly water intake section of a summary.
type WaterAnalysis struct {
	TotalIntake   float64 `json:"totalIntake"`
	DailyAverage  float64 `json:"dailyAverage"`
	DaysMetTarget int     `json:"daysMetTarget"`
}

// AverageMacros are average daily grams per macronutrient over the period.
type AverageMacros struct {
	Carbs    float64 `json:"carbs"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
}

// NutritionAnalysis is the weekly nutrition section of a summary.
type NutritionAnalysis struct {
	TotalCalories          float64       `json:"totalCalories"`
	AverageMacros          AverageMacros `json:"averageMacros"`
	CommonIngredients      []string      `json:"commonIngredients"`
	MealsCount             int           `json:"mealsCount"`
	AverageCaloriesPerMeal float64       `json:"averageCaloriesPerMeal"`
	DaysMetCalorieTarget   int           `json:"daysMetCalorieTarget"`
	DaysMetProteinTarget   int           `json:"daysMetProteinTarget"`
	DaysMetCarbsTarget     int           `json:"daysMetCarbsTarget"`
	DaysMetFatTarget       int           `json:"daysMetFatTarget"`
}

// CommonCharacteristics lists the most frequent stool colors and
// consistencies seen during the period.
type CommonCharacteristics struct {
	Colors        []string `json:"colors"`
	Consistencies []string `json:"consistencies"`
}

// DigestionSummary is the weekly digestion section of a summary.
type DigestionSummary struct {
	Frequency                int                   `json:"frequency"`
	BristolScaleDistribution map[string]int        `json:"bristolScaleDistribution"`
	CommonCharacteristics    CommonCharacteristics `json:"commonCharacteristics"`
	Concerns                 []string              `json:"concerns"`
}

// Correlations are the AI-derived cross-domain observations.
type Correlations struct {
	WaterAndDigestion []string `json:"waterAndDigestion"`
	DietAndDigestion  []string `json:"dietAndDigestion"`
}

// WeeklySummary is one immutable aggregate per user per period. A new
// summary is created each period; existing ones are never updated.
type WeeklySummary struct {
	ID                string             `json:"id" db:"id"`
	UserID            string             `json:"userID" db:"user_id"`
	WeekStartDate     time.Time          `json:"weekStartDate" db:"week_start_date"`
	WeekEndDate       time.Time          `json:"weekEndDate" db:"week_end_date"`
	WaterAnalysis     *WaterAnalysis     `json:"waterAnalysis,omitempty" db:"water_analysis"`
	NutritionAnalysis *NutritionAnalysis `json:"nutritionAnalysis,omitempty" db:"nutrition_analysis"`
	DigestionAnalysis *DigestionSummary  `json:"digestionAnalysis" db:"digestion_analysis"`
	Correlations      Correlations       `json:"correlations" db:"correlations"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
}
