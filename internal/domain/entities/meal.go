package entities

import "time"

// Macronutrients are grams per macronutrient.
type Macronutrients struct {
	Carbohydrates float64 `json:"carbohydrates"`
	Proteins      float64 `json:"proteins"`
	Fats          float64 `json:"fats"`
}

// Vitamins are milligrams per vitamin.
type Vitamins struct {
	VitaminC float64 `json:"vitaminC"`
	VitaminA float64 `json:"vitaminA"`
}

// Minerals are milligrams per mineral.
type Minerals struct {
	Potassium float64 `json:"potassium"`
	Magnesium float64 `json:"magnesium"`
}

// Micronutrients groups vitamin and mineral figures.
type Micronutrients struct {
	Vitamins Vitamins `json:"vitamins"`
	Minerals Minerals `json:"minerals"`
}

// NutritionalInformation holds the numeric nutrition figures for a dish.
type NutritionalInformation struct {
	Calories       float64        `json:"calories"`
	Macronutrients Macronutrients `json:"macronutrients"`
	Micronutrients Micronutrients `json:"micronutrients"`
}

// CaloricBreakdown splits calories by macronutrient.
type CaloricBreakdown struct {
	Carbohydrates float64 `json:"carbohydrates"`
	Proteins      float64 `json:"proteins"`
	Fats          float64 `json:"fats"`
}

// ImageRecognition names the dish identified in the image.
type ImageRecognition struct {
	Name string `json:"name"`
}

// NutritionalReport is the full AI analysis of one meal image.
type NutritionalReport struct {
	ImageRecognition         ImageRecognition       `json:"image_recognition"`
	IngredientExtraction     []string               `json:"ingredient_extraction"`
	IngredientCategorization map[string][]string    `json:"ingredient_categorization"`
	NutritionalInformation   NutritionalInformation `json:"nutritional_information"`
	CaloricBreakdown         CaloricBreakdown       `json:"caloric_breakdown"`
	Description              string                 `json:"description"`
}

// MealRecord is one user-uploaded meal image and its analysis state.
// NutritionalReport stays nil until the record reaches StatusProcessed.
type MealRecord struct {
	ID                string             `json:"id" db:"id"`
	UserID            string             `json:"userID" db:"user_id"`
	Filename          string             `json:"filename" db:"filename"`
	Type              RecordType         `json:"type" db:"type"`
	Status            ProcessingStatus   `json:"status" db:"status"`
	NutritionalReport *NutritionalReport `json:"nutritional_report" db:"nutritional_report"`
	ErrorDetails      *ErrorDetails      `json:"error_details,omitempty" db:"error_details"`
	ProcessedAt       *time.Time         `json:"processed_at" db:"processed_at"`
	CreatedAt         time.Time          `json:"created_at" db:"created_at"`
}
