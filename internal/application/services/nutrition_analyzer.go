package services

import (
	"math"
	"sort"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

type dailyNutrition struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
}

// AnalyzeNutrition computes the weekly nutrition section from processed meal
// records. Pure; no I/O.
//
// legacyCalorieTotals reproduces an earlier behavior where the calorie totals
// were taken from the carbohydrate slice of the caloric breakdown instead of
// the calorie figure itself. Default off.
func AnalyzeNutrition(records []entities.MealRecord, goals *entities.UserGoals, loc *time.Location, legacyCalorieTotals bool) *entities.NutritionAnalysis {
	var totalCalories, totalProtein, totalCarbs, totalFat float64
	daily := make(map[string]*dailyNutrition)

	for _, record := range records {
		report := record.NutritionalReport
		if report == nil {
			continue
		}

		calories := report.NutritionalInformation.Calories
		if legacyCalorieTotals {
			calories = report.CaloricBreakdown.Carbohydrates
		}

		totalCalories += calories
		totalProtein += report.CaloricBreakdown.Proteins
		totalCarbs += report.CaloricBreakdown.Carbohydrates
		totalFat += report.CaloricBreakdown.Fats

		day := dayKey(record.CreatedAt, loc)
		if daily[day] == nil {
			daily[day] = &dailyNutrition{}
		}
		daily[day].calories += calories
		daily[day].protein += report.CaloricBreakdown.Proteins
		daily[day].carbs += report.CaloricBreakdown.Carbohydrates
		daily[day].fat += report.CaloricBreakdown.Fats
	}

	mealsCount := len(records)
	averageCaloriesPerMeal := 0.0
	if mealsCount > 0 {
		averageCaloriesPerMeal = totalCalories / float64(mealsCount)
	}

	daysWithRecords := len(daily)
	averageMacros := entities.AverageMacros{}
	if daysWithRecords > 0 {
		days := float64(daysWithRecords)
		averageMacros = entities.AverageMacros{
			Proteins: math.Round(totalProtein / days),
			Carbs:    math.Round(totalCarbs / days),
			Fats:     math.Round(totalFat / days),
		}
	}

	analysis := &entities.NutritionAnalysis{
		TotalCalories:          totalCalories,
		AverageMacros:          averageMacros,
		CommonIngredients:      extractCommonIngredients(records),
		MealsCount:             mealsCount,
		AverageCaloriesPerMeal: averageCaloriesPerMeal,
	}

	for _, day := range daily {
		if day.calories >= goals.Calories {
			analysis.DaysMetCalorieTarget++
		}
		if day.protein >= goals.Macros.Proteins {
			analysis.DaysMetProteinTarget++
		}
		if day.carbs >= goals.Macros.Carbs {
			analysis.DaysMetCarbsTarget++
		}
		if day.fat >= goals.Macros.Fats {
			analysis.DaysMetFatTarget++
		}
	}

	return analysis
}

// extractCommonIngredients returns the ten most frequent ingredients across
// all records, ties broken by first-encountered order.
func extractCommonIngredients(records []entities.MealRecord) []string {
	counts := make(map[string]int)
	var order []string

	for _, record := range records {
		if record.NutritionalReport == nil {
			continue
		}
		for _, ingredient := range record.NutritionalReport.IngredientExtraction {
			if _, seen := counts[ingredient]; !seen {
				order = append(order, ingredient)
			}
			counts[ingredient]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > 10 {
		order = order[:10]
	}
	return order
}
