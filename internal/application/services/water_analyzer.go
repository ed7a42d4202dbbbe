package services

import (
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// dayKey buckets a timestamp into a calendar day in the aggregation
// timezone. All analyzers share this boundary so a record near midnight
// lands in the same day across domains.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// AnalyzeWaterIntake computes the weekly water section from raw intake
// records. Pure; no I/O.
func AnalyzeWaterIntake(records []entities.WaterIntakeRecord, goals *entities.UserGoals, loc *time.Location) *entities.WaterAnalysis {
	var totalIntake float64
	dailyIntakes := make(map[string]float64)

	for _, record := range records {
		totalIntake += record.Amount
		dailyIntakes[dayKey(record.CreatedAt, loc)] += record.Amount
	}

	daysWithRecords := len(dailyIntakes)
	dailyAverage := 0.0
	if daysWithRecords > 0 {
		dailyAverage = totalIntake / float64(daysWithRecords)
	}

	daysMetTarget := 0
	for _, amount := range dailyIntakes {
		if amount >= goals.Water {
			daysMetTarget++
		}
	}

	return &entities.WaterAnalysis{
		TotalIntake:   totalIntake,
		DailyAverage:  dailyAverage,
		DaysMetTarget: daysMetTarget,
	}
}
