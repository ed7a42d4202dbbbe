package services

import (
	"testing"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func digestionRecord(bristol string, at time.Time) entities.DigestionRecord {
	return entities.DigestionRecord{
		UserID:    "user-1",
		CreatedAt: at,
		Analysis: entities.DigestionAnalysis{
			BristolScale: bristol,
			Source:       entities.DigestionSourceManual,
		},
	}
}

func TestAnalyzeDigestion_NoConcernsInsideIdealRange(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)

	// Goal bristol score 4: anything averaging within [3, 5] is fine.
	records := []entities.DigestionRecord{
		digestionRecord("3", day1),
		digestionRecord("5", day1),
		digestionRecord("4", day2),
	}

	summary := AnalyzeDigestion(records, entities.DefaultGoals("user-1"), time.UTC)

	assert.Equal(t, 3, summary.Frequency)
	assert.Empty(t, summary.Concerns)
	assert.Equal(t, map[string]int{"3": 1, "4": 1, "5": 1}, summary.BristolScaleDistribution)
}

func TestAnalyzeDigestion_HighScoreConcern(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	records := []entities.DigestionRecord{
		digestionRecord("6", day),
		digestionRecord("6", day),
	}

	summary := AnalyzeDigestion(records, entities.DefaultGoals("user-1"), time.UTC)

	assert.Len(t, summary.Concerns, 1)
	assert.Equal(t, "High bristol score on 2026-03-02: 6.0", summary.Concerns[0])
}

func TestAnalyzeDigestion_LowScoreConcernOneDecimal(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	records := []entities.DigestionRecord{
		digestionRecord("1", day),
		digestionRecord("2", day),
		digestionRecord("2", day),
	}

	summary := AnalyzeDigestion(records, entities.DefaultGoals("user-1"), time.UTC)

	assert.Len(t, summary.Concerns, 1)
	assert.Equal(t, "Low bristol score on 2026-03-02: 1.7", summary.Concerns[0])
}

func TestAnalyzeDigestion_UnparseableScoreOnlyCountsInDistribution(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	records := []entities.DigestionRecord{
		digestionRecord("", day),
		digestionRecord("4", day),
	}

	summary := AnalyzeDigestion(records, entities.DefaultGoals("user-1"), time.UTC)

	assert.Equal(t, 2, summary.Frequency)
	assert.Equal(t, map[string]int{"": 1, "4": 1}, summary.BristolScaleDistribution)
	assert.Empty(t, summary.Concerns)
}

func TestAnalyzeDigestion_CommonCharacteristics(t *testing.T) {
	day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	records := []entities.DigestionRecord{
		{CreatedAt: day, Analysis: entities.DigestionAnalysis{BristolScale: "4", Color: "brown", Consistency: "solid"}},
		{CreatedAt: day, Analysis: entities.DigestionAnalysis{BristolScale: "4", Color: "brown", Consistency: "semi-solid"}},
		{CreatedAt: day, Analysis: entities.DigestionAnalysis{BristolScale: "4", Color: "green", Consistency: "solid"}},
	}

	summary := AnalyzeDigestion(records, entities.DefaultGoals("user-1"), time.UTC)

	assert.Equal(t, []string{"brown", "green"}, summary.CommonCharacteristics.Colors)
	assert.Equal(t, []string{"solid", "semi-solid"}, summary.CommonCharacteristics.Consistencies)
}

func TestAnalyzeDigestion_Empty(t *testing.T) {
	summary := AnalyzeDigestion(nil, entities.DefaultGoals("user-1"), time.UTC)

	assert.Equal(t, 0, summary.Frequency)
	assert.Empty(t, summary.BristolScaleDistribution)
	assert.Empty(t, summary.Concerns)
	assert.Empty(t, summary.CommonCharacteristics.Colors)
}
