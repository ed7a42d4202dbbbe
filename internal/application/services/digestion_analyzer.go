package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// AnalyzeDigestion computes the weekly digestion section from digestion
// records. Pure; no I/O.
func AnalyzeDigestion(records []entities.DigestionRecord, goals *entities.UserGoals, loc *time.Location) *entities.DigestionSummary {
	distribution := make(map[string]int)
	dailyScores := make(map[string][]float64)

	for _, record := range records {
		distribution[record.Analysis.BristolScale]++

		score, err := strconv.ParseFloat(record.Analysis.BristolScale, 64)
		if err != nil {
			continue
		}
		day := dayKey(record.CreatedAt, loc)
		dailyScores[day] = append(dailyScores[day], score)
	}

	minScore := float64(goals.BristolScore - 1)
	maxScore := float64(goals.BristolScore + 1)

	days := make([]string, 0, len(dailyScores))
	for day := range dailyScores {
		days = append(days, day)
	}
	sort.Strings(days)

	var concerns []string
	for _, day := range days {
		scores := dailyScores[day]
		var sum float64
		for _, score := range scores {
			sum += score
		}
		average := sum / float64(len(scores))

		if average < minScore {
			concerns = append(concerns, fmt.Sprintf("Low bristol score on %s: %.1f", day, average))
		} else if average > maxScore {
			concerns = append(concerns, fmt.Sprintf("High bristol score on %s: %.1f", day, average))
		}
	}

	return &entities.DigestionSummary{
		Frequency:                len(records),
		BristolScaleDistribution: distribution,
		CommonCharacteristics:    commonCharacteristics(records),
		Concerns:                 concerns,
	}
}

// commonCharacteristics lists the most frequent colors and consistencies,
// up to three each, ties broken by first-encountered order.
func commonCharacteristics(records []entities.DigestionRecord) entities.CommonCharacteristics {
	return entities.CommonCharacteristics{
		Colors: topValues(records, func(a entities.DigestionAnalysis) string {
			return a.Color
		}),
		Consistencies: topValues(records, func(a entities.DigestionAnalysis) string {
			return a.Consistency
		}),
	}
}

func topValues(records []entities.DigestionRecord, field func(entities.DigestionAnalysis) string) []string {
	counts := make(map[string]int)
	var order []string

	for _, record := range records {
		value := field(record.Analysis)
		if value == "" {
			continue
		}
		if _, seen := counts[value]; !seen {
			order = append(order, value)
		}
		counts[value]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > 3 {
		order = order[:3]
	}
	return order
}
