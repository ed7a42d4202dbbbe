package providers

import (
	"context"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// AnalysisProvider wraps the generative model behind the three analysis
// entry points plus the weekly correlation call.
//
// The image analyses and AnalyzeDigestionData fail hard: a response without
// a fenced JSON block, or with invalid JSON inside it, surfaces as a PARSE
// error and is never retried here. GenerateCorrelations is the one call that
// degrades instead of failing: implementations return the fixed fallback
// pair on any error, because it runs deep inside a batch job where a failed
// summary is worse than a degraded one.
type AnalysisProvider interface {
	AnalyzeMealImage(ctx context.Context, imageB64 string) (*entities.NutritionalReport, error)
	AnalyzeDigestionImage(ctx context.Context, imageB64 string) (*entities.DigestionAssessment, error)
	AnalyzeDigestionData(ctx context.Context, analysis entities.DigestionAnalysis) (*entities.DigestionAssessment, error)
	GenerateCorrelations(
		ctx context.Context,
		water []entities.WaterIntakeRecord,
		meals []entities.MealRecord,
		digestions []entities.DigestionRecord,
	) *entities.Correlations
}
