package services

import (
	"context"
	"sync"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/providers"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/observability"
	"github.com/nutrisnap/backend/pkg/config"
)

// SummaryService builds and persists one weekly summary per call. Summaries
// are append-only; a re-run creates a new row rather than updating the last.
type SummaryService struct {
	waterRepo     repositories.WaterRecordRepository
	mealRepo      repositories.MealRecordRepository
	digestionRepo repositories.DigestionRecordRepository
	goalsRepo     repositories.UserGoalsRepository
	summaryRepo   repositories.WeeklySummaryRepository
	analyzer      providers.AnalysisProvider
	cfg           config.AggregationConfig
}

// NewSummaryService creates a new summary service.
func NewSummaryService(
	waterRepo repositories.WaterRecordRepository,
	mealRepo repositories.MealRecordRepository,
	digestionRepo repositories.DigestionRecordRepository,
	goalsRepo repositories.UserGoalsRepository,
	summaryRepo repositories.WeeklySummaryRepository,
	analyzer providers.AnalysisProvider,
	cfg config.AggregationConfig,
) *SummaryService {
	return &SummaryService{
		waterRepo:     waterRepo,
		mealRepo:      mealRepo,
		digestionRepo: digestionRepo,
		goalsRepo:     goalsRepo,
		summaryRepo:   summaryRepo,
		analyzer:      analyzer,
		cfg:           cfg,
	}
}

// Generate computes and stores the summary for [startDate, now]. A goals
// fetch failure is fatal for this user; a correlation failure is not, the
// provider degrades it to the fallback text.
func (s *SummaryService) Generate(ctx context.Context, userID string, startDate time.Time) error {
	ctx, span := observability.StartSpan(ctx, "summary.generate")
	defer span.End()

	endDate := time.Now().UTC()

	var (
		wg           sync.WaitGroup
		goals        *entities.UserGoals
		water        []entities.WaterIntakeRecord
		meals        []entities.MealRecord
		digestions   []entities.DigestionRecord
		goalsErr     error
		waterErr     error
		mealErr      error
		digestionErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		goals, goalsErr = s.goalsRepo.GetOrCreate(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		water, waterErr = s.waterRepo.ListInRange(ctx, userID, startDate, endDate)
	}()
	go func() {
		defer wg.Done()
		// Only processed meals carry a report the analyzer can use.
		meals, mealErr = s.mealRepo.ListProcessedInRange(ctx, userID, startDate, endDate)
	}()
	go func() {
		defer wg.Done()
		digestions, digestionErr = s.digestionRepo.ListInRange(ctx, userID, startDate, endDate)
	}()
	wg.Wait()

	for _, err := range []error{goalsErr, waterErr, mealErr, digestionErr} {
		if err != nil {
			observability.RecordError(span, err)
			return err
		}
	}

	loc := s.cfg.DayLocation()
	summary := &entities.WeeklySummary{
		UserID:            userID,
		WeekStartDate:     startDate,
		WeekEndDate:       endDate,
		WaterAnalysis:     AnalyzeWaterIntake(water, goals, loc),
		NutritionAnalysis: AnalyzeNutrition(meals, goals, loc, s.cfg.LegacyCalorieTotals),
		DigestionAnalysis: AnalyzeDigestion(digestions, goals, loc),
		Correlations:      *s.analyzer.GenerateCorrelations(ctx, water, meals, digestions),
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.summaryRepo.Create(ctx, summary); err != nil {
		observability.RecordError(span, err)
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("userID", userID).
		Int("waterRecords", len(water)).
		Int("mealRecords", len(meals)).
		Int("digestionRecords", len(digestions)).
		Msg("Weekly summary generated")

	return nil
}
