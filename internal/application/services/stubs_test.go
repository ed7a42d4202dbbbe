package services

import (
	"context"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

// In-memory fakes shared by the service tests.

type stubMealRepo struct {
	records     map[string]*entities.MealRecord
	created     []*entities.MealRecord
	listErr     error
	processErr  error
	failedWith  map[string]entities.ErrorDetails
	transitions []entities.ProcessingStatus
}

func newStubMealRepo() *stubMealRepo {
	return &stubMealRepo{
		records:    make(map[string]*entities.MealRecord),
		failedWith: make(map[string]entities.ErrorDetails),
	}
}

func (r *stubMealRepo) Create(ctx context.Context, record *entities.MealRecord) error {
	if record.ID == "" {
		record.ID = "meal-" + record.Filename
	}
	r.records[record.ID] = record
	r.created = append(r.created, record)
	return nil
}

func (r *stubMealRepo) GetByID(ctx context.Context, id string) (*entities.MealRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("meal record not found")
	}
	return record, nil
}

func (r *stubMealRepo) SetProcessing(ctx context.Context, id string) error {
	if r.processErr != nil {
		return r.processErr
	}
	r.records[id].Status = entities.StatusProcessing
	r.transitions = append(r.transitions, entities.StatusProcessing)
	return nil
}

func (r *stubMealRepo) MarkProcessed(ctx context.Context, id string, report *entities.NutritionalReport, processedAt time.Time) error {
	record := r.records[id]
	record.Status = entities.StatusProcessed
	record.NutritionalReport = report
	record.ProcessedAt = &processedAt
	r.transitions = append(r.transitions, entities.StatusProcessed)
	return nil
}

func (r *stubMealRepo) MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error {
	record := r.records[id]
	record.Status = entities.StatusFailed
	record.ErrorDetails = &details
	r.failedWith[id] = details
	r.transitions = append(r.transitions, entities.StatusFailed)
	return nil
}

func (r *stubMealRepo) ListProcessedInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.MealRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []entities.MealRecord
	for _, record := range r.records {
		if record.UserID == userID && record.Status == entities.StatusProcessed {
			out = append(out, *record)
		}
	}
	return out, nil
}

type stubDigestionRepo struct {
	records     map[string]*entities.DigestionRecord
	created     []*entities.DigestionRecord
	transitions []entities.ProcessingStatus
}

func newStubDigestionRepo() *stubDigestionRepo {
	return &stubDigestionRepo{records: make(map[string]*entities.DigestionRecord)}
}

func (r *stubDigestionRepo) Create(ctx context.Context, record *entities.DigestionRecord) error {
	if record.ID == "" {
		record.ID = "digestion-" + record.Filename
	}
	r.records[record.ID] = record
	r.created = append(r.created, record)
	return nil
}

func (r *stubDigestionRepo) GetByID(ctx context.Context, id string) (*entities.DigestionRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("digestion record not found")
	}
	return record, nil
}

func (r *stubDigestionRepo) SetProcessing(ctx context.Context, id string) error {
	r.records[id].Status = entities.StatusProcessing
	r.transitions = append(r.transitions, entities.StatusProcessing)
	return nil
}

func (r *stubDigestionRepo) MarkProcessed(ctx context.Context, id string, analysis *entities.DigestionAnalysis, concerns, recommendations []string, processedAt time.Time) error {
	record := r.records[id]
	record.Status = entities.StatusProcessed
	if analysis != nil {
		record.Analysis = *analysis
	}
	record.AIConcerns = concerns
	record.AIRecommendations = recommendations
	record.ProcessedAt = &processedAt
	r.transitions = append(r.transitions, entities.StatusProcessed)
	return nil
}

func (r *stubDigestionRepo) MarkFailed(ctx context.Context, id string, details entities.ErrorDetails) error {
	record := r.records[id]
	record.Status = entities.StatusFailed
	record.ErrorDetails = &details
	r.transitions = append(r.transitions, entities.StatusFailed)
	return nil
}

func (r *stubDigestionRepo) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.DigestionRecord, error) {
	var out []entities.DigestionRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

type stubWaterRepo struct {
	records []entities.WaterIntakeRecord
}

func (r *stubWaterRepo) Create(ctx context.Context, record *entities.WaterIntakeRecord) error {
	r.records = append(r.records, *record)
	return nil
}

func (r *stubWaterRepo) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]entities.WaterIntakeRecord, error) {
	var out []entities.WaterIntakeRecord
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

type stubGoalsRepo struct {
	goals map[string]*entities.UserGoals
	err   error
}

func (r *stubGoalsRepo) GetOrCreate(ctx context.Context, userID string) (*entities.UserGoals, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.goals != nil {
		if goals, ok := r.goals[userID]; ok {
			return goals, nil
		}
	}
	return entities.DefaultGoals(userID), nil
}

type stubSummaryRepo struct {
	summaries []*entities.WeeklySummary
	err       error
}

func (r *stubSummaryRepo) Create(ctx context.Context, summary *entities.WeeklySummary) error {
	if r.err != nil {
		return r.err
	}
	r.summaries = append(r.summaries, summary)
	return nil
}

type stubObjectStore struct {
	objects map[string][]byte
	headErr error
}

func (s *stubObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	if s.headErr != nil {
		return false, s.headErr
	}
	_, ok := s.objects[key]
	return ok, nil
}

func (s *stubObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("object not found")
	}
	return data, nil
}

type stubAnalyzer struct {
	mealReport    *entities.NutritionalReport
	mealErr       error
	assessment    *entities.DigestionAssessment
	assessmentErr error
	correlations  *entities.Correlations

	mealCalls   int
	manualCalls int
	imageCalls  int
}

func (a *stubAnalyzer) AnalyzeMealImage(ctx context.Context, imageB64 string) (*entities.NutritionalReport, error) {
	a.mealCalls++
	return a.mealReport, a.mealErr
}

func (a *stubAnalyzer) AnalyzeDigestionImage(ctx context.Context, imageB64 string) (*entities.DigestionAssessment, error) {
	a.imageCalls++
	return a.assessment, a.assessmentErr
}

func (a *stubAnalyzer) AnalyzeDigestionData(ctx context.Context, analysis entities.DigestionAnalysis) (*entities.DigestionAssessment, error) {
	a.manualCalls++
	return a.assessment, a.assessmentErr
}

func (a *stubAnalyzer) GenerateCorrelations(ctx context.Context, water []entities.WaterIntakeRecord, meals []entities.MealRecord, digestions []entities.DigestionRecord) *entities.Correlations {
	if a.correlations != nil {
		return a.correlations
	}
	return &entities.Correlations{
		WaterAndDigestion: []string{"Unable to generate correlations due to analysis error"},
		DietAndDigestion:  []string{"Unable to generate correlations due to analysis error"},
	}
}

type stubDirectory struct {
	users []entities.User
	err   error
}

func (d *stubDirectory) ListUsers(ctx context.Context) ([]entities.User, error) {
	return d.users, d.err
}

type stubEventBus struct {
	published []*entities.PipelineEvent
	channels  []string
}

func (b *stubEventBus) Publish(ctx context.Context, channel string, event *entities.PipelineEvent) error {
	b.channels = append(b.channels, channel)
	b.published = append(b.published, event)
	return nil
}

func (b *stubEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.PipelineEvent, error) {
	return nil, nil
}

func (b *stubEventBus) Close() error { return nil }
