package services

import (
	"context"
	"testing"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newMealFixture(t *testing.T) (*RecordProcessor, *stubMealRepo, *stubObjectStore, *stubAnalyzer) {
	mealRepo := newStubMealRepo()
	digestionRepo := newStubDigestionRepo()
	store := &stubObjectStore{objects: make(map[string][]byte)}
	analyzer := &stubAnalyzer{}
	return NewRecordProcessor(mealRepo, digestionRepo, store, analyzer), mealRepo, store, analyzer
}

func pendingMeal(repo *stubMealRepo, id string) *entities.MealRecord {
	record := &entities.MealRecord{
		ID:        id,
		UserID:    "user-1",
		Filename:  "lunch.jpg",
		Type:      entities.RecordTypeMeals,
		Status:    entities.StatusToBeProcessed,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
	repo.records[id] = record
	return record
}

func TestProcessMealRecord_RoundTrip(t *testing.T) {
	processor, mealRepo, store, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")
	store.objects["user-1/meals/lunch.jpg"] = []byte("image-bytes")
	analyzer.mealReport = &entities.NutritionalReport{
		ImageRecognition: entities.ImageRecognition{Name: "Salad"},
	}

	err := processor.ProcessMealRecord(context.Background(), "meal-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusProcessed, record.Status)
	assert.NotNil(t, record.NutritionalReport)
	assert.Equal(t, "Salad", record.NutritionalReport.ImageRecognition.Name)
	if assert.NotNil(t, record.ProcessedAt) {
		assert.False(t, record.ProcessedAt.Before(record.CreatedAt))
	}
	assert.Equal(t, []entities.ProcessingStatus{entities.StatusProcessing, entities.StatusProcessed}, mealRepo.transitions)
	assert.Equal(t, 1, analyzer.mealCalls)
}

func TestProcessMealRecord_MissingInputIsNoOp(t *testing.T) {
	processor, mealRepo, _, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")
	record.Filename = ""

	err := processor.ProcessMealRecord(context.Background(), "meal-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusToBeProcessed, record.Status)
	assert.Empty(t, mealRepo.transitions)
	assert.Equal(t, 0, analyzer.mealCalls)
}

func TestProcessMealRecord_MissingFile(t *testing.T) {
	processor, mealRepo, _, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")

	err := processor.ProcessMealRecord(context.Background(), "meal-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, record.Status)
	assert.Equal(t, "File does not exist", record.ErrorDetails.Message)
	assert.Equal(t, 0, analyzer.mealCalls)
}

func TestProcessMealRecord_ParseFailureCarriesPreview(t *testing.T) {
	processor, mealRepo, store, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")
	store.objects["user-1/meals/lunch.jpg"] = []byte("image-bytes")
	analyzer.mealErr = apperrors.NewParseError("no json block found in model response", "Sure! Here is your meal", nil)

	err := processor.ProcessMealRecord(context.Background(), "meal-1")

	assert.NoError(t, err)
	// Never left in processing: the failure is written terminally.
	assert.Equal(t, entities.StatusFailed, record.Status)
	assert.Equal(t, "no json block found in model response", record.ErrorDetails.Message)
	assert.Equal(t, "Sure! Here is your meal", record.ErrorDetails.ResponsePreview)
}

func TestProcessMealRecord_ProcessingClaimFailureDoesNotAbort(t *testing.T) {
	processor, mealRepo, store, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")
	store.objects["user-1/meals/lunch.jpg"] = []byte("image-bytes")
	analyzer.mealReport = &entities.NutritionalReport{}
	mealRepo.processErr = assert.AnError

	err := processor.ProcessMealRecord(context.Background(), "meal-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusProcessed, record.Status)
}

func newDigestionFixture(t *testing.T) (*RecordProcessor, *stubDigestionRepo, *stubObjectStore, *stubAnalyzer) {
	mealRepo := newStubMealRepo()
	digestionRepo := newStubDigestionRepo()
	store := &stubObjectStore{objects: make(map[string][]byte)}
	analyzer := &stubAnalyzer{}
	return NewRecordProcessor(mealRepo, digestionRepo, store, analyzer), digestionRepo, store, analyzer
}

func TestProcessDigestionRecord_ManualKeepsAnalysis(t *testing.T) {
	processor, repo, _, analyzer := newDigestionFixture(t)
	record := &entities.DigestionRecord{
		ID:     "digestion-1",
		UserID: "user-1",
		Status: entities.StatusToBeProcessed,
		Analysis: entities.DigestionAnalysis{
			BristolScale: "3",
			Color:        "brown",
			Source:       entities.DigestionSourceManual,
		},
		CreatedAt: time.Now().UTC(),
	}
	repo.records[record.ID] = record
	analyzer.assessment = &entities.DigestionAssessment{
		Concerns:        []string{"none"},
		Recommendations: []string{"more fiber"},
	}

	err := processor.ProcessDigestionRecord(context.Background(), "digestion-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusProcessed, record.Status)
	// Stored characteristics survive; only AI fields are added.
	assert.Equal(t, "3", record.Analysis.BristolScale)
	assert.Equal(t, entities.DigestionSourceManual, record.Analysis.Source)
	assert.Equal(t, []string{"none"}, record.AIConcerns)
	assert.Equal(t, []string{"more fiber"}, record.AIRecommendations)
	assert.Equal(t, 1, analyzer.manualCalls)
	assert.Equal(t, 0, analyzer.imageCalls)
}

func TestProcessDigestionRecord_ImageRewritesAnalysis(t *testing.T) {
	processor, repo, store, analyzer := newDigestionFixture(t)
	record := &entities.DigestionRecord{
		ID:       "digestion-1",
		UserID:   "user-1",
		Filename: "sample.jpg",
		Status:   entities.StatusToBeProcessed,
		Analysis: entities.DigestionAnalysis{
			Source: entities.DigestionSourceAI,
		},
		CreatedAt: time.Now().UTC(),
	}
	repo.records[record.ID] = record
	store.objects["user-1/digestions/sample.jpg"] = []byte("image-bytes")
	analyzer.assessment = &entities.DigestionAssessment{
		Analysis: entities.StoolFindings{
			Color:             "brown",
			Consistency:       "solid",
			BristolStoolScale: 4,
		},
		Concerns:        []string{},
		Recommendations: []string{"hydrate"},
	}

	err := processor.ProcessDigestionRecord(context.Background(), "digestion-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusProcessed, record.Status)
	assert.Equal(t, "4", record.Analysis.BristolScale)
	assert.Equal(t, "brown", record.Analysis.Color)
	assert.Equal(t, entities.DigestionSourceAI, record.Analysis.Source)
	assert.Equal(t, []entities.ProcessingStatus{entities.StatusProcessing, entities.StatusProcessed}, repo.transitions)
}

func TestProcessDigestionRecord_MissingFileFailsWithoutProcessing(t *testing.T) {
	processor, repo, _, _ := newDigestionFixture(t)
	record := &entities.DigestionRecord{
		ID:       "digestion-1",
		UserID:   "user-1",
		Filename: "sample.jpg",
		Status:   entities.StatusToBeProcessed,
		Analysis: entities.DigestionAnalysis{
			Source: entities.DigestionSourceAI,
		},
		CreatedAt: time.Now().UTC(),
	}
	repo.records[record.ID] = record

	err := processor.ProcessDigestionRecord(context.Background(), "digestion-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusFailed, record.Status)
	assert.Equal(t, "File does not exist", record.ErrorDetails.Message)
	// The record fails before ever entering processing.
	assert.Equal(t, []entities.ProcessingStatus{entities.StatusFailed}, repo.transitions)
}

func TestProcessDigestionRecord_NoFilenameNoSourceIsNoOp(t *testing.T) {
	processor, repo, _, analyzer := newDigestionFixture(t)
	record := &entities.DigestionRecord{
		ID:        "digestion-1",
		UserID:    "user-1",
		Status:    entities.StatusToBeProcessed,
		Analysis:  entities.DigestionAnalysis{Source: entities.DigestionSourceAI},
		CreatedAt: time.Now().UTC(),
	}
	repo.records[record.ID] = record

	err := processor.ProcessDigestionRecord(context.Background(), "digestion-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusToBeProcessed, record.Status)
	assert.Equal(t, 0, analyzer.imageCalls)
}

func TestHandleRecordCreated_Dispatch(t *testing.T) {
	processor, mealRepo, store, analyzer := newMealFixture(t)
	record := pendingMeal(mealRepo, "meal-1")
	store.objects["user-1/meals/lunch.jpg"] = []byte("image-bytes")
	analyzer.mealReport = &entities.NutritionalReport{}

	err := processor.HandleRecordCreated(context.Background(), &entities.PipelineEvent{
		Kind:       entities.EventKindRecordCreated,
		Collection: entities.CollectionMealRecords,
		RecordID:   "meal-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, entities.StatusProcessed, record.Status)
}

func TestHandleRecordCreated_UnknownCollection(t *testing.T) {
	processor, _, _, analyzer := newMealFixture(t)

	err := processor.HandleRecordCreated(context.Background(), &entities.PipelineEvent{
		Kind:       entities.EventKindRecordCreated,
		Collection: "unknown_records",
		RecordID:   "x",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, analyzer.mealCalls)
}
