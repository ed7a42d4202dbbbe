package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/providers"
	"github.com/nutrisnap/backend/internal/domain/repositories"
)

// IngestService turns upload notifications into pending records. The upload
// path convention is "userID/type/filename"; the type segment picks the
// target collection.
type IngestService struct {
	mealRepo      repositories.MealRecordRepository
	digestionRepo repositories.DigestionRecordRepository
	bus           providers.EventBus
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	mealRepo repositories.MealRecordRepository,
	digestionRepo repositories.DigestionRecordRepository,
	bus providers.EventBus,
) *IngestService {
	return &IngestService{
		mealRepo:      mealRepo,
		digestionRepo: digestionRepo,
		bus:           bus,
	}
}

// HandleUpload processes one storage upload notification. Uploads that do
// not follow the path convention, or carry an unknown type segment, are
// dropped without error.
func (s *IngestService) HandleUpload(ctx context.Context, event *entities.PipelineEvent) error {
	if event == nil || event.Path == "" {
		log.Warn().Msg("Upload event without a file path")
		return nil
	}

	segments := strings.Split(event.Path, "/")
	if len(segments) < 3 {
		log.Warn().Str("path", event.Path).Msg("Unexpected file path structure")
		return nil
	}

	userID, recordType, filename := segments[0], segments[1], segments[2]

	switch recordType {
	case "meals":
		return s.createMealRecord(ctx, userID, filename)
	case "digestions":
		return s.createDigestionRecord(ctx, userID, filename)
	case "profile":
		// Profile uploads have no processing pipeline yet.
		log.Info().Str("userID", userID).Msg("Ignoring profile upload")
		return nil
	default:
		return nil
	}
}

func (s *IngestService) createMealRecord(ctx context.Context, userID, filename string) error {
	record := &entities.MealRecord{
		UserID:    userID,
		Filename:  filename,
		Type:      entities.RecordTypeMeals,
		Status:    entities.StatusToBeProcessed,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.mealRepo.Create(ctx, record); err != nil {
		return err
	}

	return s.publishCreated(ctx, entities.CollectionMealRecords, record.ID)
}

func (s *IngestService) createDigestionRecord(ctx context.Context, userID, filename string) error {
	record := &entities.DigestionRecord{
		UserID:   userID,
		Filename: filename,
		Type:     entities.RecordTypeDigestions,
		Status:   entities.StatusToBeProcessed,
		Analysis: entities.DigestionAnalysis{
			Source: entities.DigestionSourceAI,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.digestionRepo.Create(ctx, record); err != nil {
		return err
	}

	return s.publishCreated(ctx, entities.CollectionDigestionRecords, record.ID)
}

func (s *IngestService) publishCreated(ctx context.Context, collection, recordID string) error {
	return s.bus.Publish(ctx, entities.ChannelRecordsCreated, &entities.PipelineEvent{
		ID:         uuid.New().String(),
		Kind:       entities.EventKindRecordCreated,
		Collection: collection,
		RecordID:   recordID,
		OccurredAt: time.Now().UTC(),
	})
}
