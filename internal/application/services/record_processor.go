package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nutrisnap/backend/internal/domain/entities"
	"github.com/nutrisnap/backend/internal/domain/providers"
	"github.com/nutrisnap/backend/internal/domain/repositories"
	"github.com/nutrisnap/backend/internal/infrastructure/observability"
	apperrors "github.com/nutrisnap/backend/pkg/errors"
)

const errFileDoesNotExist = "File does not exist"

// RecordProcessor drives newly created records through
// to_be_processed -> processing -> processed|failed. Failures are terminal;
// reprocessing happens only through a new upload. A crash between the
// processing write and the terminal write leaves the record in processing,
// which is not auto-recovered.
type RecordProcessor struct {
	mealRepo      repositories.MealRecordRepository
	digestionRepo repositories.DigestionRecordRepository
	store         providers.ObjectStore
	analyzer      providers.AnalysisProvider
}

// NewRecordProcessor creates a new record processor.
func NewRecordProcessor(
	mealRepo repositories.MealRecordRepository,
	digestionRepo repositories.DigestionRecordRepository,
	store providers.ObjectStore,
	analyzer providers.AnalysisProvider,
) *RecordProcessor {
	return &RecordProcessor{
		mealRepo:      mealRepo,
		digestionRepo: digestionRepo,
		store:         store,
		analyzer:      analyzer,
	}
}

// HandleRecordCreated dispatches a record-created event to the handler for
// its collection. Unknown collections are dropped.
func (p *RecordProcessor) HandleRecordCreated(ctx context.Context, event *entities.PipelineEvent) error {
	if event == nil || event.RecordID == "" {
		return nil
	}

	switch event.Collection {
	case entities.CollectionMealRecords:
		return p.ProcessMealRecord(ctx, event.RecordID)
	case entities.CollectionDigestionRecords:
		return p.ProcessDigestionRecord(ctx, event.RecordID)
	default:
		return nil
	}
}

// ProcessMealRecord runs the meal analysis pipeline for one record.
func (p *RecordProcessor) ProcessMealRecord(ctx context.Context, recordID string) error {
	ctx, span := observability.StartSpan(ctx, "processor.meal")
	defer span.End()

	record, err := p.mealRepo.GetByID(ctx, recordID)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	// Records missing required input are left untouched; the event is not
	// an error and not a retry candidate.
	if record.Filename == "" || record.UserID == "" || record.Type == "" {
		observability.LoggerFromContext(ctx).Warn().Str("recordID", recordID).Msg("Required data missing in the new record")
		return nil
	}

	// Best-effort claim. A crash from here until the terminal write leaves
	// the record in processing.
	if err := p.mealRepo.SetProcessing(ctx, recordID); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("recordID", recordID).Msg("Failed to mark meal record processing")
	}

	key := objectKey(record.UserID, record.Type, record.Filename)
	exists, err := p.store.Exists(ctx, key)
	if err == nil && !exists {
		err = apperrors.NewNotFoundError(errFileDoesNotExist)
	}
	if err != nil {
		return p.failMeal(ctx, recordID, err)
	}

	data, err := p.store.Download(ctx, key)
	if err != nil {
		return p.failMeal(ctx, recordID, err)
	}

	report, err := p.analyzer.AnalyzeMealImage(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		observability.RecordError(span, err)
		return p.failMeal(ctx, recordID, err)
	}

	return p.mealRepo.MarkProcessed(ctx, recordID, report, time.Now().UTC())
}

func (p *RecordProcessor) failMeal(ctx context.Context, recordID string, cause error) error {
	observability.LoggerFromContext(ctx).Error().Err(cause).Str("recordID", recordID).Msg("Failed to process meal record")

	details := entities.ErrorDetails{Message: failureMessage(cause)}
	var appErr *apperrors.AppError
	if errors.As(cause, &appErr) {
		details.ResponsePreview = appErr.Detail
	}

	return p.mealRepo.MarkFailed(ctx, recordID, details)
}

// ProcessDigestionRecord runs the digestion analysis pipeline for one
// record. Manual records are analyzed from their stored characteristics;
// image records are downloaded and sent through the vision model.
func (p *RecordProcessor) ProcessDigestionRecord(ctx context.Context, recordID string) error {
	ctx, span := observability.StartSpan(ctx, "processor.digestion")
	defer span.End()

	record, err := p.digestionRepo.GetByID(ctx, recordID)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	if record.Analysis.Source == entities.DigestionSourceManual {
		return p.processManualDigestion(ctx, record)
	}
	if record.Filename != "" {
		return p.processImageDigestion(ctx, record)
	}
	return nil
}

func (p *RecordProcessor) processManualDigestion(ctx context.Context, record *entities.DigestionRecord) error {
	assessment, err := p.analyzer.AnalyzeDigestionData(ctx, record.Analysis)
	if err != nil {
		return p.failDigestion(ctx, record.ID, err)
	}

	// The user-entered analysis stays; only the model's concerns and
	// recommendations are added.
	return p.digestionRepo.MarkProcessed(ctx, record.ID, nil, assessment.Concerns, assessment.Recommendations, time.Now().UTC())
}

func (p *RecordProcessor) processImageDigestion(ctx context.Context, record *entities.DigestionRecord) error {
	key := objectKey(record.UserID, entities.RecordTypeDigestions, record.Filename)

	// Missing file fails the record before it ever enters processing.
	exists, err := p.store.Exists(ctx, key)
	if err == nil && !exists {
		err = apperrors.NewNotFoundError(errFileDoesNotExist)
	}
	if err != nil {
		return p.failDigestion(ctx, record.ID, err)
	}

	if err := p.digestionRepo.SetProcessing(ctx, record.ID); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("recordID", record.ID).Msg("Failed to mark digestion record processing")
	}

	data, err := p.store.Download(ctx, key)
	if err != nil {
		return p.failDigestion(ctx, record.ID, err)
	}

	assessment, err := p.analyzer.AnalyzeDigestionImage(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return p.failDigestion(ctx, record.ID, err)
	}

	analysis := &entities.DigestionAnalysis{
		BristolScale: strconv.Itoa(assessment.Analysis.BristolStoolScale),
		Color:        assessment.Analysis.Color,
		Consistency:  assessment.Analysis.Consistency,
		Shape:        assessment.Analysis.Shape,
		Size:         assessment.Analysis.Size,
		HasBlood:     assessment.Analysis.PresenceOfBlood,
		HasMucus:     assessment.Analysis.PresenceOfMucus,
		Source:       entities.DigestionSourceAI,
	}

	return p.digestionRepo.MarkProcessed(ctx, record.ID, analysis, assessment.Concerns, assessment.Recommendations, time.Now().UTC())
}

func (p *RecordProcessor) failDigestion(ctx context.Context, recordID string, cause error) error {
	observability.LoggerFromContext(ctx).Error().Err(cause).Str("recordID", recordID).Msg("Failed to process digestion record")
	return p.digestionRepo.MarkFailed(ctx, recordID, entities.ErrorDetails{Message: failureMessage(cause)})
}

// failureMessage keeps the stored message short: for typed errors the
// message alone, not the wrapped chain.
func failureMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func objectKey(userID string, recordType entities.RecordType, filename string) string {
	return fmt.Sprintf("%s/%s/%s", userID, recordType, filename)
}
