package entities

// ProcessingStatus tracks where a record is in its lifecycle.
type ProcessingStatus string

const (
	StatusToBeProcessed ProcessingStatus = "to_be_processed"
	StatusProcessing    ProcessingStatus = "processing"
	StatusProcessed     ProcessingStatus = "processed"
	StatusFailed        ProcessingStatus = "failed"
)

// RecordType identifies the upload category a record came from.
type RecordType string

const (
	RecordTypeMeals      RecordType = "meals"
	RecordTypeDigestions RecordType = "digestions"
	RecordTypeProfile    RecordType = "profile"
)

// ErrorDetails describes a terminal processing failure.
type ErrorDetails struct {
	Message string `json:"message" db:"message"`
	// ResponsePreview holds a truncated copy of the raw model output for
	// diagnosis. Only the meal path records it.
	ResponsePreview string `json:"response_preview,omitempty" db:"response_preview"`
}

// Collection names for the record stores.
const (
	CollectionMealRecords      = "meal_records"
	CollectionDigestionRecords = "digestion_records"
	CollectionWaterRecords     = "water_records"
	CollectionWeeklySummaries  = "weekly_summaries"
	CollectionUserGoals        = "user_goals"
)
