package entities

import "time"

// DigestionSource says whether the analysis fields were entered by the user
// or produced by the vision model.
type DigestionSource string

const (
	DigestionSourceManual DigestionSource = "manual"
	DigestionSourceAI     DigestionSource = "ai"
)

// DigestionAnalysis holds the stool characteristics stored on a record.
// BristolScale is a string-encoded integer 1-7.
type DigestionAnalysis struct {
	BristolScale string          `json:"bristol_scale"`
	Color        string          `json:"color"`
	Consistency  string          `json:"consistency"`
	Shape        string          `json:"shape"`
	Size         string          `json:"size"`
	HasBlood     bool            `json:"has_blood"`
	HasMucus     bool            `json:"has_mucus"`
	Source       DigestionSource `json:"source"`
}

// DigestionRecord is one digestion observation, either manual or image-sourced.
type DigestionRecord struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"userID" db:"user_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	Type      RecordType       `json:"type" db:"type"`
	Status    ProcessingStatus `json:"status" db:"status"`
	Filename  string           `json:"filename,omitempty" db:"filename"`
	Notes     string           `json:"notes,omitempty" db:"notes"`

	Analysis DigestionAnalysis `json:"analysis" db:"analysis"`

	// Populated only after processing.
	AIRecommendations []string      `json:"ai_recommendations,omitempty" db:"ai_recommendations"`
	AIConcerns        []string      `json:"ai_concerns,omitempty" db:"ai_concerns"`
	ErrorDetails      *ErrorDetails `json:"error_details,omitempty" db:"error_details"`
	ProcessedAt       *time.Time    `json:"processed_at" db:"processed_at"`
}

// StoolFindings is the visual assessment section of a model response.
type StoolFindings struct {
	Color             string `json:"color"`
	Consistency       string `json:"consistency"`
	Shape             string `json:"shape"`
	Size              string `json:"size"`
	PresenceOfBlood   bool   `json:"presence_of_blood"`
	PresenceOfMucus   bool   `json:"presence_of_mucus"`
	BristolStoolScale int    `json:"bristol_stool_scale"`
}

// DigestionAssessment is the full AI analysis of a digestion record, from
// either an image or manually entered characteristics.
type DigestionAssessment struct {
	Analysis        StoolFindings `json:"analysis"`
	Concerns        []string      `json:"concerns"`
	Recommendations []string      `json:"recommendations"`
	Summary         string        `json:"summary"`
}
