package entities

import "time"

// PipelineEventKind discriminates events on the pipeline bus.
type PipelineEventKind string

const (
	EventKindUpload        PipelineEventKind = "upload"
	EventKindRecordCreated PipelineEventKind = "record_created"
)

// Pipeline bus channels.
const (
	ChannelStorageUploads = "storage.uploads"
	ChannelRecordsCreated = "records.created"
)

// PipelineEvent is one message on the pipeline bus: either a storage upload
// notification carrying the object path, or a record-created notification
// carrying the collection and record id.
type PipelineEvent struct {
	ID         string            `json:"id"`
	Kind       PipelineEventKind `json:"kind"`
	Path       string            `json:"path,omitempty"`
	Collection string            `json:"collection,omitempty"`
	RecordID   string            `json:"record_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
