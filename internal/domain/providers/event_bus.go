package providers

import (
	"context"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// EventBus carries pipeline events between the storage plumbing, the ingest
// service and the record processor.
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.PipelineEvent) error
	Subscribe(ctx context.Context, channel string) (<-chan *entities.PipelineEvent, error)
	Close() error
}
