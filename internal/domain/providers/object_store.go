package providers

import "context"

// ObjectStore is the read-only view of the upload bucket. Keys follow the
// upload path convention "userID/type/filename".
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Download(ctx context.Context, key string) ([]byte, error)
}
