package providers

import (
	"context"

	"github.com/nutrisnap/backend/internal/domain/entities"
)

// UserDirectory lists all known users. Implementations page through the
// backing service transparently and return the full set.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]entities.User, error)
}
