package dao

import (
	"context"
)

// Service is the storage seam behind the lifecycle manager and the queue
// policy. Implementations must return dao.ErrNotFound from Load and Delete
// when the key is absent.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
