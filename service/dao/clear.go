package dao

import (
	"context"
	"errors"
	"fmt"
)

// Clear deletes every record of s. Records removed concurrently are ignored.
func Clear[K comparable, T any](ctx context.Context, s Service[K, T], key func(*T) K) error {
	items, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	for _, item := range items {
		if err := s.Delete(ctx, key(item)); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to delete record: %w", err)
		}
	}
	return nil
}
