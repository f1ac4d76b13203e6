package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/courtside/service/dao"
)

type record struct {
	ID    int
	Label string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[int, record](func(r *record) int { return r.ID })

	_, err := s.Load(ctx, 1)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)

	in := &record{ID: 1, Label: "Alice"}
	assert.NoError(t, s.Save(ctx, in))
	in.Label = "mutated"

	got, err := s.Load(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "Alice", got.Label)

	got.Label = "also mutated"
	again, _ := s.Load(ctx, 1)
	assert.Equal(t, "Alice", again.Label)

	assert.NoError(t, s.Save(ctx, &record{ID: 2, Label: "Bob"}))
	all, err := s.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, s.Delete(ctx, 1))
	assert.ErrorIs(t, s.Delete(ctx, 1), dao.ErrNotFound)

	assert.NoError(t, dao.Clear[int, record](ctx, s, func(r *record) int { return r.ID }))
	all, _ = s.List(ctx)
	assert.Empty(t, all)
}
