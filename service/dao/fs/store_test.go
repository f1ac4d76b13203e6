package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/dao"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	baseURL := Namespace("mem://localhost/courtside", "pier", "sessions")
	store, err := New[int, court.Session](ctx, afs.New(), baseURL, func(s *court.Session) int { return s.Court })
	if !assert.NoError(t, err) {
		return
	}

	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session := &court.Session{ID: "s1", Court: 1, StartedAt: started, Duration: time.Hour, Occupants: court.Singles, Label: "Alice"}
	assert.NoError(t, store.Save(ctx, session))
	assert.NoError(t, store.Save(ctx, &court.Session{ID: "s2", Court: 2, StartedAt: started, Duration: 2 * time.Hour, Occupants: court.Doubles, Label: "Bob"}))

	got, err := store.Load(ctx, 1)
	assert.NoError(t, err)
	assert.EqualValues(t, session, got)

	all, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, store.Delete(ctx, 1))
	_, err = store.Load(ctx, 1)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 1), dao.ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, &court.Session{}), dao.ErrInvalidID)
}
