package courtside_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/courtside"
	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/model/court"
)

var start = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

func TestService_Location(t *testing.T) {
	ctx := context.Background()
	srv, err := courtside.New(courtside.WithClock(clock.NewManual(start)))
	require.NoError(t, err)
	defer srv.Close()

	first, err := srv.Location(ctx, "default")
	require.NoError(t, err)
	second, err := srv.Location(ctx, "default")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, []string{"default"}, srv.Locations())

	_, err = srv.Location(ctx, "elsewhere")
	assert.ErrorIs(t, err, courtside.ErrUnknownLocation)
}

func TestService_Stores(t *testing.T) {
	testCases := []struct {
		description string
		store       func(t *testing.T) courtside.StoreConfig
	}{
		{
			description: "fs",
			store: func(t *testing.T) courtside.StoreConfig {
				return courtside.StoreConfig{Kind: courtside.StoreFS, URL: "mem://localhost/courtside/" + t.Name()}
			},
		},
		{
			description: "sqlite",
			store: func(t *testing.T) courtside.StoreConfig {
				return courtside.StoreConfig{Kind: courtside.StoreSQLite, URL: filepath.Join(t.TempDir(), "courts.db")}
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			fs := afs.New()
			cfg := courtside.DefaultConfig()
			cfg.Store = testCase.store(t)
			clk := clock.NewManual(start)

			srv, err := courtside.NewFromConfig(cfg, courtside.WithClock(clk), courtside.WithFS(fs))
			require.NoError(t, err)
			location, err := srv.Location(ctx, "default")
			require.NoError(t, err)
			result, err := location.Request(ctx, court.Doubles, "Alice & Bob")
			require.NoError(t, err)
			require.NotNil(t, result.Session)
			_, err = location.JoinQueue(ctx, court.Singles, "Carol")
			require.NoError(t, err)
			_, err = location.JoinQueue(ctx, court.Singles, "Dan")
			require.NoError(t, err)
			require.NoError(t, srv.Close())

			reopened, err := courtside.NewFromConfig(cfg, courtside.WithClock(clk), courtside.WithFS(fs))
			require.NoError(t, err)
			defer reopened.Close()
			location, err = reopened.Location(ctx, "default")
			require.NoError(t, err)
			snapshot, err := location.Snapshot(ctx)
			require.NoError(t, err)
			require.Len(t, snapshot.Courts, 2)
			require.NotNil(t, snapshot.Courts[0].Session)
			assert.Equal(t, result.Session.ID, snapshot.Courts[0].Session.ID)
			assert.Equal(t, "Alice & Bob", snapshot.Courts[0].Session.Label)
			// court 2 went to Carol as an offer on join
			require.Len(t, snapshot.Queue, 1)
			assert.Equal(t, "Dan", snapshot.Queue[0].Label)
			require.Len(t, snapshot.Offers, 1)
			assert.Equal(t, "Carol", snapshot.Offers[0].Entry.Label)
		})
	}
}

func TestService_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := courtside.DefaultConfig()
	cfg.Scheduler.Interval = 5 * time.Millisecond
	cfg.Locations[0].Model = string(court.TwoTier)
	clk := clock.NewManual(start)

	var mu sync.Mutex
	var expired []int
	srv, err := courtside.NewFromConfig(cfg, courtside.WithClock(clk), courtside.WithExpiryHook(func(location string, courtNo int) {
		mu.Lock()
		expired = append(expired, courtNo)
		mu.Unlock()
	}))
	require.NoError(t, err)
	defer srv.Close()

	location, err := srv.Location(ctx, "default")
	require.NoError(t, err)
	_, err = location.Request(ctx, court.Singles, "Ana")
	require.NoError(t, err)

	stop, err := srv.Watch(ctx, "default")
	require.NoError(t, err)
	again, err := srv.Watch(ctx, "default")
	require.NoError(t, err)
	defer again()

	clk.Advance(61 * time.Minute)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(expired) == 1 && expired[0] == 1
	}, time.Second, 5*time.Millisecond)

	state, err := location.Court(ctx, 1)
	require.NoError(t, err)
	assert.True(t, state.Available())
	stop()
	stop()
}
