// Package fairness keeps the FIFO waiting list of a location and decides which
// request, if any, may claim a freed court.
package fairness

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/internal/idgen"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/dao"
)

// Key selects the queue entry key.
func Key(e *court.QueueEntry) string { return e.ID }

// Service stores queue entries in arrival order.
type Service struct {
	entries dao.Service[string, court.QueueEntry]
	clock   clock.Clock

	mu     sync.Mutex
	seq    int64
	seeded bool
}

// New creates a queue over entries.
func New(entries dao.Service[string, court.QueueEntry], clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{entries: entries, clock: clk}
}

// Join appends a request to the tail of the queue. Duplicates are allowed.
func (s *Service) Join(ctx context.Context, occupants court.Occupants, label string) (*court.QueueEntry, error) {
	const op = "join queue"
	if err := court.CheckOccupants(occupants); err != nil {
		return nil, court.Invalid(op, err)
	}
	label, err := court.NormalizeLabel(label)
	if err != nil {
		return nil, court.Invalid(op, err)
	}
	seq, err := s.nextSeq(ctx)
	if err != nil {
		return nil, err
	}
	entry := &court.QueueEntry{
		ID:        idgen.New(),
		Label:     label,
		Occupants: occupants,
		AddedAt:   s.clock.Now(),
		Seq:       seq,
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save queue entry: %w", err)
	}
	return entry.Clone(), nil
}

// nextSeq continues the sequence from the stored entries on first use so a
// durable queue keeps its order across restarts.
func (s *Service) nextSeq(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded {
		entries, err := s.entries.List(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list queue entries: %w", err)
		}
		for _, e := range entries {
			if e.Seq > s.seq {
				s.seq = e.Seq
			}
		}
		s.seeded = true
	}
	s.seq++
	return s.seq, nil
}

// Withdraw removes the entry from any position and returns it.
func (s *Service) Withdraw(ctx context.Context, id string) (*court.QueueEntry, error) {
	const op = "withdraw from queue"
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrEntryNotFound, id))
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrEntryNotFound, id))
		}
		return nil, fmt.Errorf("failed to delete queue entry: %w", err)
	}
	return entry, nil
}

// Restore puts a previously withdrawn entry back. It keeps its arrival time
// and sequence, so it regains its original position.
func (s *Service) Restore(ctx context.Context, entry *court.QueueEntry) error {
	restored := entry.Clone()
	restored.IsNext = false
	restored.ExpectedCourt = 0
	restored.ExpectedStart = nil
	if err := s.entries.Save(ctx, restored); err != nil {
		return fmt.Errorf("failed to restore queue entry: %w", err)
	}
	return nil
}

// Get returns the entry, or nil when it is not queued.
func (s *Service) Get(ctx context.Context, id string) (*court.QueueEntry, error) {
	entry, err := s.entries.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load queue entry %s: %w", id, err)
	}
	return entry, nil
}

// Entries returns the queue in FIFO order.
func (s *Service) Entries(ctx context.Context) ([]*court.QueueEntry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}
	court.SortEntries(entries)
	return entries, nil
}

// Clear empties the queue.
func (s *Service) Clear(ctx context.Context) error {
	return dao.Clear[string, court.QueueEntry](ctx, s.entries, Key)
}
