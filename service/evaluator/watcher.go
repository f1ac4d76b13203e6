package evaluator

import (
	"sort"
	"sync"
	"time"

	"github.com/viant/courtside/model/court"
)

// Watcher turns the level "remaining <= 0" into an edge: every session is
// reported once when it runs out, however often the tick observes it
// afterwards. A session extended back into positive remaining time is
// re-armed.
type Watcher struct {
	mu    sync.Mutex
	fired map[string]bool
}

// NewWatcher returns an armed watcher.
func NewWatcher() *Watcher {
	return &Watcher{fired: map[string]bool{}}
}

// Observe returns the sessions that expired since the previous observation,
// ordered by court.
func (w *Watcher) Observe(now time.Time, sessions []*court.Session) []*court.Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	var expired []*court.Session
	live := make(map[string]bool, len(sessions))
	for _, session := range sessions {
		live[session.ID] = true
		if session.Remaining(now) > 0 {
			delete(w.fired, session.ID)
			continue
		}
		if w.fired[session.ID] {
			continue
		}
		w.fired[session.ID] = true
		expired = append(expired, session)
	}
	for id := range w.fired {
		if !live[id] {
			delete(w.fired, id)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].Court < expired[j].Court })
	return expired
}

// Rearm lets sessionID fire again on the next observation, e.g. after its
// expiry could not be handled.
func (w *Watcher) Rearm(sessionID string) {
	w.mu.Lock()
	delete(w.fired, sessionID)
	w.mu.Unlock()
}

// Reset forgets every fired session.
func (w *Watcher) Reset() {
	w.mu.Lock()
	w.fired = map[string]bool{}
	w.mu.Unlock()
}
