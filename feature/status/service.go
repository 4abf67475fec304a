package status

import (
	"sync"

	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"

	"go.uber.org/zap"
)

// Tracker keeps the latest session state reported by the scheduler.
type Tracker struct {
	mu    sync.RWMutex
	state reconcile.SessionState
}

// NewTracker returns a tracker holding an idle session.
func NewTracker() *Tracker {
	return &Tracker{state: reconcile.SessionState{Phase: reconcile.PhaseIdle}}
}

// Observe records state. It matches the scheduler's OnTick signature.
func (t *Tracker) Observe(state reconcile.SessionState) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

// Snapshot returns a copy of the latest state.
func (t *Tracker) Snapshot() reconcile.SessionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Service answers status queries.
type Service struct {
	tracker *Tracker
	store   reconcile.DocumentStore
	logger  *zap.Logger
}

// NewService creates a status service.
func NewService(tracker *Tracker, store reconcile.DocumentStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tracker: tracker, store: store, logger: logger}
}

// Session returns the latest session state.
func (s *Service) Session() reconcile.SessionState {
	return s.tracker.Snapshot()
}

// Playlist returns the persisted document.
func (s *Service) Playlist() (playlist.Document, bool, error) {
	return s.store.Read()
}
