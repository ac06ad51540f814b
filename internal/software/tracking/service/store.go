package service

import (
	"sync"

	"fleet-tracking/internal/domain/run"
)

// sessionStore owns the runID -> session map. It guarantees at most one live
// session per run: a second start fails while the first is present, and a
// stop removes the entry before any completion event is emitted, so a
// restart can begin immediately after.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*runSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*runSession)}
}

// put registers a new session, failing if the run is already tracked.
func (store *sessionStore) put(runID string, session *runSession) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, exists := store.sessions[runID]; exists {
		return run.ErrAlreadyTracking
	}
	store.sessions[runID] = session
	return nil
}

// get returns the live session for a run, or run.ErrNotTracking.
func (store *sessionStore) get(runID string) (*runSession, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	session, exists := store.sessions[runID]
	if !exists {
		return nil, run.ErrNotTracking
	}
	return session, nil
}

// remove detaches and returns the session, or run.ErrNotTracking. After
// remove returns, new lookups for the run fail even though an in-flight
// update may still hold the session mutex.
func (store *sessionStore) remove(runID string) (*runSession, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, exists := store.sessions[runID]
	if !exists {
		return nil, run.ErrNotTracking
	}
	delete(store.sessions, runID)
	return session, nil
}

// count reports the number of live sessions.
func (store *sessionStore) count() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}
