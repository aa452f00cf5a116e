package session

import (
	"context"
	"errors"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Registry tracks the open sessions of this process by ID.
type Registry struct {
	m *Materializer

	mu       sync.Mutex
	sessions map[uuid.UUID]*Live
}

// NewRegistry creates an empty Registry starting sessions through m.
func NewRegistry(m *Materializer) *Registry {
	return &Registry{m: m, sessions: map[uuid.UUID]*Live{}}
}

// Open starts a session for workoutName and registers it.
func (r *Registry) Open(ctx context.Context, workoutName string) (uuid.UUID, *Live, error) {
	live, err := r.m.Start(ctx, workoutName)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id := uuid.New()

	r.mu.Lock()
	r.sessions[id] = live
	r.mu.Unlock()

	r.m.log.Info("session started", "id", id, "workout", workoutName)
	return id, live, nil
}

// Get returns the open session with id.
func (r *Registry) Get(id uuid.UUID) (*Live, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	live, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return live, nil
}

// Finish finishes and unregisters the session.
func (r *Registry) Finish(ctx context.Context, id uuid.UUID) (models.HistoryEntry, error) {
	live, err := r.take(id)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	return live.Finish(ctx)
}

// Cancel discards the session without recording history.
func (r *Registry) Cancel(id uuid.UUID) error {
	live, err := r.take(id)
	if err != nil {
		return err
	}
	live.Cancel()
	r.m.log.Info("session cancelled", "id", id, "workout", live.WorkoutName())
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Clock returns the clock sessions are timed with.
func (r *Registry) Clock() Clock { return r.m.clock }

func (r *Registry) take(id uuid.UUID) (*Live, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	live, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.sessions, id)
	return live, nil
}
