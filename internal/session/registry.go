package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/volleydle/volleydle-data/internal/store"
)

// Registry hosts one Manager per session id. Managers are created on
// first access, restored from their persisted documents, and swept after
// an inactivity window; their documents stay in the store so a swept
// session resumes where it left off.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager

	store  store.Store
	eval   Evaluator
	roster RosterProvider
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistry creates an empty session registry.
func NewRegistry(s store.Store, eval Evaluator, roster RosterProvider, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		managers: make(map[string]*Manager),
		store:    s,
		eval:     eval,
		roster:   roster,
		logger:   logger,
		now:      time.Now,
	}
}

// NewSessionID mints an identifier for a new session cookie.
func NewSessionID() string {
	return uuid.NewString()
}

// Get returns the manager for a session id, creating and initializing it
// on first access.
func (r *Registry) Get(ctx context.Context, id string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[id]; ok {
		m.touch()
		return m, nil
	}

	m := NewManager(Config{
		Store:     r.store,
		Evaluator: r.eval,
		Roster:    r.roster,
		GuessKey:  fmt.Sprintf("guesses:%s", id),
		StatsKey:  fmt.Sprintf("stats:%s", id),
		Logger:    r.logger.With("session", id),
		Now:       r.now,
	})
	if err := m.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize session %s: %w", id, err)
	}
	r.managers[id] = m
	return m, nil
}

// TickAll runs the day-boundary check on every live session.
func (r *Registry) TickAll(ctx context.Context) {
	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	for _, m := range managers {
		m.Tick(ctx)
	}
}

// Sweep drops managers idle longer than maxIdle. Their persisted
// documents remain; a returning session is rebuilt from the store.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	dropped := 0
	for id, m := range r.managers {
		if m.idleSince().Before(cutoff) {
			m.Close()
			delete(r.managers, id)
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Info("Swept idle sessions", "count", dropped, "live", len(r.managers))
	}
	return dropped
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.managers)
}

func (m *Manager) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAccess = m.now()
}

func (m *Manager) idleSince() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAccess
}
