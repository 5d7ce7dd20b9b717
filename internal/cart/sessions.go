package cart

import (
	"context"
	"sync"
	"time"

	"sweet-layers/internal/metrics"

	"go.uber.org/zap"
)

// StorageFactory returns the snapshot slot for a session
type StorageFactory func(sessionID string) Storage

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions hands out one Store per cart session, hydrating it on first use
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  StorageFactory
	logger   *zap.Logger
	opts     []Option
	now      func() time.Time
}

// NewSessions creates a session registry. opts are applied to every Store.
func NewSessions(factory StorageFactory, logger *zap.Logger, opts ...Option) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		factory:  factory,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Get returns the store for sessionID, creating and hydrating it if needed
func (r *Sessions) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		s.lastSeen = r.now()
		return s.store
	}

	logger := r.logger.With(zap.String("cart_session", sessionID))
	store := NewStore(ctx, r.factory(sessionID), logger, r.opts...)
	r.sessions[sessionID] = &session{store: store, lastSeen: r.now()}
	metrics.CartSessions.Set(float64(len(r.sessions)))

	return store
}

// EvictIdle drops sessions unused for longer than idle. Their snapshots stay
// in storage, so a later Get rehydrates them.
func (r *Sessions) EvictIdle(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	metrics.CartSessions.Set(float64(len(r.sessions)))

	return evicted
}

// Len returns the number of sessions held in memory
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// RunEviction evicts idle sessions every interval until ctx is done
func (r *Sessions) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(idle); n > 0 {
				r.logger.Debug("Evicted idle cart sessions", zap.Int("count", n))
			}
		}
	}
}
