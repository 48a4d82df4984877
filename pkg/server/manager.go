package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/session"
)

// Manager owns every in-memory session: creation, lookup, restoration
// from the persistence store, idle expiry, and shutdown.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	config      *SessionConfig
	maxSessions int
	store       session.Store
	logger      *slog.Logger
	metrics     *serverMetrics
	tracer      trace.Tracer

	done      chan struct{}
	sweepDone chan struct{}
	stopOnce  sync.Once
}

func newManager(config *SessionConfig, maxSessions int, store session.Store, logger *slog.Logger, metrics *serverMetrics, tracer trace.Tracer) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		config:      config,
		maxSessions: maxSessions,
		store:       store,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		done:        make(chan struct{}),
		sweepDone:   make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Create makes a fresh session for the given root.
func (m *Manager) Create(root graft.RenderFunc, rootName string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrMaxSessionsReached
	}
	s := newSession(generateSessionID(), m.config, root, rootName, m.logger, m.metrics, m.tracer, m.store != nil)
	m.sessions[s.ID] = s
	m.metrics.sessionStarted()
	m.logger.Info("session created", "session_id", s.ID, "sessions", len(m.sessions))
	return s, nil
}

// Get returns the in-memory session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Restore revives a session from the persistence store: a fresh
// session under the persisted ID, seeded with the persisted state
// cells, mounted by one render pass. Returns ErrSessionNotFound when
// no store is configured, the snapshot is gone, or it belongs to a
// different root.
func (m *Manager) Restore(ctx context.Context, id, rootName string, root graft.RenderFunc) (*Session, error) {
	if m.store == nil {
		return nil, ErrSessionNotFound
	}
	st, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if st.Producer != "" && st.Producer != rootName {
		// Cells restore positionally; feeding them to a different
		// producer would yield garbage state.
		m.logger.Warn("persisted state belongs to a different root, discarding",
			"session_id", id, "producer", st.Producer, "root", rootName)
		m.store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}
	s := newSession(id, m.config, root, rootName, m.logger, m.metrics, m.tracer, true)
	s.restoreState(st)
	s.mount()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metrics.sessionStarted()
	m.metrics.sessionRestored()
	m.logger.Info("session restored from store", "session_id", id)
	return s, nil
}

// Close removes and closes one session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	return s.Close()
}

// Count returns the number of in-memory sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// persist saves one session to the store, best effort.
func (m *Manager) persist(ctx context.Context, s *Session) {
	if m.store == nil {
		return
	}
	st, err := s.persistState()
	if err == nil {
		err = m.store.Save(ctx, st)
	}
	if err != nil {
		m.logger.Warn("session state not persisted", "session_id", s.ID, "error", err)
	}
}

func (m *Manager) sweepLoop() {
	defer close(m.sweepDone)

	interval := m.config.IdleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweepExpired()
		}
	}
}

// sweepExpired persists and closes every session idle past the idle
// timeout. A connected client keeps its session fresh through pong
// traffic, so only abandoned sessions expire.
func (m *Manager) sweepExpired() {
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.IdleFor() > m.config.IdleTimeout {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()
	if len(expired) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, s := range expired {
		m.persist(ctx, s)
		s.CloseWithReason(protocol.CloseSessionExpired, "session expired")
	}
	m.logger.Info("expired idle sessions", "count", len(expired))
}

// Shutdown stops the sweeper, persists every session, and closes them
// concurrently. Returns early with ctx's error if it expires first.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.stopOnce.Do(func() { close(m.done) })
	<-m.sweepDone

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			m.persist(ctx, s)
			s.CloseWithReason(protocol.CloseServerShutdown, "server shutting down")
		}(s)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
