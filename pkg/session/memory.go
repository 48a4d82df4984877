package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-memory store. It is the default and fits
// single-server deployments; multi-server setups want RedisStore and
// restart durability wants BoltStore.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*memoryEntry
	closed bool
	done   chan struct{}

	ttl time.Duration
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	ttl           time.Duration
	sweepInterval time.Duration
}

// WithMemoryTTL sets the session lifetime. Zero disables expiry.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.ttl = ttl }
}

// WithSweepInterval sets how often expired sessions are collected.
// Default: 1 minute.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.sweepInterval = d }
}

// NewMemoryStore creates an in-memory session store and starts its
// sweep loop.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &memoryConfig{
		ttl:           DefaultTTL,
		sweepInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &MemoryStore{
		states: make(map[string]*memoryEntry),
		done:   make(chan struct{}),
		ttl:    cfg.ttl,
	}
	go m.sweepLoop(cfg.sweepInterval)
	return m
}

// Save stores an encoded snapshot and resets the expiry clock.
func (m *MemoryStore) Save(ctx context.Context, state *State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.states[state.ID] = &memoryEntry{
		data:      data,
		expiresAt: m.deadline(),
	}
	return nil
}

// Load retrieves a snapshot if present and not expired.
func (m *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	entry, ok := m.states[id]
	closed := m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrStoreClosed
	}
	if !ok || expired(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return DecodeState(entry.data)
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	delete(m.states, id)
	return nil
}

// Touch extends a live session's expiry.
func (m *MemoryStore) Touch(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	entry, ok := m.states[id]
	if !ok || expired(entry.expiresAt) {
		return ErrNotFound
	}
	entry.expiresAt = m.deadline()
	return nil
}

// Close stops the sweep loop and drops all state. Idempotent.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.states = nil
	return nil
}

// Count returns the number of stored sessions, for monitoring and
// tests.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

func (m *MemoryStore) deadline() time.Time {
	if m.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(m.ttl)
}

// expired reports whether a deadline has passed. The zero time means
// no expiry.
func expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

func (m *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	for id, entry := range m.states {
		if expired(entry.expiresAt) {
			delete(m.states, id)
		}
	}
}
