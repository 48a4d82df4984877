package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/session"
	"github.com/graft-dev/graft/pkg/vdom"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// counterRoot renders a click-to-increment counter; the count lives in
// one state cell so it survives persist/restore.
func counterRoot(ctx *graft.Ctx) *vdom.VNode {
	count, setCount := graft.UseState(ctx, 0)
	return vdom.Div(
		vdom.Button(vdom.OnClick(func() { setCount(count + 1) }), "+"),
		vdom.Span(strconv.Itoa(count)),
	)
}

func newTestManager(t *testing.T, store session.Store, maxSessions int) *Manager {
	t.Helper()
	m := newManager(DefaultSessionConfig(), maxSessions, store, testLogger(), nil, noopTracer())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m.Shutdown(ctx)
	})
	return m
}

// click invokes the handler installed on the session's button through
// the mirror, driving a synchronous state write and re-render.
func click(t *testing.T, s *Session) {
	t.Helper()
	node, ok := s.mirror.NodeAt(protocol.Path{0})
	if !ok {
		t.Fatal("button not found in mirror")
	}
	h, ok := node.Handler("click")
	if !ok {
		t.Fatal("no click handler on button")
	}
	h(dom.Event{Type: "click"})
}

func spanText(t *testing.T, s *Session) string {
	t.Helper()
	tree := s.engine.Snapshot(s.mirror.Root())
	if tree == nil || len(tree.Children) < 2 {
		t.Fatalf("unexpected snapshot: %+v", tree)
	}
	return tree.Children[1].Children[0].Value.(string)
}

func TestManager_CreateGetCloseCount(t *testing.T) {
	m := newTestManager(t, nil, 0)

	if m.Count() != 0 {
		t.Fatalf("Count = %d, want 0", m.Count())
	}

	s, err := m.Create(counterRoot, "counter")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session has no ID")
	}
	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1", m.Count())
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatalf("Get(%q) = %v, %v; want the created session", s.ID, got, ok)
	}
	if _, ok := m.Get("nope"); ok {
		t.Fatal("Get of unknown ID succeeded")
	}

	if err := m.Close(s.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("Count after Close = %d, want 0", m.Count())
	}
	if !s.closed.Load() {
		t.Fatal("session not closed")
	}
	if err := m.Close(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second Close = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_MaxSessions(t *testing.T) {
	m := newTestManager(t, nil, 2)

	for i := 0; i < 2; i++ {
		if _, err := m.Create(counterRoot, "counter"); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	if _, err := m.Create(counterRoot, "counter"); !errors.Is(err, ErrMaxSessionsReached) {
		t.Fatalf("Create over cap = %v, want ErrMaxSessionsReached", err)
	}
}

func TestManager_RestoreRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newTestManager(t, store, 0)
	ctx := context.Background()

	s, err := m.Create(counterRoot, "counter")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.mount()
	click(t, s)
	click(t, s)
	if got := spanText(t, s); got != "2" {
		t.Fatalf("count after clicks = %q, want 2", got)
	}

	m.persist(ctx, s)
	if err := m.Close(s.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	restored, err := m.Restore(ctx, s.ID, "counter", counterRoot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.ID != s.ID {
		t.Fatalf("restored ID = %q, want %q", restored.ID, s.ID)
	}
	if got := spanText(t, restored); got != "2" {
		t.Fatalf("restored count = %q, want 2", got)
	}

	// The restored session keeps counting from where it left off.
	click(t, restored)
	if got := spanText(t, restored); got != "3" {
		t.Fatalf("count after restored click = %q, want 3", got)
	}
}

func TestManager_RestoreWithoutStore(t *testing.T) {
	m := newTestManager(t, nil, 0)
	if _, err := m.Restore(context.Background(), "any", "counter", counterRoot); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Restore without store = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_RestoreUnknownID(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newTestManager(t, store, 0)

	if _, err := m.Restore(context.Background(), "missing", "counter", counterRoot); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Restore of unknown ID = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_RestoreRejectsDifferentRoot(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newTestManager(t, store, 0)
	ctx := context.Background()

	s, err := m.Create(counterRoot, "counter")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.mount()
	m.persist(ctx, s)
	m.Close(s.ID)

	// State cells restore positionally; handing them to different code
	// must be refused and the stale snapshot dropped.
	if _, err := m.Restore(ctx, s.ID, "dashboard", counterRoot); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Restore under different root = %v, want ErrSessionNotFound", err)
	}
	if _, err := store.Load(ctx, s.ID); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("stale snapshot still loadable: %v", err)
	}
}

func TestManager_RestoreReturnsLiveSession(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newTestManager(t, store, 0)
	ctx := context.Background()

	s, err := m.Create(counterRoot, "counter")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.mount()
	m.persist(ctx, s)

	// Still in memory: Restore must hand back the live session, not a
	// second copy built from the store.
	got, err := m.Restore(ctx, s.ID, "counter", counterRoot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got != s {
		t.Fatal("Restore built a duplicate of a live session")
	}
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newTestManager(t, store, 0)

	s, err := m.Create(counterRoot, "counter")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.mount()
	s.lastActive.Store(time.Now().Add(-time.Hour).UnixNano())

	m.sweepExpired()

	if m.Count() != 0 {
		t.Fatalf("Count after sweep = %d, want 0", m.Count())
	}
	if !s.closed.Load() {
		t.Fatal("expired session not closed")
	}
	// The sweep persisted it, so a later handshake can revive it.
	if _, err := store.Load(context.Background(), s.ID); err != nil {
		t.Fatalf("expired session not persisted: %v", err)
	}
}

func TestManager_ShutdownPersistsAndCloses(t *testing.T) {
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	m := newManager(DefaultSessionConfig(), 0, store, testLogger(), nil, noopTracer())

	var ids []string
	var sessions []*Session
	for i := 0; i < 3; i++ {
		s, err := m.Create(counterRoot, "counter")
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		s.mount()
		ids = append(ids, s.ID)
		sessions = append(sessions, s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if m.Count() != 0 {
		t.Fatalf("Count after Shutdown = %d, want 0", m.Count())
	}
	for i, s := range sessions {
		if !s.closed.Load() {
			t.Errorf("session %d not closed", i)
		}
	}
	for _, id := range ids {
		if _, err := store.Load(ctx, id); err != nil {
			t.Errorf("session %s not persisted: %v", id, err)
		}
	}
}
