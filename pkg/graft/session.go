// Package graft hosts the reconciliation engine: the render driver
// that runs producer functions, the state cells they retain between
// runs, and the materialize/apply pair that commits edit scripts to a
// live target tree.
//
// All state lives on an explicit Session; there are no process-wide
// singletons. A Session is single-goroutine: every render runs to
// completion before control returns, and a state setter fired inside
// an event handler re-renders synchronously before the handler
// returns. Hosts that receive events concurrently (the WebSocket
// server) serialize them onto one goroutine per session.
package graft

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/vdom"
)

// RenderFunc produces a new UI tree for one render pass. The context
// carries the render target for state reads; see UseState.
type RenderFunc func(ctx *Ctx) *vdom.VNode

// Session is the render-session context. It owns the retained snapshot
// and state cells for every target rendered through it.
type Session struct {
	doc      dom.Document
	logger   *slog.Logger
	targets  map[dom.Node]*Target
	observer func(time.Duration)
	nextID   int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderObserver installs a callback invoked with the duration of
// every completed render pass. The server uses it to feed metrics.
func WithRenderObserver(fn func(time.Duration)) Option {
	return func(s *Session) { s.observer = fn }
}

// NewSession creates a render session over the given document.
func NewSession(doc dom.Document, opts ...Option) *Session {
	s := &Session{
		doc:     doc,
		logger:  slog.Default(),
		targets: make(map[dom.Node]*Target),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target is the opaque render-target handle: one producer mounted into
// one container, together with its retained snapshot and state cells.
type Target struct {
	id        int
	session   *Session
	container dom.Node
	producer  RenderFunc
	snapshot  *vdom.VNode
	mounted   bool
	cells     []*cell
	cursor    int
}

// Ctx is the per-pass view of the render target handed to producers.
// State reads thread through it; it is only valid for the duration of
// the render pass it was created for.
type Ctx struct {
	target *Target
}

// Logger returns the session logger.
func (c *Ctx) Logger() *slog.Logger {
	return c.target.session.logger
}

func (s *Session) ensureTarget(container dom.Node) *Target {
	t := s.targets[container]
	if t == nil {
		s.nextID++
		t = &Target{id: s.nextID, session: s, container: container}
		s.targets[container] = t
	}
	return t
}

// Render runs one render pass of producer into container. On the first
// pass for a container the produced tree is materialized and mounted
// wholesale; on later passes it is diffed against the retained snapshot
// and the edit script is applied to the container's existing live
// child. The retained snapshot is overwritten before returning,
// whichever branch ran.
//
// State setters captured during the pass re-invoke this cycle for the
// same target synchronously; producers must perform their state reads
// in the same order on every pass (see UseState).
func (s *Session) Render(producer RenderFunc, container dom.Node) {
	t := s.ensureTarget(container)
	t.producer = producer
	s.renderTarget(t)
}

func (s *Session) renderTarget(t *Target) {
	start := time.Now()

	t.cursor = 0
	tree := t.producer(&Ctx{target: t})

	switch {
	case !t.mounted:
		if tree != nil {
			t.container.AppendChild(Materialize(s.doc, tree))
			t.mounted = true
		}
	default:
		Apply(s.doc, t.container, t.container.FirstChild(), vdom.Diff(t.snapshot, tree))
		t.mounted = tree != nil
	}
	t.snapshot = tree

	elapsed := time.Since(start)
	if s.observer != nil {
		s.observer(elapsed)
	}
	s.logger.Debug("render pass", "target_id", t.id, "duration", elapsed)
}

// Snapshot returns the tree retained from the last render pass into
// container, or nil when the container has no target yet. The server
// serializes it for the initial page paint; callers must not mutate it.
func (s *Session) Snapshot(container dom.Node) *vdom.VNode {
	t := s.targets[container]
	if t == nil {
		return nil
	}
	return t.snapshot
}

// CellValues serializes the state cells retained for container's
// target, in declaration order. Returns nil when the container has no
// target yet. Cell values must be JSON-marshalable to be persisted.
func (s *Session) CellValues(container dom.Node) ([]json.RawMessage, error) {
	t := s.targets[container]
	if t == nil {
		return nil, nil
	}
	out := make([]json.RawMessage, len(t.cells))
	for i, c := range t.cells {
		b, err := json.Marshal(c.value)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// RestoreCells seeds container's target with serialized cell values,
// in declaration order. Each value decodes lazily into its concrete
// type on the first UseState read. Call before the first render of the
// target; later calls would discard live state.
func (s *Session) RestoreCells(container dom.Node, values []json.RawMessage) {
	t := s.ensureTarget(container)
	t.cells = make([]*cell, len(values))
	for i, raw := range values {
		t.cells[i] = &cell{value: json.RawMessage(append([]byte(nil), raw...))}
	}
}
