package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/session"
	"github.com/graft-dev/graft/pkg/vdom"
)

// Session is one live application instance: a render engine mounted
// into a mirror tree, the WebSocket connection feeding it events, and
// the sequencing state that keeps both ends aligned.
//
// The event loop is the only goroutine that runs handlers and renders.
// It is started once and lives until Close; connections come and go
// underneath it.
type Session struct {
	ID string

	config    *SessionConfig
	logger    *slog.Logger
	metrics   *serverMetrics
	tracer    trace.Tracer
	resumable bool

	mirror   *mirror
	engine   *graft.Session
	root     graft.RenderFunc
	rootName string

	// mu guards the connection, the patch history, the engine, and
	// send sequencing. Dispatch holds it for the whole
	// handler-render-flush cycle.
	mu       sync.Mutex
	conn     *websocket.Conn
	connDone chan struct{}
	history  *patchHistory

	events chan *protocol.Event
	done   chan struct{}
	closed atomic.Bool

	sendSeq atomic.Uint64
	recvSeq atomic.Uint64
	ackSeq  atomic.Uint64

	createdAt  time.Time
	lastActive atomic.Int64 // unix nanos

	eventCount atomic.Uint64
	patchCount atomic.Uint64
}

// generateSessionID returns a 128-bit random hex ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Without entropy every security property is gone; refuse to run.
		panic("server: session ID entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func newSession(id string, config *SessionConfig, root graft.RenderFunc, rootName string, logger *slog.Logger, metrics *serverMetrics, tracer trace.Tracer, resumable bool) *Session {
	s := &Session{
		ID:        id,
		config:    config,
		logger:    logger.With("session_id", id),
		metrics:   metrics,
		tracer:    tracer,
		resumable: resumable,
		mirror:    newMirror(),
		root:      root,
		rootName:  rootName,
		history:   newPatchHistory(config.MaxPatchHistory),
		events:    make(chan *protocol.Event, config.MaxEventQueue),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
	s.engine = graft.NewSession(s.mirror,
		graft.WithLogger(s.logger),
		graft.WithRenderObserver(metrics.observeRender),
	)
	s.touch()
	go s.eventLoop()
	return s
}

// mount runs the initial render with patch recording off: that tree
// reaches the client as HTML with the page, not as patches. Recording
// is on for everything after. Returns the rendered tree.
func (s *Session) mount() *vdom.VNode {
	s.mirror.SetRecording(false)
	s.engine.Render(s.root, s.mirror.Root())
	s.mirror.SetRecording(true)
	return s.engine.Snapshot(s.mirror.Root())
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last client interaction.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// IdleFor returns how long the session has gone without client
// interaction.
func (s *Session) IdleFor() time.Duration {
	return time.Since(s.LastActive())
}

// Attached reports whether a WebSocket connection is currently bound.
func (s *Session) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Attach binds a WebSocket connection to the session, replacing any
// previous one, sends the server hello, and brings the client up to
// date: nothing when it is current, a patch replay when the gap is
// still in history, a full tree resend otherwise. forceResync skips
// the gap check and always resends the tree; restores use it because
// the rebuilt mirror is not guaranteed byte-identical to whatever the
// client last displayed.
func (s *Session) Attach(conn *websocket.Conn, lastSeq uint64, forceResync bool) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	if s.connDone != nil {
		close(s.connDone)
	}
	s.conn = conn
	connDone := make(chan struct{})
	s.connDone = connDone
	conn.SetReadLimit(s.config.MaxMessageSize)

	hello := protocol.NewServerHello(s.ID, uint32(s.sendSeq.Load())+1, uint64(time.Now().UnixMilli()))
	if s.resumable {
		hello.Flags |= protocol.ServerFlagResume
	}
	if err := s.writeFrameLocked(protocol.NewFrame(protocol.FrameHandshake, protocol.EncodeServerHello(hello))); err != nil {
		s.conn = nil
		s.mu.Unlock()
		return err
	}
	s.syncClientLocked(lastSeq, forceResync)
	s.touch()
	s.mu.Unlock()

	go s.readLoop(conn, connDone)
	go s.heartbeat(connDone)
	return nil
}

// syncClientLocked reconciles a freshly attached client at lastSeq
// with the server at sendSeq.
func (s *Session) syncClientLocked(lastSeq uint64, force bool) {
	cur := s.sendSeq.Load()
	if !force {
		if lastSeq == cur {
			return
		}
		if lastSeq < cur {
			if patches, ok := s.history.After(lastSeq); ok {
				s.logger.Debug("replaying missed patches", "from_seq", lastSeq+1, "to_seq", cur)
				ct, payload := protocol.NewResyncPatches(lastSeq+1, patches)
				s.sendControlLocked(ct, payload)
				return
			}
		}
	}
	// Behind beyond history, ahead of the server (stale restore), or
	// an explicit force: resend the whole mounted tree.
	s.logger.Debug("resyncing full tree", "client_seq", lastSeq, "server_seq", cur)
	ct, payload := protocol.NewResyncTree(s.mirror.RootWire(), cur+1)
	s.sendControlLocked(ct, payload)
}

// detach unbinds conn if it is still the session's current connection.
// The session stays alive and resumable.
func (s *Session) detach(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		if s.connDone != nil {
			close(s.connDone)
			s.connDone = nil
		}
		s.touch()
		s.metrics.disconnected()
		s.logger.Info("client detached",
			"events", s.eventCount.Load(),
			"patches", s.patchCount.Load())
	}
	s.mu.Unlock()
	conn.Close()
}

// Close tears the session down permanently. Idempotent.
func (s *Session) Close() error {
	return s.CloseWithReason(protocol.CloseNormal, "")
}

// CloseWithReason closes the session, telling the client why.
func (s *Session) CloseWithReason(reason protocol.CloseReason, message string) error {
	if s.closed.Swap(true) {
		return nil
	}

	s.mu.Lock()
	if s.conn != nil {
		ct, payload := protocol.NewClose(reason, message)
		s.sendControlLocked(ct, payload)
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.conn.Close()
		s.conn = nil
	}
	if s.connDone != nil {
		close(s.connDone)
		s.connDone = nil
	}
	s.mu.Unlock()

	close(s.done)
	s.metrics.sessionEnded()
	s.logger.Info("session closed",
		"reason", reason.String(),
		"events", s.eventCount.Load(),
		"patches", s.patchCount.Load(),
		"lifetime", time.Since(s.createdAt))
	return nil
}

// persistState captures the session for the store.
func (s *Session) persistState() (*session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells, err := s.engine.CellValues(s.mirror.Root())
	if err != nil {
		return nil, fmt.Errorf("serialize state cells: %w", err)
	}
	return &session.State{
		Version:    session.CurrentStateVersion,
		ID:         s.ID,
		CreatedAt:  s.createdAt,
		LastActive: s.LastActive(),
		Seq:        s.sendSeq.Load() + 1,
		Producer:   s.rootName,
		Cells:      cells,
	}, nil
}

// restoreState seeds a fresh session from persisted state. Must run
// before mount.
func (s *Session) restoreState(st *session.State) {
	s.engine.RestoreCells(s.mirror.Root(), st.Cells)
	if st.Seq > 0 {
		s.sendSeq.Store(st.Seq - 1)
	}
	s.createdAt = st.CreatedAt
}

// readLoop pumps frames off one connection until it dies.
func (s *Session) readLoop(conn *websocket.Conn, connDone chan struct{}) {
	defer s.detach(conn)

	for {
		select {
		case <-s.done:
			return
		case <-connDone:
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		s.metrics.readBytes(len(msg))
		s.touch()

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("dropping undecodable frame", "error", err)
			s.sendError(protocol.NewError(protocol.ErrInvalidFrame, "malformed frame"))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.enqueueEvent(frame.Payload)
		case protocol.FrameControl:
			s.handleControl(frame.Payload)
		case protocol.FrameAck:
			s.handleAck(frame.Payload)
		default:
			s.logger.Debug("ignoring frame", "type", frame.Type.String())
		}
	}
}

func (s *Session) enqueueEvent(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Warn("dropping undecodable event", "error", err)
		s.sendError(protocol.NewError(protocol.ErrInvalidEvent, "malformed event"))
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event queue full, dropping event", "seq", ev.Seq, "type", ev.Type.String())
		s.metrics.eventFailed(eventName(ev), "queue_full")
		s.sendError(protocol.NewError(protocol.ErrRateLimited, "event queue full"))
	}
}

func (s *Session) handleControl(payload []byte) {
	ct, body, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Warn("dropping undecodable control message", "error", err)
		return
	}

	switch ct {
	case protocol.ControlPing:
		ts := uint64(time.Now().UnixMilli())
		if pp, ok := body.(*protocol.PingPong); ok {
			ts = pp.Timestamp
		}
		rt, rp := protocol.NewPong(ts)
		s.sendControl(rt, rp)

	case protocol.ControlPong:
		s.logger.Debug("pong received")

	case protocol.ControlResyncRequest:
		rr, ok := body.(*protocol.ResyncRequest)
		if !ok {
			return
		}
		s.mu.Lock()
		s.syncClientLocked(rr.LastSeq, false)
		s.mu.Unlock()

	case protocol.ControlClose:
		reason := protocol.CloseNormal
		if cm, ok := body.(*protocol.CloseMessage); ok {
			reason = cm.Reason
		}
		s.logger.Info("client requested close", "reason", reason.String())
		s.Close()

	default:
		s.logger.Debug("ignoring control message", "type", ct.String())
	}
}

func (s *Session) handleAck(payload []byte) {
	ack, err := protocol.DecodeAck(payload)
	if err != nil {
		s.logger.Warn("dropping undecodable ack", "error", err)
		return
	}
	s.ackSeq.Store(ack.LastSeq)
}

// eventLoop dispatches queued events one at a time, in arrival order,
// for the session's whole lifetime.
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.dispatch(ev)
		}
	}
}

// dispatch resolves the event's target in the mirror, runs the
// handler, and flushes whatever patches the handler's renders
// recorded as one sequenced frame.
func (s *Session) dispatch(ev *protocol.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recvSeq.Store(ev.Seq)
	s.eventCount.Add(1)
	name := eventName(ev)
	s.metrics.eventReceived(name)

	_, span := s.startEventSpan(context.Background(), ev)

	node, ok := s.mirror.NodeAt(ev.Path)
	if !ok {
		s.metrics.eventFailed(name, "target_not_found")
		s.sendErrorLocked(protocol.NewError(protocol.ErrTargetNotFound, "no node at "+ev.Path.String()))
		endEventSpan(span, 0, fmt.Errorf("no node at %s", ev.Path))
		return
	}
	handler, ok := node.Handler(name)
	if !ok {
		s.metrics.eventFailed(name, "handler_not_found")
		s.sendErrorLocked(protocol.NewError(protocol.ErrHandlerNotFound, "no "+name+" handler at "+ev.Path.String()))
		endEventSpan(span, 0, fmt.Errorf("no %s handler at %s", name, ev.Path))
		return
	}

	err := s.invoke(handler, dom.Event{Type: name, Value: ev.ValueString()})

	// Ship whatever was recorded even after a panic: every recorded
	// patch came from a completed render pass, and holding them back
	// would desync the client from the mirror.
	patches := s.mirror.Drain()
	if len(patches) > 0 {
		s.flushLocked(patches)
	}

	if err != nil {
		s.metrics.eventFailed(name, "handler_panic")
		s.sendErrorLocked(protocol.NewError(protocol.ErrHandlerPanic, "internal error"))
	}
	endEventSpan(span, len(patches), err)
}

// invoke runs one handler, converting a panic into an error.
func (s *Session) invoke(h dom.Handler, ev dom.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			s.logger.Error("handler panic",
				"event", ev.Type,
				"panic", r,
				"stack", string(stack))
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	h(ev)
	return nil
}

// flushLocked sends one batch of patches as the next sequenced frame
// and retains it for reconnect replay.
func (s *Session) flushLocked(patches []protocol.Patch) {
	seq := s.sendSeq.Add(1)
	s.history.Add(seq, patches)
	s.patchCount.Add(uint64(len(patches)))
	s.metrics.patchesFlushed(len(patches))

	payload := protocol.EncodePatches(&protocol.PatchesFrame{Seq: seq, Patches: patches})
	if err := s.writeFrameLocked(protocol.NewFrame(protocol.FramePatches, payload)); err != nil {
		if err != ErrNoConnection {
			s.logger.Warn("patch frame not delivered", "seq", seq, "error", err)
		}
		// The frame is in history; a reconnect replays it.
	}
}

// heartbeat pings the client on a fixed cadence while the connection
// lives. The client's pong keeps the read loop's deadline fed.
func (s *Session) heartbeat(connDone chan struct{}) {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-connDone:
			return
		case <-ticker.C:
			ct, payload := protocol.NewPing(uint64(time.Now().UnixMilli()))
			if err := s.sendControl(ct, payload); err != nil {
				return
			}
		}
	}
}

func (s *Session) sendControl(ct protocol.ControlType, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendControlLocked(ct, payload)
}

func (s *Session) sendControlLocked(ct protocol.ControlType, payload any) error {
	return s.writeFrameLocked(protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(ct, payload)))
}

func (s *Session) sendError(em *protocol.ErrorMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErrorLocked(em)
}

func (s *Session) sendErrorLocked(em *protocol.ErrorMessage) {
	if err := s.writeFrameLocked(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))); err != nil && err != ErrNoConnection {
		s.logger.Debug("error frame not delivered", "error", err)
	}
}

func (s *Session) writeFrameLocked(frame *protocol.Frame) error {
	if s.conn == nil {
		return ErrNoConnection
	}
	if len(frame.Payload) > protocol.MaxPayloadSize {
		s.logger.Error("frame payload exceeds protocol limit",
			"type", frame.Type.String(),
			"size", len(frame.Payload))
		return protocol.ErrFrameTooLarge
	}
	data := frame.Encode()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.metrics.wroteBytes(len(data))
	return nil
}

func eventName(ev *protocol.Event) string {
	if ev.Type == protocol.EventCustom {
		if d, ok := ev.Payload.(*protocol.CustomEventData); ok && d.Name != "" {
			return d.Name
		}
		return "custom"
	}
	return ev.Type.DOMName()
}
