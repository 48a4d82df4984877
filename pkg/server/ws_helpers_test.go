package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/session"
)

// newTestServer builds a server around root and serves it from an
// httptest listener.
func newTestServer(t *testing.T, config *Config, rootName string, root graft.RenderFunc) (*Server, *httptest.Server) {
	t.Helper()
	if config == nil {
		config = &Config{}
	}
	if config.Logger == nil {
		config.Logger = testLogger()
	}
	srv := New(config)
	srv.SetRoot(rootName, root)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv, ts
}

func wsURL(t *testing.T, baseURL string) string {
	t.Helper()
	if !strings.HasPrefix(baseURL, "http") {
		t.Fatalf("unexpected base URL: %q", baseURL)
	}
	return "ws" + strings.TrimPrefix(baseURL, "http") + "/graft/live"
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, ft protocol.FrameType, payload []byte) {
	t.Helper()
	frame := protocol.NewFrame(ft, payload)
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		t.Fatalf("write %v frame failed: %v", ft, err)
	}
}

func writeHandshake(t *testing.T, conn *websocket.Conn, hello *protocol.ClientHello) {
	t.Helper()
	writeFrame(t, conn, protocol.FrameHandshake, protocol.EncodeClientHello(hello))
}

func writeEvent(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	writeFrame(t, conn, protocol.FrameEvent, protocol.EncodeEvent(ev))
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame failed: %v", err)
	}
	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	return frame
}

func readServerHello(t *testing.T, conn *websocket.Conn) *protocol.ServerHello {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameHandshake {
		t.Fatalf("frame type = %v, want %v", frame.Type, protocol.FrameHandshake)
	}
	hello, err := protocol.DecodeServerHello(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeServerHello failed: %v", err)
	}
	return hello
}

func readPatches(t *testing.T, conn *websocket.Conn) *protocol.PatchesFrame {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FramePatches {
		t.Fatalf("frame type = %v, want %v", frame.Type, protocol.FramePatches)
	}
	pf, err := protocol.DecodePatches(frame.Payload)
	if err != nil {
		t.Fatalf("DecodePatches failed: %v", err)
	}
	return pf
}

func readControl(t *testing.T, conn *websocket.Conn) (protocol.ControlType, any) {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameControl {
		t.Fatalf("frame type = %v, want %v", frame.Type, protocol.FrameControl)
	}
	ct, body, err := protocol.DecodeControl(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}
	return ct, body
}

func readErrorFrame(t *testing.T, conn *websocket.Conn) *protocol.ErrorMessage {
	t.Helper()
	frame := readFrame(t, conn)
	if frame.Type != protocol.FrameError {
		t.Fatalf("frame type = %v, want %v", frame.Type, protocol.FrameError)
	}
	em, err := protocol.DecodeErrorMessage(frame.Payload)
	if err != nil {
		t.Fatalf("DecodeErrorMessage failed: %v", err)
	}
	return em
}

// attach runs the full handshake for sessionID and asserts it was
// accepted.
func attach(t *testing.T, conn *websocket.Conn, sessionID string, lastSeq uint32) *protocol.ServerHello {
	t.Helper()
	writeHandshake(t, conn, protocol.NewClientHello(sessionID, lastSeq))
	hello := readServerHello(t, conn)
	if hello.Status != protocol.HandshakeOK {
		t.Fatalf("handshake status = %v, want %v", hello.Status, protocol.HandshakeOK)
	}
	return hello
}

func getSessionEventually(t *testing.T, m *Manager, id string) *Session {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := m.Get(id); ok {
			return s
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for session %q", id)
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// memoryStoreForTest wires a MemoryStore into a config, closing it
// with the test.
func memoryStoreForTest(t *testing.T) session.Store {
	t.Helper()
	store := session.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return store
}
