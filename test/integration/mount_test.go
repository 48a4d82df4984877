// Package integration exercises Graft mounted inside a host
// application's router, the way existing Go services adopt it: the
// handler is attached to chi or net/http alongside the routes the
// service already has, and the live protocol runs through the host's
// middleware stack.
package integration_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/graft-dev/graft"
	. "github.com/graft-dev/graft/el"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/server"
)

// counterRoot is the application under test: button at path [0],
// count display at path [1].
func counterRoot(ctx *graft.Ctx) *graft.VNode {
	count, setCount := graft.UseState(ctx, 0)
	return Div(
		Button(OnClick(func() { setCount(count + 1) }), Text("+")),
		Span(Textf("%d", count)),
	)
}

func newCounterServer(t *testing.T) *server.Server {
	t.Helper()
	srv := server.New(&server.Config{})
	srv.SetRoot("counter", counterRoot)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMountInChiRouter(t *testing.T) {
	srv := newCounterServer(t)

	var sawRequest bool
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sawRequest = true
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/ping", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "pong")
	})
	r.Handle("/*", srv.Handler())

	rec := get(t, r, "/api/ping")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("GET /api/ping = %d %q, want 200 \"pong\"", rec.Code, rec.Body.String())
	}

	sawRequest = false
	rec = get(t, r, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<span>0</span>") {
		t.Errorf("page body missing initial count: %q", rec.Body.String())
	}
	if !sawRequest {
		t.Error("host middleware did not run for the mounted handler")
	}

	rec = get(t, r, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz through mount = %d, want 200", rec.Code)
	}
}

func TestMountInStdlibMux(t *testing.T) {
	srv := newCounterServer(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "api")
	})
	mux.Handle("/", srv.Handler())

	if rec := get(t, mux, "/api/users"); rec.Body.String() != "api" {
		t.Errorf("GET /api/users = %q, want %q", rec.Body.String(), "api")
	}
	if rec := get(t, mux, "/"); rec.Code != http.StatusOK {
		t.Errorf("GET / = %d, want 200", rec.Code)
	}
}

func TestMountAppAsHandler(t *testing.T) {
	app := graft.New(counterRoot, graft.Config{Name: "counter"})
	if err := app.Err(); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		app.Shutdown(ctx)
	})

	r := chi.NewRouter()
	r.Handle("/*", app)

	rec := get(t, r, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/graft/client.js") {
		t.Error("page does not reference the client script")
	}
}

// TestEventRoundtripThroughHostRouter runs the live protocol through a
// chi router: handshake, click, patch back.
func TestEventRoundtripThroughHostRouter(t *testing.T) {
	srv := newCounterServer(t)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/*", srv.Handler())

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/graft/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	hello := protocol.NewClientHello("", 0)
	frame := protocol.NewFrame(protocol.FrameHandshake, protocol.EncodeClientHello(hello))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		t.Fatalf("handshake write failed: %v", err)
	}

	reply := readFrame(t, conn)
	if reply.Type != protocol.FrameHandshake {
		t.Fatalf("first frame = %v, want %v", reply.Type, protocol.FrameHandshake)
	}
	sh, err := protocol.DecodeServerHello(reply.Payload)
	if err != nil {
		t.Fatalf("DecodeServerHello failed: %v", err)
	}
	if sh.Status != protocol.HandshakeOK {
		t.Fatalf("handshake status = %v, want %v", sh.Status, protocol.HandshakeOK)
	}

	// A fresh session is synced with a full-tree control frame first.
	if ctrl := readFrame(t, conn); ctrl.Type != protocol.FrameControl {
		t.Fatalf("sync frame = %v, want %v", ctrl.Type, protocol.FrameControl)
	}

	click := &protocol.Event{Seq: 1, Type: protocol.EventClick, Path: protocol.Path{0}}
	frame = protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(click))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		t.Fatalf("event write failed: %v", err)
	}

	patches := readFrame(t, conn)
	if patches.Type != protocol.FramePatches {
		t.Fatalf("reply frame = %v, want %v", patches.Type, protocol.FramePatches)
	}
	pf, err := protocol.DecodePatches(patches.Payload)
	if err != nil {
		t.Fatalf("DecodePatches failed: %v", err)
	}
	found := false
	for _, p := range pf.Patches {
		if p.Op == protocol.PatchText && p.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("no text patch with value \"1\" in %d patches", len(pf.Patches))
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
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
