package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/render"
)

// Server hosts one Graft application over HTTP and WebSocket.
type Server struct {
	config   *Config
	logger   *slog.Logger
	metrics  *serverMetrics
	registry *prometheus.Registry
	sessions *Manager
	upgrader websocket.Upgrader

	root     graft.RenderFunc
	rootName string
	page     render.PageData

	httpServer *http.Server
}

// New creates a server. Zero config fields take defaults.
func New(config *Config) *Server {
	config = config.withDefaults()

	var (
		metrics  *serverMetrics
		registry *prometheus.Registry
	)
	if config.EnableMetrics {
		registry = config.Registry
		if registry == nil {
			registry = prometheus.NewRegistry()
		}
		metrics = newServerMetrics(registry)
	}

	checkOrigin := config.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	s := &Server{
		config:   config,
		logger:   config.Logger,
		metrics:  metrics,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     checkOrigin,
		},
	}
	tracer := noopTracer()
	if config.EnableTracing {
		tracer = newTracer()
	}
	s.sessions = newManager(config.Session, config.MaxSessions, config.Store, config.Logger, metrics, tracer)
	return s
}

// SetRoot registers the application root: the render function every
// new session mounts, and a stable name for it. The name guards
// persisted state against being restored into different code.
func (s *Server) SetRoot(name string, root graft.RenderFunc) {
	s.rootName = name
	s.root = root
}

// SetPage sets the HTML shell (title, meta, stylesheets) the first
// paint renders into. Body and SessionID are filled per request.
func (s *Server) SetPage(page render.PageData) {
	s.page = page
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Manager {
	return s.sessions
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/graft/live", s.handleLive)
	r.Handle("/graft/client.js", clientScriptHandler())
	r.Get("/healthz", s.handleHealth)

	if s.config.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.config.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.StaticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}

// handlePage serves the first paint: it creates a session, renders the
// root once with patch recording off, and streams the HTML with the
// session ID embedded for the WebSocket attach.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.root == nil {
		http.Error(w, "no application mounted", http.StatusServiceUnavailable)
		return
	}
	sess, err := s.sessions.Create(s.root, s.rootName)
	if err != nil {
		if errors.Is(err, ErrMaxSessionsReached) {
			http.Error(w, "server at capacity", http.StatusServiceUnavailable)
			return
		}
		s.logger.Error("session create failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := s.page
	page.Body = sess.mount()
	page.SessionID = sess.ID

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	// Compact output: pretty-printed whitespace would surface as text
	// nodes in the browser and shift every child index off the mirror.
	sr := render.NewStreamingRenderer(w, render.RendererConfig{})
	if err := sr.RenderPage(page); err != nil {
		s.logger.Error("page render failed", "session_id", sess.ID, "error", err)
	}
}

// handleLive upgrades to WebSocket, runs the hello exchange, and
// binds the connection to its session.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if s.root == nil {
		http.Error(w, "no application mounted", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(s.config.Session.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(s.config.Session.HandshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		s.logger.Warn("handshake read failed", "error", err)
		conn.Close()
		return
	}

	frame, err := protocol.DecodeFrame(msg)
	if err != nil || frame.Type != protocol.FrameHandshake {
		s.rejectHandshake(conn, protocol.HandshakeInvalidFormat)
		return
	}
	hello, err := protocol.DecodeClientHello(frame.Payload)
	if err != nil {
		s.rejectHandshake(conn, protocol.HandshakeInvalidFormat)
		return
	}
	if hello.Version.Major != protocol.CurrentVersion.Major {
		s.logger.Warn("protocol version mismatch",
			"client", fmt.Sprintf("%d.%d", hello.Version.Major, hello.Version.Minor))
		s.rejectHandshake(conn, protocol.HandshakeVersionMismatch)
		return
	}

	sess, forceResync, err := s.sessionFor(r.Context(), hello)
	if err != nil {
		status := protocol.HandshakeInternalError
		if errors.Is(err, ErrMaxSessionsReached) {
			status = protocol.HandshakeServerBusy
		}
		s.logger.Warn("handshake rejected", "status", status.String(), "error", err)
		s.rejectHandshake(conn, status)
		return
	}

	resumed := hello.SessionID != "" && sess.ID == hello.SessionID
	if err := sess.Attach(conn, uint64(hello.LastSeq), forceResync); err != nil {
		s.logger.Warn("session attach failed", "session_id", sess.ID, "error", err)
		conn.Close()
		return
	}
	if resumed {
		s.metrics.sessionResumed()
	}
	s.logger.Info("client attached", "session_id", sess.ID, "resumed", resumed)
}

// sessionFor resolves the hello to a session: the live one it names, a
// restore from the store, or a fresh session when neither exists. The
// second return reports whether the client's tree must be replaced
// wholesale rather than patched forward.
func (s *Server) sessionFor(ctx context.Context, hello *protocol.ClientHello) (*Session, bool, error) {
	if hello.SessionID != "" {
		if sess, ok := s.sessions.Get(hello.SessionID); ok {
			return sess, false, nil
		}
		sess, err := s.sessions.Restore(ctx, hello.SessionID, s.rootName, s.root)
		if err == nil {
			// The rebuilt mirror is not guaranteed to match whatever
			// the client last displayed; start it over.
			return sess, true, nil
		}
		if errors.Is(err, ErrMaxSessionsReached) {
			return nil, false, err
		}
		if !errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("session restore failed", "session_id", hello.SessionID, "error", err)
		}
		// Expired beyond recovery: give the client a fresh session
		// rather than turning it away.
	}

	sess, err := s.sessions.Create(s.root, s.rootName)
	if err != nil {
		return nil, false, err
	}
	sess.mount()
	return sess, true, nil
}

func (s *Server) rejectHandshake(conn *websocket.Conn, status protocol.HandshakeStatus) {
	hello := protocol.NewServerHelloError(status)
	frame := protocol.NewFrame(protocol.FrameHandshake, protocol.EncodeServerHello(hello))
	conn.SetWriteDeadline(time.Now().Add(s.config.Session.WriteTimeout))
	conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
	conn.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","sessions":%d}`+"\n", s.sessions.Count())
}

// Run serves until SIGINT/SIGTERM or a listener error, then shuts
// down gracefully.
func (s *Server) Run() error {
	if s.root == nil {
		return ErrNoRoot
	}
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", s.config.Address)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the listener, persists and closes every session, and
// closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := s.sessions.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if s.config.Store != nil {
		if err := s.config.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.logger.Info("server stopped")
	return firstErr
}
