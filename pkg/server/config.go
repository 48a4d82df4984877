package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/graft-dev/graft/pkg/session"
)

// Config controls a Server.
type Config struct {
	// Address is the listen address for Run, e.g. ":8080".
	Address string

	// StaticDir, when set, is served under /static/.
	StaticDir string

	// ReadBufferSize is the WebSocket read buffer size.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	WriteBufferSize int

	// CheckOrigin validates WebSocket upgrade origins. Nil allows all
	// origins, which is only safe behind a trusted proxy.
	CheckOrigin func(r *http.Request) bool

	// ReadHeaderTimeout bounds HTTP header reads.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// EnableMetrics exposes Prometheus metrics on /metrics and records
	// per-session counters. DefaultConfig turns it on; a literal
	// Config leaves it off until set.
	EnableMetrics bool

	// EnableTracing emits OpenTelemetry spans around event dispatch.
	// Spans go to the globally installed tracer provider, which is a
	// no-op unless the host process installs one.
	EnableTracing bool

	// Registry receives the server's metrics. Nil uses a fresh
	// per-server registry, which keeps repeated servers in one process
	// (tests, embedders) from colliding on registration.
	Registry *prometheus.Registry

	// Store persists detached sessions so they can be revived after
	// the in-memory session expires. Nil disables persistence. The
	// server closes the store during Shutdown.
	Store session.Store

	// Logger receives server logs. Defaults to slog.Default.
	Logger *slog.Logger

	// Session configures per-session behavior.
	Session *SessionConfig
}

// SessionConfig controls per-session connection behavior.
type SessionConfig struct {
	// ReadTimeout bounds each WebSocket read.
	ReadTimeout time.Duration

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout time.Duration

	// IdleTimeout is how long a detached session is kept before the
	// sweeper persists and discards it.
	IdleTimeout time.Duration

	// HandshakeTimeout bounds the wait for the client hello.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the server ping cadence.
	HeartbeatInterval time.Duration

	// MaxMessageSize caps inbound WebSocket messages.
	MaxMessageSize int64

	// MaxEventQueue is the buffered event channel size.
	MaxEventQueue int

	// MaxPatchHistory is how many patch frames are retained for
	// reconnect replay.
	MaxPatchHistory int
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		MaxSessions:       10000,
		EnableMetrics:     true,
		EnableTracing:     true,
		Session:           DefaultSessionConfig(),
	}
}

// DefaultSessionConfig returns the default per-session configuration.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       5 * time.Minute,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    1 << 20, // 1 MiB
		MaxEventQueue:     256,
		MaxPatchHistory:   100,
	}
}

// withDefaults fills zero fields from the defaults.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	def := DefaultConfig()
	out := *c
	if out.Address == "" {
		out.Address = def.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = def.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = def.WriteBufferSize
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = def.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = def.ShutdownTimeout
	}
	if out.MaxSessions == 0 {
		out.MaxSessions = def.MaxSessions
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	if out.Session == nil {
		out.Session = DefaultSessionConfig()
	} else {
		out.Session = out.Session.withDefaults()
	}
	return &out
}

func (c *SessionConfig) withDefaults() *SessionConfig {
	def := DefaultSessionConfig()
	out := *c
	if out.ReadTimeout == 0 {
		out.ReadTimeout = def.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = def.IdleTimeout
	}
	if out.HandshakeTimeout == 0 {
		out.HandshakeTimeout = def.HandshakeTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = def.HeartbeatInterval
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = def.MaxMessageSize
	}
	if out.MaxEventQueue == 0 {
		out.MaxEventQueue = def.MaxEventQueue
	}
	if out.MaxPatchHistory == 0 {
		out.MaxPatchHistory = def.MaxPatchHistory
	}
	return &out
}
