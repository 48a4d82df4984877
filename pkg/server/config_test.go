package server

import (
	"log/slog"
	"testing"
	"time"
)

func TestConfig_NilTakesDefaults(t *testing.T) {
	var c *Config
	got := c.withDefaults()

	def := DefaultConfig()
	if got.Address != def.Address {
		t.Errorf("Address = %q, want %q", got.Address, def.Address)
	}
	if !got.EnableMetrics {
		t.Error("EnableMetrics = false, want true by default")
	}
	if !got.EnableTracing {
		t.Error("EnableTracing = false, want true by default")
	}
	if got.MaxSessions != def.MaxSessions {
		t.Errorf("MaxSessions = %d, want %d", got.MaxSessions, def.MaxSessions)
	}
	if got.Session == nil {
		t.Fatal("Session config not defaulted")
	}
	if got.Session.HeartbeatInterval != 30*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 30s", got.Session.HeartbeatInterval)
	}
}

func TestConfig_ZeroFieldsFilled(t *testing.T) {
	c := &Config{Address: ":9999", MaxSessions: 7}
	got := c.withDefaults()

	if got.Address != ":9999" {
		t.Errorf("Address = %q, want :9999", got.Address)
	}
	if got.MaxSessions != 7 {
		t.Errorf("MaxSessions = %d, want 7", got.MaxSessions)
	}
	if got.ReadBufferSize != 4096 {
		t.Errorf("ReadBufferSize = %d, want 4096", got.ReadBufferSize)
	}
	if got.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 15s", got.ShutdownTimeout)
	}
	if got.Logger == nil {
		t.Error("Logger not defaulted")
	}
	// The original is not mutated.
	if c.ReadBufferSize != 0 {
		t.Error("withDefaults mutated its receiver")
	}
}

func TestConfig_SessionPartialFill(t *testing.T) {
	c := &Config{
		Logger: slog.Default(),
		Session: &SessionConfig{
			IdleTimeout:   time.Minute,
			MaxEventQueue: 8,
		},
	}
	got := c.withDefaults()

	if got.Session.IdleTimeout != time.Minute {
		t.Errorf("IdleTimeout = %v, want 1m", got.Session.IdleTimeout)
	}
	if got.Session.MaxEventQueue != 8 {
		t.Errorf("MaxEventQueue = %d, want 8", got.Session.MaxEventQueue)
	}
	if got.Session.ReadTimeout != 60*time.Second {
		t.Errorf("ReadTimeout = %v, want 60s", got.Session.ReadTimeout)
	}
	if got.Session.MaxMessageSize != 1<<20 {
		t.Errorf("MaxMessageSize = %d, want 1MiB", got.Session.MaxMessageSize)
	}
	if got.Session.MaxPatchHistory != 100 {
		t.Errorf("MaxPatchHistory = %d, want 100", got.Session.MaxPatchHistory)
	}
}
