package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/graft-dev/graft/internal/errors"
)

// File names probed by Load, in order.
const (
	JSONFileName = "graft.json"
	YAMLFileName = "graft.yaml"
	YMLFileName  = "graft.yml"
)

// Duration wraps time.Duration so configuration files can use "30s"
// forms in both JSON and YAML.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON encodes the duration as a string, e.g. "1m30s".
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML encodes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the complete graft configuration.
type Config struct {
	// Server contains HTTP and WebSocket server settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics" yaml:"metrics"`

	// Tracing enables OpenTelemetry spans around event handling.
	Tracing bool `json:"tracing" yaml:"tracing"`

	// Store contains session persistence settings.
	Store StoreConfig `json:"store,omitempty" yaml:"store,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// ServerConfig contains server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// StaticDir, when set, is served under /static/. Relative paths
	// resolve against the config file's directory.
	StaticDir string `json:"staticDir,omitempty" yaml:"staticDir,omitempty"`

	// ReadTimeout bounds each WebSocket read.
	ReadTimeout Duration `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// WriteTimeout bounds each WebSocket write.
	WriteTimeout Duration `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`

	// Heartbeat is the server ping cadence.
	Heartbeat Duration `json:"heartbeat,omitempty" yaml:"heartbeat,omitempty"`

	// SessionTTL is how long a detached session is kept in memory
	// before it is persisted and discarded.
	SessionTTL Duration `json:"sessionTTL,omitempty" yaml:"sessionTTL,omitempty"`

	// MaxSessions caps concurrent sessions.
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty"`

	// MaxEventQueue is the per-session buffered event channel size.
	MaxEventQueue int `json:"maxEventQueue,omitempty" yaml:"maxEventQueue,omitempty"`
}

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	// Backend is one of memory, redis, bolt, s3.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Redis configures the redis backend.
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`

	// Bolt configures the bolt backend.
	Bolt BoltConfig `json:"bolt,omitempty" yaml:"bolt,omitempty"`

	// S3 configures the s3 backend.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// RedisConfig contains redis backend settings.
type RedisConfig struct {
	Addr     string   `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password string   `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int      `json:"db,omitempty" yaml:"db,omitempty"`
	Prefix   string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	TTL      Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// BoltConfig contains bolt backend settings.
type BoltConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// S3Config contains s3 backend settings.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ReadTimeout:   Duration(60 * time.Second),
			WriteTimeout:  Duration(10 * time.Second),
			Heartbeat:     Duration(30 * time.Second),
			SessionTTL:    Duration(5 * time.Minute),
			MaxSessions:   10000,
			MaxEventQueue: 256,
		},
		LogLevel: "info",
		Metrics:  true,
		Store: StoreConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "graft:session:",
				TTL:    Duration(30 * time.Minute),
			},
			Bolt: BoltConfig{
				Path: "graft.db",
			},
			S3: S3Config{
				Prefix: "sessions/",
			},
		},
	}
}

// Load reads configuration from the given directory. It probes for
// graft.json, graft.yaml, then graft.yml; when none exists it returns
// the defaults so a config file stays optional.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName, YMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the given file. The format is
// chosen by extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf("E106", path)
		}
		return nil, errors.Newf("E100", path).WithCause(err)
	}

	cfg := New()
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.Newf("E100", path).
			WithDetails("Only .json, .yaml, and .yml files are supported.")
	}
	if err != nil {
		return nil, errors.Newf("E100", path).WithCause(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// SaveTo writes the configuration to the given path, JSON or YAML by
// extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.Newf("E100", path).WithCause(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Newf("E100", path).WithCause(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "" for
// defaults.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// StaticPath returns the static directory resolved against the config
// file's directory, or "" when no static directory is configured.
func (c *Config) StaticPath() string {
	dir := c.Server.StaticDir
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Dir(), dir)
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown levels map to
// info; Validate reports them.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// applyDefaults fills zero fields with the values New would choose.
func (c *Config) applyDefaults() {
	def := New()

	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.Heartbeat == 0 {
		c.Server.Heartbeat = def.Server.Heartbeat
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = def.Server.SessionTTL
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = def.Server.MaxSessions
	}
	if c.Server.MaxEventQueue == 0 {
		c.Server.MaxEventQueue = def.Server.MaxEventQueue
	}

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = def.Store.Redis.Addr
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = def.Store.Redis.Prefix
	}
	if c.Store.Redis.TTL == 0 {
		c.Store.Redis.TTL = def.Store.Redis.TTL
	}
	if c.Store.Bolt.Path == "" {
		c.Store.Bolt.Path = def.Store.Bolt.Path
	}
	if c.Store.S3.Prefix == "" {
		c.Store.S3.Prefix = def.Store.S3.Prefix
	}
}

// Validate checks the configuration and returns a coded error for the
// first problem found.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.Newf("E103", c.Server.Addr).WithCause(err)
	}

	durations := []struct {
		name  string
		value Duration
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.heartbeat", c.Server.Heartbeat},
		{"server.sessionTTL", c.Server.SessionTTL},
		{"store.redis.ttl", c.Store.Redis.TTL},
	}
	for _, d := range durations {
		if d.value < 0 {
			return errors.Newf("E104", d.name)
		}
	}

	limits := []struct {
		name  string
		value int
	}{
		{"server.maxSessions", c.Server.MaxSessions},
		{"server.maxEventQueue", c.Server.MaxEventQueue},
		{"store.redis.db", c.Store.Redis.DB},
	}
	for _, l := range limits {
		if l.value < 0 {
			return errors.Newf("E104", l.name)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("E102", c.LogLevel)
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return errors.Newf("E105", "redis.addr", "redis")
		}
	case "bolt":
		if c.Store.Bolt.Path == "" {
			return errors.Newf("E105", "bolt.path", "bolt")
		}
	case "s3":
		if c.Store.S3.Bucket == "" {
			return errors.Newf("E105", "s3.bucket", "s3")
		}
	default:
		return errors.Newf("E101", c.Store.Backend)
	}

	return nil
}

// Exists reports whether any config file exists in the directory.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName, YMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}
