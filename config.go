package graft

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/graft-dev/graft/internal/config"
	"github.com/graft-dev/graft/internal/errors"
	"github.com/graft-dev/graft/pkg/server"
	"github.com/graft-dev/graft/pkg/session"
)

// Config is the code-level application configuration. Deployment
// settings (timeouts, limits, store backends, log level) come from
// graft.json or graft.yaml; Config carries only what belongs in code.
// Applications that need the full server surface use pkg/server
// directly.
type Config struct {
	// Name identifies the root producer. Persisted session state is
	// restored only into a root with the same name, so renaming it
	// invalidates previously saved state. Default: "root".
	Name string

	// Addr overrides the configured listen address.
	Addr string

	// ConfigFile is an explicit configuration file path. Empty probes
	// the working directory for graft.json, graft.yaml, graft.yml and
	// falls back to defaults.
	ConfigFile string

	// Page is the HTML shell (title, meta, stylesheets) the first
	// paint renders into.
	Page PageData

	// Store overrides the store backend named in the config file. Use
	// this to inject a store the file cannot describe, such as an S3
	// store over a fully credentialed client.
	Store Store

	// Logger overrides the file-configured log level and destination.
	Logger *slog.Logger
}

// buildServerConfig translates the file configuration into the
// server's.
func buildServerConfig(file *config.Config, logger *slog.Logger, store session.Store) *server.Config {
	return &server.Config{
		Address:       file.Server.Addr,
		StaticDir:     file.StaticPath(),
		MaxSessions:   file.Server.MaxSessions,
		EnableMetrics: file.Metrics,
		EnableTracing: file.Tracing,
		Store:         store,
		Logger:        logger,
		Session: &server.SessionConfig{
			ReadTimeout:       file.Server.ReadTimeout.Std(),
			WriteTimeout:      file.Server.WriteTimeout.Std(),
			IdleTimeout:       file.Server.SessionTTL.Std(),
			HeartbeatInterval: file.Server.Heartbeat.Std(),
			MaxEventQueue:     file.Server.MaxEventQueue,
		},
	}
}

// openStore builds the session store the file configuration names.
func openStore(file *config.Config) (session.Store, error) {
	switch file.Store.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		return session.NewRedisStore(
			file.Store.Redis.Addr,
			file.Store.Redis.Password,
			file.Store.Redis.DB,
			session.WithRedisPrefix(file.Store.Redis.Prefix),
			session.WithRedisTTL(file.Store.Redis.TTL.Std()),
		), nil
	case "bolt":
		store, err := session.NewBoltStore(file.Store.Bolt.Path)
		if err != nil {
			return nil, errors.FromError(err, "E400")
		}
		return store, nil
	case "s3":
		// The client carries only the configured region. Deployments
		// that need the AWS credential chain build their own client
		// and inject the store through Config.Store.
		client := s3.New(s3.Options{Region: file.Store.S3.Region})
		return session.NewS3Store(client, file.Store.S3.Bucket,
			session.WithS3Prefix(file.Store.S3.Prefix),
		), nil
	default:
		return nil, errors.Newf("E101", file.Store.Backend)
	}
}
