package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/graft-dev/graft/internal/config"
	"github.com/graft-dev/graft/internal/errors"
	"github.com/graft-dev/graft/pkg/server"
	"github.com/graft-dev/graft/pkg/session"
)

// serveCmd creates the serve command.
func serveCmd() *cobra.Command {
	var (
		addr       string
		configFile string
		storeName  string
		redisAddr  string
		boltPath   string
		logLevel   string
		metrics    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built-in counter demo",
		Long: `Serve starts a Graft server with a small counter application, so you
can try the full loop (first paint, WebSocket, patches, session
resume) before writing any code.

Configuration is read from graft.json or graft.yaml in the working
directory when present. Flags override the file.`,
		Example: `  graft serve
  graft serve --addr :3000 --log-level debug
  graft serve --store bolt --bolt-path sessions.db
  graft serve --config deploy/graft.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if configFile != "" {
				cfg, err = config.LoadFile(configFile)
			} else {
				cfg, err = config.Load(".")
			}
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}
			if storeName != "" {
				cfg.Store.Backend = storeName
			}
			if redisAddr != "" {
				cfg.Store.Redis.Addr = redisAddr
			}
			if boltPath != "" {
				cfg.Store.Bolt.Path = boltPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics = metrics
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to graft.json or graft.yaml")
	cmd.Flags().StringVar(&storeName, "store", "", "session store backend: memory, redis, bolt, s3")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for --store redis")
	cmd.Flags().StringVar(&boltPath, "bolt-path", "", "database file for --store bolt")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&metrics, "metrics", true, "expose Prometheus metrics on /metrics")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	store, err := openServeStore(cfg)
	if err != nil {
		return err
	}

	srv := server.New(&server.Config{
		Address:       cfg.Server.Addr,
		StaticDir:     cfg.StaticPath(),
		MaxSessions:   cfg.Server.MaxSessions,
		EnableMetrics: cfg.Metrics,
		EnableTracing: cfg.Tracing,
		Store:         store,
		Logger:        logger,
		Session: &server.SessionConfig{
			ReadTimeout:       cfg.Server.ReadTimeout.Std(),
			WriteTimeout:      cfg.Server.WriteTimeout.Std(),
			IdleTimeout:       cfg.Server.SessionTTL.Std(),
			HeartbeatInterval: cfg.Server.Heartbeat.Std(),
			MaxEventQueue:     cfg.Server.MaxEventQueue,
		},
	})
	srv.SetRoot("demo", demoRoot)
	srv.SetPage(demoPage())

	printBanner()
	if path := cfg.Path(); path != "" {
		info("config   %s", path)
	} else {
		info("config   built-in defaults")
	}
	info("store    %s", cfg.Store.Backend)
	if cfg.Metrics {
		info("metrics  %s/metrics", displayURL(cfg.Server.Addr))
	}
	fmt.Println()
	success("Counter demo on %s", displayURL(cfg.Server.Addr))
	fmt.Println()

	if err := srv.Run(); err != nil {
		return errors.FromError(err, "E300")
	}
	return nil
}

// openServeStore builds the session store the configuration names.
// Unlike the graft.New path there is no injection hook here, so the
// S3 client is always the region-only one.
func openServeStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		return session.NewRedisStore(
			cfg.Store.Redis.Addr,
			cfg.Store.Redis.Password,
			cfg.Store.Redis.DB,
			session.WithRedisPrefix(cfg.Store.Redis.Prefix),
			session.WithRedisTTL(cfg.Store.Redis.TTL.Std()),
		), nil
	case "bolt":
		store, err := session.NewBoltStore(cfg.Store.Bolt.Path)
		if err != nil {
			return nil, errors.FromError(err, "E400")
		}
		return store, nil
	case "s3":
		client := s3.New(s3.Options{Region: cfg.Store.S3.Region})
		return session.NewS3Store(client, cfg.Store.S3.Bucket,
			session.WithS3Prefix(cfg.Store.S3.Prefix),
		), nil
	default:
		return nil, errors.Newf("E101", cfg.Store.Backend)
	}
}

// displayURL turns a listen address into something clickable.
func displayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
