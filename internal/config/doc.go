// Package config loads graft configuration from graft.json or
// graft.yaml at the project root. Both formats describe the same
// structure; a missing file means defaults.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  staticDir: "public"
//	  heartbeat: "30s"
//	  sessionTTL: "5m"
//	logLevel: "info"
//	metrics: true
//	store:
//	  backend: "redis"
//	  redis:
//	    addr: "localhost:6379"
//	    prefix: "graft:session:"
//	    ttl: "30m"
//
// Durations are strings in time.ParseDuration form. The same keys
// apply in JSON.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
//	if err := cfg.Validate(); err != nil {
//	    errors.PrintError(err)
//	    os.Exit(1)
//	}
//
// Validation failures carry E1xx codes with suggestions.
package config
