package errors

import "sort"

// Template defines a registered error code. Messages may contain
// format verbs filled by Newf.
type Template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Configuration errors (E100-E119)

	"E100": {
		Category:   CategoryConfig,
		Message:    "invalid configuration file %s",
		Detail:     "The configuration file could not be parsed.",
		Suggestion: "Check the file for JSON or YAML syntax errors.",
	},
	"E101": {
		Category:   CategoryConfig,
		Message:    "unknown store backend %q",
		Detail:     "The store.backend value does not name a supported session store.",
		Suggestion: "Valid backends: memory, redis, bolt, s3.",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "unknown log level %q",
		Suggestion: "Valid levels: debug, info, warn, error.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "invalid listen address %q",
		Detail:     "The server.addr value is not a host:port.",
		Suggestion: `Use a host:port form such as ":8080".`,
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "%s must not be negative",
		Detail:   "Durations and limits in the configuration must be zero (use the default) or positive.",
	},
	"E105": {
		Category:   CategoryConfig,
		Message:    "missing %s for the %s backend",
		Detail:     "The selected store backend needs a setting that is empty.",
		Suggestion: "Set the value in the store section or choose another backend.",
	},
	"E106": {
		Category:   CategoryConfig,
		Message:    "configuration file %s not found",
		Detail:     "No file exists at the given path.",
		Suggestion: "Check the path, or omit --config to search the working directory.",
	},

	// Protocol errors (E200-E219)

	"E200": {
		Category: CategoryProtocol,
		Message:  "invalid frame",
		Detail:   "The frame header or payload could not be decoded.",
	},
	"E201": {
		Category: CategoryProtocol,
		Message:  "invalid event payload",
		Detail:   "The event frame decoded but its payload does not match its type.",
	},
	"E202": {
		Category:   CategoryProtocol,
		Message:    "protocol version mismatch",
		Detail:     "Client and server speak incompatible protocol versions.",
		Suggestion: "Reload the page to pick up the current client script.",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "frame too large",
		Detail:   "The encoded frame exceeds the 64 KiB payload limit.",
	},

	// Server and session errors (E300-E319)

	"E300": {
		Category:   CategoryServer,
		Message:    "server startup failed",
		Detail:     "The HTTP listener could not be started.",
		Suggestion: "Check that the configured address is free and bindable.",
	},
	"E301": {
		Category: CategorySession,
		Message:  "session not found",
		Detail:   "The session ID is unknown or the session has expired.",
	},
	"E302": {
		Category:   CategoryServer,
		Message:    "server at capacity",
		Detail:     "The configured session limit has been reached.",
		Suggestion: "Raise server.maxSessions or lower the session TTL.",
	},

	// Store errors (E400-E419)

	"E400": {
		Category:   CategoryStore,
		Message:    "store unavailable",
		Detail:     "The session store could not be opened.",
		Suggestion: "Check the store settings and that the backend is reachable.",
	},
	"E401": {
		Category: CategoryStore,
		Message:  "store operation failed",
		Detail:   "A session store read or write failed.",
	},
}

// Codes returns all registered error codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
