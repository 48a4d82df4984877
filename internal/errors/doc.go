// Package errors provides structured, coded errors for graft's
// boundaries: configuration loading, session stores, the wire
// protocol, and server startup.
//
// The engine core does not use this package. Its operations return no
// errors and precondition violations panic; coded errors exist for the
// places where graft meets files, networks, and operators.
//
// # Error Categories
//
// Errors are organized into categories:
//   - config: configuration file and validation errors
//   - protocol: wire protocol errors (invalid frames, version skew)
//   - session: session lifecycle errors
//   - store: session store errors
//   - server: server startup and capacity errors
//
// # Error Codes
//
// Each error has a unique code (e.g. "E101") that maps to a short
// message, a detailed explanation, and usually a fix suggestion.
// Messages in the registry may carry format verbs; Newf fills them.
//
// # Usage
//
//	err := errors.Newf("E101", "postgres").
//	    WithCause(parseErr)
//
//	fmt.Println(err.Error())
//	// E101: unknown store backend "postgres"
//
// Format renders the same error for terminal display with the detail,
// hint, and cause on their own lines.
package errors
