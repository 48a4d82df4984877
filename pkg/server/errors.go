package server

import "errors"

var (
	// ErrSessionClosed is returned when operating on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrSessionNotFound is returned when a session ID is not known to
	// the manager and could not be restored.
	ErrSessionNotFound = errors.New("server: session not found")

	// ErrMaxSessionsReached is returned when the session limit is hit.
	ErrMaxSessionsReached = errors.New("server: maximum sessions reached")

	// ErrEventQueueFull is returned when a session's event queue
	// overflows.
	ErrEventQueueFull = errors.New("server: event queue full")

	// ErrNoConnection is returned when sending on a detached session.
	ErrNoConnection = errors.New("server: no active connection")

	// ErrNoRoot is returned when the server starts without a root
	// component.
	ErrNoRoot = errors.New("server: no root component registered")
)
