package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load and Touch when no live session
// exists for the ID. Expired sessions count as not found.
var ErrNotFound = errors.New("session: not found")

// ErrStoreClosed is returned for operations on a closed store.
var ErrStoreClosed = errors.New("session: store closed")

// Store is the contract for session persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists the state under state.ID, overwriting any
	// previous snapshot and resetting the expiry clock.
	Save(ctx context.Context, state *State) error

	// Load retrieves a session snapshot. Missing or expired sessions
	// return ErrNotFound.
	Load(ctx context.Context, id string) (*State, error)

	// Delete removes a session. Deleting an absent session is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Touch resets the expiry clock without rewriting cell data.
	// Touching an absent session returns ErrNotFound.
	Touch(ctx context.Context, id string) error

	// Close releases the store's resources.
	Close() error
}

// DefaultTTL is how long a saved session survives without a Save or
// Touch. Matches the server's detached-session grace period.
const DefaultTTL = 30 * time.Minute
