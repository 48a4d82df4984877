package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CurrentStateVersion is the serialization format version. Bump on
// breaking changes to State's JSON shape.
const CurrentStateVersion = 1

// ErrVersionMismatch is returned when decoding state written by an
// incompatible format version.
var ErrVersionMismatch = errors.New("session: unsupported state version")

// State is the persisted form of one engine session. Cells hold the
// mount target's state-cell values in declaration order; restoring
// them into a target whose producer declares cells in a different
// order yields garbage, so Producer records which code wrote them.
type State struct {
	Version    int               `json:"version"`
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	LastActive time.Time         `json:"last_active"`

	// Seq is the next patch sequence number the session will send.
	Seq uint64 `json:"seq,omitempty"`

	// Producer names the view function that owns the cells, as a
	// guard against restoring state into a different view.
	Producer string `json:"producer,omitempty"`

	// Cells are the target's state-cell values in declaration order.
	Cells []json.RawMessage `json:"cells,omitempty"`
}

// NewState creates a State for a fresh session.
func NewState(id string) *State {
	now := time.Now().UTC()
	return &State{
		Version:    CurrentStateVersion,
		ID:         id,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Encode serializes the state to JSON, stamping the current format
// version.
func (s *State) Encode() ([]byte, error) {
	s.Version = CurrentStateVersion
	return json.Marshal(s)
}

// DecodeState deserializes state from JSON, rejecting incompatible
// format versions.
func DecodeState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: decode state: %w", err)
	}
	if s.Version != CurrentStateVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, CurrentStateVersion)
	}
	return &s, nil
}

// Clone returns a deep copy. Stores that retain state in memory hand
// out clones so callers cannot mutate stored snapshots.
func (s *State) Clone() *State {
	c := *s
	if s.Cells != nil {
		c.Cells = make([]json.RawMessage, len(s.Cells))
		for i, cell := range s.Cells {
			c.Cells[i] = append(json.RawMessage(nil), cell...)
		}
	}
	return &c
}
