package server

import "github.com/graft-dev/graft/pkg/protocol"

type historyEntry struct {
	seq     uint64
	patches []protocol.Patch
}

// patchHistory is a fixed-capacity ring of the most recent patch
// frames. A client that reconnects having missed a few frames is
// caught up from here; one that fell further behind gets a full tree
// resend instead.
//
// Not safe for concurrent use; the owning session serializes access.
type patchHistory struct {
	entries []historyEntry
	head    int // next write position
	count   int
	minSeq  uint64 // oldest retained seq, 0 when empty
	maxSeq  uint64 // newest retained seq, 0 when empty
}

func newPatchHistory(capacity int) *patchHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &patchHistory{entries: make([]historyEntry, capacity)}
}

// Add retains one frame, evicting the oldest when full. Frames must be
// added in ascending seq order.
func (h *patchHistory) Add(seq uint64, patches []protocol.Patch) {
	h.entries[h.head] = historyEntry{seq: seq, patches: patches}
	h.head = (h.head + 1) % len(h.entries)
	if h.count < len(h.entries) {
		h.count++
	}
	h.maxSeq = seq
	oldest := (h.head - h.count + len(h.entries)) % len(h.entries)
	h.minSeq = h.entries[oldest].seq
}

// CanRecover reports whether every frame after lastSeq is still
// retained, i.e. whether a client at lastSeq can be replayed forward
// instead of resynced from scratch.
func (h *patchHistory) CanRecover(lastSeq uint64) bool {
	if h.count == 0 {
		return false
	}
	return lastSeq+1 >= h.minSeq && lastSeq < h.maxSeq
}

// After returns the patches of every retained frame with seq >
// afterSeq, flattened in frame order. Returns false when the span is
// not fully retained; use CanRecover first.
func (h *patchHistory) After(afterSeq uint64) ([]protocol.Patch, bool) {
	if !h.CanRecover(afterSeq) {
		return nil, false
	}
	var out []protocol.Patch
	start := (h.head - h.count + len(h.entries)) % len(h.entries)
	for i := 0; i < h.count; i++ {
		e := &h.entries[(start+i)%len(h.entries)]
		if e.seq > afterSeq {
			out = append(out, e.patches...)
		}
	}
	return out, true
}

// Clear drops every retained frame.
func (h *patchHistory) Clear() {
	for i := range h.entries {
		h.entries[i] = historyEntry{}
	}
	h.head = 0
	h.count = 0
	h.minSeq = 0
	h.maxSeq = 0
}
