package graft

import "encoding/json"

// cell is one retained state slot on a target.
type cell struct {
	value any
}

// UseState reads the state cell at the current declaration index for
// the pass's render target, creating it lazily with initial on first
// read, and returns the current value together with its setter.
//
// The index is assigned in call order, so a producer must invoke its
// state reads in the same order on every render of a target.
// Conditional or reordered reads silently corrupt the index-to-value
// mapping; a mismatched read degrades to the zero value rather than
// panicking.
//
// The setter writes the captured cell and synchronously re-renders the
// captured target against its retained container; it is safe to call
// from event handlers after the pass that created it completed.
func UseState[T any](ctx *Ctx, initial T) (T, func(T)) {
	t := ctx.target
	idx := t.cursor
	t.cursor++

	if idx >= len(t.cells) {
		t.cells = append(t.cells, &cell{value: initial})
	}
	c := t.cells[idx]

	// Cells seeded from persistence hold raw JSON until the first
	// typed read reaches them.
	if raw, ok := c.value.(json.RawMessage); ok {
		var restored T
		if err := json.Unmarshal(raw, &restored); err == nil {
			c.value = restored
		} else {
			c.value = initial
		}
	}

	value, ok := c.value.(T)
	if !ok {
		var zero T
		value = zero
	}

	setter := func(v T) {
		c.value = v
		t.session.renderTarget(t)
	}
	return value, setter
}
