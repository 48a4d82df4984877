// Package dom defines the live target tree the reconciler mutates.
//
// The engine owns none of this tree; it holds only transient references
// while applying an edit script. Implementations: the in-memory tree in
// this package (tests, tooling) and the server's remote mirror, which
// forwards every mutation to a browser as binary patches.
package dom

// Document creates live nodes for one target tree. Nodes from
// different Document implementations must not be mixed.
type Document interface {
	// CreateText creates a detached text node.
	CreateText(value string) Node

	// CreateElement creates a detached element with the given tag.
	CreateElement(tag string) Node
}

// Node is one mutable node of a live target tree.
//
// Structural preconditions (removing a child that is not present,
// replacing an unknown child) are programming errors; implementations
// report them by panicking rather than returning errors.
type Node interface {
	// AppendChild appends child as the last child. A child already
	// attached elsewhere is detached first.
	AppendChild(child Node)

	// RemoveChild detaches child. Precondition: child is present.
	RemoveChild(child Node)

	// ReplaceChild replaces old with new at the same position.
	// Precondition: old is present.
	ReplaceChild(old, new Node)

	// Child returns the i-th child, or nil when out of range.
	Child(i int) Node

	// FirstChild returns the first child, or nil when empty.
	FirstChild() Node

	// ChildCount returns the number of children.
	ChildCount() int

	// SetProperty sets a named property to an arbitrary value.
	SetProperty(key string, value any)

	// RemoveProperty clears a named property.
	RemoveProperty(key string)

	// Property reads a named property.
	Property(key string) (any, bool)

	// SetHandler installs (or overwrites) the handler for a normalized
	// event type ("click", not "onclick").
	SetHandler(event string, h Handler)

	// RemoveHandler removes the handler for an event type.
	RemoveHandler(event string)

	// SetText overwrites the textual content of a text node.
	SetText(value string)

	// Text reads the textual content of a text node.
	Text() string

	// Tag returns the element tag, or "" for text nodes.
	Tag() string

	// IsText reports whether the node is a text node.
	IsText() bool
}

// Handler is an installed event handler.
type Handler func(Event)

// Event is delivered to handlers installed on live nodes.
type Event struct {
	// Type is the normalized event type ("click", "input").
	Type string

	// Value carries the target's value for input-style events.
	Value string
}

// NormalizeHandler adapts the supported handler shapes to Handler:
// Handler itself, func(Event), or func(). Unsupported values yield
// nil, which installers treat as "no handler".
func NormalizeHandler(v any) Handler {
	switch h := v.(type) {
	case Handler:
		return h
	case func(Event):
		return h
	case func():
		return func(Event) { h() }
	}
	return nil
}
