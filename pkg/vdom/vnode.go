// Package vdom provides the immutable node model describing a UI tree
// and the differ that compares two trees into an edit script.
//
// A tree is built once per render and never mutated afterwards; the
// reconciler compares the new tree against the previous one and applies
// the resulting script to the live target. Children are matched purely
// by position; there are no identity keys.
package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// VKind discriminates the two node variants.
type VKind uint8

const (
	// KindText is a leaf holding a scalar value (text or number).
	KindText VKind = iota

	// KindElement is a composite node with a tag, attributes and children.
	KindElement
)

// String returns the string representation of the kind.
func (k VKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	default:
		return "Unknown"
	}
}

// Attrs maps attribute and event names to values. Keys beginning with
// "on" denote event handlers; the key "children" is reserved and never
// stored here (element constructors route it into the child list).
type Attrs map[string]any

// VNode is one point in the declarative UI tree.
//
// For KindText, Value holds the leaf scalar; stringification is
// deferred until the value reaches a live node (see Stringify).
// For KindElement, Attrs and Children are never nil; an element
// without children carries the empty slice.
type VNode struct {
	Kind VKind

	// Value is the leaf scalar (KindText only).
	Value any

	// Tag is the element tag (KindElement only).
	Tag string

	// Attrs holds attributes and event handlers (KindElement only).
	Attrs Attrs

	// Children is the ordered child list (KindElement only).
	Children []*VNode
}

// Attr is a single attribute passed to element constructors.
type Attr struct {
	Key   string
	Value any
}

// EventHandler pairs an event key (already "on"-prefixed, e.g.
// "onclick") with its handler value. Constructors store it in Attrs
// under the key; the differ turns it into a handler patch.
type EventHandler struct {
	Event   string
	Handler any
}

// Text creates a leaf node from a scalar value (string or number).
func Text(value any) *VNode {
	return &VNode{Kind: KindText, Value: value}
}

// Textf creates a leaf node from a format string.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// IsText reports whether the node is a leaf.
func (n *VNode) IsText() bool {
	return n != nil && n.Kind == KindText
}

// IsEventKey reports whether an attribute key names an event handler.
// Handler keys start with "on" followed by the event type ("onclick").
func IsEventKey(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// EventName returns the normalized event type for a handler key:
// "onClick" -> "click".
func EventName(key string) string {
	return strings.ToLower(key[2:])
}

// Stringify converts a leaf scalar or attribute value to its textual
// form. Conversion happens here, at the live-tree boundary, not at
// node construction.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
