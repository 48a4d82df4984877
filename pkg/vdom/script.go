package vdom

// ScriptOp identifies the edit-script variant produced for one old/new
// node pair. Exactly one variant is produced per comparison.
type ScriptOp uint8

const (
	// OpRemove deletes the corresponding live node.
	OpRemove ScriptOp = 0x01

	// OpReplace discards the live node (or fills an absent slot) with a
	// fresh materialization of the carried node.
	OpReplace ScriptOp = 0x02

	// OpText overwrites a leaf's textual content.
	OpText ScriptOp = 0x03

	// OpUpdate patches an element in place: attributes first, then one
	// child script per positional slot. An OpUpdate with no patches
	// and no children is a no-op; "no visible change" is represented
	// this way rather than by a separate variant.
	OpUpdate ScriptOp = 0x04
)

// String returns the string representation of the script op.
func (op ScriptOp) String() string {
	switch op {
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	case OpText:
		return "Text"
	case OpUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

// Script is the edit script for one node position, produced by Diff.
type Script struct {
	Op ScriptOp

	// Node is the replacement tree (OpReplace).
	Node *VNode

	// Value is the new leaf scalar (OpText). Stringified when applied.
	Value any

	// Attrs are the attribute patches (OpUpdate).
	Attrs []AttrPatch

	// Children holds one script per positional child slot (OpUpdate).
	// Length is max(len(old.Children), len(new.Children)); slots past
	// the new tree's length are OpRemove, slots past the old tree's
	// length are OpReplace against an absent live counterpart.
	Children []Script
}

// AttrOp identifies an attribute patch operation. The property/handler
// split is decided here, during diffing, never re-inferred from key
// prefixes at apply time.
type AttrOp uint8

const (
	// AttrSet sets a property; covers both additions and value changes.
	AttrSet AttrOp = 0x01

	// AttrUnset clears a property.
	AttrUnset AttrOp = 0x02

	// AttrSetHandler installs or overwrites an event handler.
	AttrSetHandler AttrOp = 0x03

	// AttrUnsetHandler removes an event handler.
	AttrUnsetHandler AttrOp = 0x04
)

// String returns the string representation of the attribute op.
func (op AttrOp) String() string {
	switch op {
	case AttrSet:
		return "Set"
	case AttrUnset:
		return "Unset"
	case AttrSetHandler:
		return "SetHandler"
	case AttrUnsetHandler:
		return "UnsetHandler"
	default:
		return "Unknown"
	}
}

// AttrPatch is one attribute mutation within an OpUpdate script.
type AttrPatch struct {
	Op AttrOp

	// Key is the property name, or the normalized event type for the
	// handler ops ("click", not "onclick").
	Key string

	// Value is the property value (AttrSet) or the handler value
	// (AttrSetHandler).
	Value any
}
