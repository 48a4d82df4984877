package vdom

import (
	"reflect"
	"sort"
)

// Diff compares an old and a new tree and returns the edit script that
// transforms the live rendering of old into new. It is a pure function
// of its inputs and never mutates either tree.
//
// Variant choice, in priority order:
//  1. new absent -> OpRemove
//  2. old absent, kind mismatch, or differing element tags ->
//     OpReplace carrying the new node
//  3. both leaves -> OpText when the scalars differ, otherwise an
//     empty OpUpdate (applying it is a no-op)
//  4. both elements with the same tag -> OpUpdate with attribute
//     patches and one child script per positional slot
func Diff(old, new *VNode) Script {
	if new == nil {
		return Script{Op: OpRemove}
	}
	if old == nil || old.Kind != new.Kind ||
		(new.Kind == KindElement && old.Tag != new.Tag) {
		return Script{Op: OpReplace, Node: new}
	}
	if new.Kind == KindText {
		if !valueEqual(old.Value, new.Value) {
			return Script{Op: OpText, Value: new.Value}
		}
		return Script{Op: OpUpdate}
	}
	return Script{
		Op:       OpUpdate,
		Attrs:    DiffAttrs(old.Attrs, new.Attrs),
		Children: diffChildren(old.Children, new.Children),
	}
}

// diffChildren produces one script per positional slot, covering the
// longer of the two child lists. A slot missing on the new side diffs
// against nil and yields OpRemove; a slot missing on the old side
// yields OpReplace, applied later against an absent live counterpart.
func diffChildren(old, new []*VNode) []Script {
	n := len(old)
	if len(new) > n {
		n = len(new)
	}
	scripts := make([]Script, n)
	for i := 0; i < n; i++ {
		scripts[i] = Diff(childAt(old, i), childAt(new, i))
	}
	return scripts
}

func childAt(children []*VNode, i int) *VNode {
	if i < len(children) {
		return children[i]
	}
	return nil
}

// DiffAttrs compares two attribute maps and returns the patch list:
// Set-family patches for keys added or changed in new, then
// Unset-family patches for keys dropped from old. Keys are visited in
// sorted order on both passes so output is stable for the same inputs.
// Handler keys yield the handler ops with the normalized event type.
// The reserved "children" key is structural and never diffed here.
func DiffAttrs(old, new Attrs) []AttrPatch {
	var patches []AttrPatch

	for _, key := range sortedKeys(new) {
		if key == "children" {
			continue
		}
		newVal := new[key]
		if oldVal, ok := old[key]; ok && valueEqual(oldVal, newVal) {
			continue
		}
		if IsEventKey(key) {
			patches = append(patches, AttrPatch{
				Op: AttrSetHandler, Key: EventName(key), Value: newVal,
			})
		} else {
			patches = append(patches, AttrPatch{
				Op: AttrSet, Key: key, Value: newVal,
			})
		}
	}

	for _, key := range sortedKeys(old) {
		if key == "children" {
			continue
		}
		if _, kept := new[key]; kept {
			continue
		}
		if IsEventKey(key) {
			patches = append(patches, AttrPatch{Op: AttrUnsetHandler, Key: EventName(key)})
		} else {
			patches = append(patches, AttrPatch{Op: AttrUnset, Key: key})
		}
	}

	return patches
}

func sortedKeys(attrs Attrs) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// valueEqual compares two attribute or leaf values. Fast paths cover
// the common scalar types; everything else falls back to
// reflect.DeepEqual. Non-nil function values never compare equal under
// DeepEqual, so a handler present on both sides is re-emitted on every
// diff; each render captures fresh closures that must replace the
// stale ones.
func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}
