package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindText, "Text"},
		{KindElement, "Element"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestIsEventKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"onclick", true},
		{"onClick", true},
		{"ONINPUT", true},
		{"on", false},
		{"id", false},
		{"once", true}, // any on-prefixed key longer than two chars counts
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsEventKey(tt.key); got != tt.want {
				t.Errorf("IsEventKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestEventName(t *testing.T) {
	if got := EventName("onClick"); got != "click" {
		t.Errorf("EventName(onClick) = %q, want click", got)
	}
	if got := EventName("oninput"); got != "input" {
		t.Errorf("EventName(oninput) = %q, want input", got)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 1.5, "1.5"},
		{"float no trailing zeros", 2.0, "2"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextf(t *testing.T) {
	n := Textf("x=%d", 9)
	if n.Kind != KindText || n.Value != "x=9" {
		t.Errorf("Textf produced %+v", n)
	}
}

func TestScriptOpStrings(t *testing.T) {
	if OpRemove.String() != "Remove" || OpReplace.String() != "Replace" ||
		OpText.String() != "Text" || OpUpdate.String() != "Update" {
		t.Error("ScriptOp String mismatch")
	}
	if AttrSet.String() != "Set" || AttrUnsetHandler.String() != "UnsetHandler" {
		t.Error("AttrOp String mismatch")
	}
	if ScriptOp(0).String() != "Unknown" {
		t.Error("zero ScriptOp should be Unknown")
	}
}
