package vdom

import "testing"

func TestElBasics(t *testing.T) {
	n := El("div", ID("app"), Class("main", "wide"), Span("hi"))

	if n.Kind != KindElement {
		t.Fatalf("expected element, got %v", n.Kind)
	}
	if n.Tag != "div" {
		t.Errorf("tag = %q, want %q", n.Tag, "div")
	}
	if n.Attrs["id"] != "app" {
		t.Errorf("id = %v, want app", n.Attrs["id"])
	}
	if n.Attrs["class"] != "main wide" {
		t.Errorf("class = %v, want %q", n.Attrs["class"], "main wide")
	}
	if len(n.Children) != 1 || n.Children[0].Tag != "span" {
		t.Errorf("unexpected children: %v", n.Children)
	}
}

func TestElChildrenNeverNil(t *testing.T) {
	n := Div()
	if n.Children == nil {
		t.Fatal("element children must be the empty slice, not nil")
	}
	if n.Attrs == nil {
		t.Fatal("element attrs must be the empty map, not nil")
	}
}

func TestElScalarPromotion(t *testing.T) {
	n := P("count: ", 42, " of ", 1.5)
	if len(n.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(n.Children))
	}
	for i, child := range n.Children {
		if child.Kind != KindText {
			t.Errorf("child %d: expected text leaf, got %v", i, child.Kind)
		}
	}
	if n.Children[1].Value != 42 {
		t.Errorf("numeric leaf should keep its scalar, got %v", n.Children[1].Value)
	}
}

func TestElSkipsNil(t *testing.T) {
	n := Div(nil, If(false, Span("never")), "kept")
	if len(n.Children) != 1 {
		t.Fatalf("expected nil args skipped, got %d children", len(n.Children))
	}
}

func TestElChildrenAttrRouted(t *testing.T) {
	kids := []*VNode{Span("a"), Span("b")}
	n := Div(Attr{Key: "children", Value: kids})

	if _, ok := n.Attrs["children"]; ok {
		t.Error("children key must not land in the attribute map")
	}
	if len(n.Children) != 2 {
		t.Fatalf("expected routed children, got %d", len(n.Children))
	}
}

func TestElEventHandler(t *testing.T) {
	called := false
	n := Button(OnClick(func() { called = true }), "go")

	h, ok := n.Attrs["onclick"]
	if !ok {
		t.Fatal("onclick handler not stored")
	}
	if fn, ok := h.(func()); ok {
		fn()
	}
	if !called {
		t.Error("stored handler is not the provided func")
	}
}

func TestElFlattensAnySlices(t *testing.T) {
	n := Ul([]any{Li("a"), []any{Li("b"), Li("c")}, "d"})
	if len(n.Children) != 4 {
		t.Fatalf("expected 4 children after flattening, got %d", len(n.Children))
	}
}

func TestAttrIfSkipsEmpty(t *testing.T) {
	n := Div(ClassIf(false, "hidden"), AttrIf(true, "id", "x"))
	if _, ok := n.Attrs["class"]; ok {
		t.Error("false ClassIf must not set class")
	}
	if n.Attrs["id"] != "x" {
		t.Error("true AttrIf must set the attribute")
	}
}

func TestRangeAndRepeat(t *testing.T) {
	items := Range([]string{"a", "b"}, func(s string, i int) *VNode {
		return Li(Textf("%d:%s", i, s))
	})
	if len(items) != 2 {
		t.Fatalf("Range produced %d nodes", len(items))
	}

	rows := Repeat(3, func(i int) *VNode {
		if i == 1 {
			return nil
		}
		return Tr()
	})
	if len(rows) != 2 {
		t.Errorf("Repeat should drop nil results, got %d", len(rows))
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") || !IsVoidElement("input") {
		t.Error("br and input are void")
	}
	if IsVoidElement("div") {
		t.Error("div is not void")
	}
}
