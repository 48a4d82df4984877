package graft

import (
	"testing"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/vdom"
)

// mount materializes tree under a fresh container and returns both.
func mount(t *testing.T, doc *dom.MemoryDocument, tree *vdom.VNode) (*dom.MemoryNode, dom.Node) {
	t.Helper()
	container := doc.NewContainer()
	live := Materialize(doc, tree)
	container.AppendChild(live)
	return container, live
}

func TestApplySelfDiffIsIdentity(t *testing.T) {
	doc := dom.NewDocument()
	tree := vdom.Div(vdom.ID("app"), vdom.Class("x"),
		vdom.H1("Title"),
		vdom.Ul(vdom.Li("one"), vdom.Li("two")),
	)
	container, live := mount(t, doc, tree)

	before := container.OuterHTML()
	Apply(doc, container, live, vdom.Diff(tree, tree))
	after := container.OuterHTML()

	if before != after {
		t.Errorf("self-diff apply changed the tree:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestApplyReplaceLeafWithElement(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Text("a")
	new := vdom.Div()
	container, live := mount(t, doc, old)

	s := vdom.Diff(old, new)
	if s.Op != vdom.OpReplace {
		t.Fatalf("expected OpReplace, got %v", s.Op)
	}
	Apply(doc, container, live, s)

	got := container.FirstChild()
	if got.IsText() || got.Tag() != "div" {
		t.Errorf("live node should now match a materialized div")
	}
	if container.ChildCount() != 1 {
		t.Errorf("replace must not change child count")
	}
}

func TestApplyTextUpdate(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Text(1)
	new := vdom.Text(2)
	container, live := mount(t, doc, old)

	Apply(doc, container, live, vdom.Diff(old, new))

	if got := container.FirstChild().Text(); got != "2" {
		t.Errorf("text after patch = %q, want %q", got, "2")
	}
	if container.FirstChild() != live {
		t.Error("text update must keep the node instance")
	}
}

func TestApplyAttributePatches(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Div(vdom.AttrOf("a", 1), vdom.AttrOf("b", 2))
	new := vdom.Div(vdom.AttrOf("b", 3), vdom.AttrOf("c", 4))
	container, live := mount(t, doc, old)

	Apply(doc, container, live, vdom.Diff(old, new))

	if v, _ := live.Property("b"); v != 3 {
		t.Errorf("b = %v, want 3", v)
	}
	if v, _ := live.Property("c"); v != 4 {
		t.Errorf("c = %v, want 4", v)
	}
	if _, ok := live.Property("a"); ok {
		t.Error("a should have been unset")
	}
	if container.FirstChild() != live {
		t.Error("update must keep the node instance")
	}
}

func TestApplyHandlerPatches(t *testing.T) {
	doc := dom.NewDocument()
	oldCalls, newCalls := 0, 0
	old := vdom.Button(vdom.OnClick(func() { oldCalls++ }))
	new := vdom.Button(vdom.OnClick(func() { newCalls++ }))
	container, live := mount(t, doc, old)

	Apply(doc, container, live, vdom.Diff(old, new))

	live.(*dom.MemoryNode).Dispatch(dom.Event{Type: "click"})
	if oldCalls != 0 || newCalls != 1 {
		t.Errorf("patched handler routing: old=%d new=%d", oldCalls, newCalls)
	}

	// Handler dropped entirely on the next render.
	bare := vdom.Button()
	Apply(doc, container, live, vdom.Diff(new, bare))
	if live.(*dom.MemoryNode).HasHandler("click") {
		t.Error("unset handler should be removed")
	}
}

func TestApplyChildGrowth(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Div(vdom.Span("a"))
	new := vdom.Div(vdom.Span("a"), vdom.Span("b"), vdom.Span("c"))
	container, live := mount(t, doc, old)
	first := live.Child(0)

	Apply(doc, container, live, vdom.Diff(old, new))

	if live.ChildCount() != 3 {
		t.Fatalf("ChildCount = %d, want 3", live.ChildCount())
	}
	if live.Child(0) != first {
		t.Error("surviving child must keep its instance")
	}
	if live.Child(1).FirstChild().Text() != "b" || live.Child(2).FirstChild().Text() != "c" {
		t.Error("grown slots should hold the appended children in order")
	}
}

func TestApplyChildShrink(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Div(vdom.Span("a"), vdom.Span("b"), vdom.Span("c"))
	new := vdom.Div(vdom.Span("a"))
	container, live := mount(t, doc, old)
	first := live.Child(0)

	Apply(doc, container, live, vdom.Diff(old, new))

	if live.ChildCount() != 1 {
		t.Fatalf("ChildCount = %d, want 1", live.ChildCount())
	}
	if live.Child(0) != first {
		t.Error("surviving child must keep its instance")
	}
}

func TestApplyNestedUpdate(t *testing.T) {
	doc := dom.NewDocument()
	old := vdom.Div(vdom.Ul(vdom.Li("one"), vdom.Li("two")))
	new := vdom.Div(vdom.Ul(vdom.Li("one"), vdom.Li("TWO")))
	container, live := mount(t, doc, old)
	ul := live.Child(0)
	li2 := ul.Child(1)

	Apply(doc, container, live, vdom.Diff(old, new))

	if live.Child(0) != ul || ul.Child(1) != li2 {
		t.Error("nested update must not replace surviving nodes")
	}
	if li2.FirstChild().Text() != "TWO" {
		t.Errorf("nested text = %q, want TWO", li2.FirstChild().Text())
	}
}
