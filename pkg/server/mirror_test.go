package server

import (
	"reflect"
	"testing"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/graft"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/vdom"
)

// mountRecording mounts root as its mirror's single child, turns
// recording on, and drains the mount patch, leaving the mirror in its
// steady post-first-paint state.
func mountRecording(t *testing.T, root dom.Node) *mirror {
	t.Helper()
	m := root.(*mirrorNode).doc
	m.Root().AppendChild(root)
	m.SetRecording(true)
	m.Drain()
	return m
}

func drainOne(t *testing.T, m *mirror) protocol.Patch {
	t.Helper()
	patches := m.Drain()
	if len(patches) != 1 {
		t.Fatalf("recorded %d patches, want 1: %v", len(patches), patches)
	}
	return patches[0]
}

func TestMirror_DetachedMutationsRecordNothing(t *testing.T) {
	m := newMirror()
	m.SetRecording(true)

	el := m.CreateElement("div")
	el.SetProperty("id", "app")
	el.SetHandler("click", func(dom.Event) {})
	el.AppendChild(m.CreateText("hi"))

	if got := m.Drain(); len(got) != 0 {
		t.Fatalf("detached mutations recorded %d patches, want 0", len(got))
	}
}

func TestMirror_RecordingOffRecordsNothing(t *testing.T) {
	m := newMirror()

	el := m.CreateElement("div")
	m.Root().AppendChild(el)
	el.SetProperty("id", "app")
	el.AppendChild(m.CreateText("hi"))
	m.Root().RemoveChild(el)

	if got := m.Drain(); len(got) != 0 {
		t.Fatalf("recorded %d patches with recording off, want 0", len(got))
	}
}

func TestMirror_MountRecordsRootReplace(t *testing.T) {
	m := newMirror()
	m.SetRecording(true)

	el := m.CreateElement("div")
	el.SetProperty("id", "app")
	el.AppendChild(m.CreateText("hi"))
	m.Root().AppendChild(el)

	p := drainOne(t, m)
	if p.Op != protocol.PatchReplace {
		t.Fatalf("op = %v, want Replace", p.Op)
	}
	if len(p.Path) != 0 {
		t.Fatalf("path = %v, want empty (mount root)", p.Path)
	}
	if p.Node == nil || p.Node.Tag != "div" {
		t.Fatalf("node = %+v, want div element", p.Node)
	}
	if p.Node.Attrs["id"] != "app" {
		t.Errorf("node attrs = %v, want id=app", p.Node.Attrs)
	}
	if len(p.Node.Children) != 1 || p.Node.Children[0].Text != "hi" {
		t.Errorf("node children = %+v, want one text child", p.Node.Children)
	}
}

func TestMirror_AppendRecordsGrowSlot(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("ul")
	root.AppendChild(m.CreateElement("li"))
	mm := mountRecording(t, root)

	root.AppendChild(mm.CreateElement("li"))

	p := drainOne(t, mm)
	if p.Op != protocol.PatchReplace {
		t.Fatalf("op = %v, want Replace", p.Op)
	}
	// One past the existing child: the client fills it by appending.
	if want := (protocol.Path{1}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("path = %v, want %v", p.Path, want)
	}
}

func TestMirror_SetTextRecordsPath(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("div")
	span := m.CreateElement("span")
	txt := m.CreateText("old")
	span.AppendChild(txt)
	root.AppendChild(m.CreateElement("p"))
	root.AppendChild(span)
	mm := mountRecording(t, root)

	txt.SetText("new")

	p := drainOne(t, mm)
	if p.Op != protocol.PatchText {
		t.Fatalf("op = %v, want Text", p.Op)
	}
	if want := (protocol.Path{1, 0}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("path = %v, want %v", p.Path, want)
	}
	if p.Value != "new" {
		t.Fatalf("text = %q, want %q", p.Value, "new")
	}
	if txt.Text() != "new" {
		t.Fatalf("node text = %q, want %q", txt.Text(), "new")
	}
}

func TestMirror_Properties(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("input")
	mm := mountRecording(t, root)

	root.SetProperty("value", 42)
	p := drainOne(t, mm)
	if p.Op != protocol.PatchSetProp || p.Key != "value" || p.Value != "42" {
		t.Fatalf("patch = %+v, want SetProp value=42", p)
	}
	if v, ok := root.Property("value"); !ok || v != 42 {
		t.Fatalf("Property(value) = %v, %v; want 42, true", v, ok)
	}

	root.RemoveProperty("value")
	p = drainOne(t, mm)
	if p.Op != protocol.PatchRemoveProp || p.Key != "value" {
		t.Fatalf("patch = %+v, want RemoveProp value", p)
	}

	// Removing an absent property is a no-op on the wire.
	root.RemoveProperty("value")
	if got := mm.Drain(); len(got) != 0 {
		t.Fatalf("absent RemoveProperty recorded %d patches, want 0", len(got))
	}
}

func TestMirror_HandlerMarkerRecordedOncePerEvent(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("button")
	mm := mountRecording(t, root)

	root.SetHandler("click", func(dom.Event) {})
	p := drainOne(t, mm)
	if p.Op != protocol.PatchSetHandler || p.Key != "click" {
		t.Fatalf("patch = %+v, want SetHandler click", p)
	}

	// Handler funcs compare unequal every render pass, so the engine
	// re-sets them; the marker must not ship again.
	root.SetHandler("click", func(dom.Event) {})
	if got := mm.Drain(); len(got) != 0 {
		t.Fatalf("re-set handler recorded %d patches, want 0", len(got))
	}

	root.RemoveHandler("click")
	p = drainOne(t, mm)
	if p.Op != protocol.PatchRemoveHandler || p.Key != "click" {
		t.Fatalf("patch = %+v, want RemoveHandler click", p)
	}

	root.RemoveHandler("click")
	if got := mm.Drain(); len(got) != 0 {
		t.Fatalf("absent RemoveHandler recorded %d patches, want 0", len(got))
	}
}

func TestMirror_NilHandlerRemoves(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("button")
	mm := mountRecording(t, root)

	root.SetHandler("click", func(dom.Event) {})
	mm.Drain()

	root.SetHandler("click", nil)
	p := drainOne(t, mm)
	if p.Op != protocol.PatchRemoveHandler || p.Key != "click" {
		t.Fatalf("patch = %+v, want RemoveHandler click", p)
	}

	mn := root.(*mirrorNode)
	if _, ok := mn.Handler("click"); ok {
		t.Fatal("handler still installed after nil SetHandler")
	}
}

func TestMirror_RemoveChildRecordsPreRemovalPath(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("ul")
	a := m.CreateElement("li")
	b := m.CreateElement("li")
	c := m.CreateElement("li")
	root.AppendChild(a)
	root.AppendChild(b)
	root.AppendChild(c)
	mm := mountRecording(t, root)

	root.RemoveChild(b)
	p := drainOne(t, mm)
	if p.Op != protocol.PatchRemove {
		t.Fatalf("op = %v, want Remove", p.Op)
	}
	if want := (protocol.Path{1}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("path = %v, want %v", p.Path, want)
	}

	// c shifted left; its removal is addressed at the new index.
	root.RemoveChild(c)
	p = drainOne(t, mm)
	if want := (protocol.Path{1}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("shifted path = %v, want %v", p.Path, want)
	}
	if root.ChildCount() != 1 {
		t.Fatalf("ChildCount = %d, want 1", root.ChildCount())
	}
}

func TestMirror_ReplaceChildRecordsReplace(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("div")
	old := m.CreateElement("p")
	root.AppendChild(m.CreateElement("span"))
	root.AppendChild(old)
	mm := mountRecording(t, root)

	repl := mm.CreateElement("h1")
	root.ReplaceChild(old, repl)

	p := drainOne(t, mm)
	if p.Op != protocol.PatchReplace {
		t.Fatalf("op = %v, want Replace", p.Op)
	}
	if want := (protocol.Path{1}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("path = %v, want %v", p.Path, want)
	}
	if p.Node.Tag != "h1" {
		t.Fatalf("node tag = %q, want h1", p.Node.Tag)
	}
	if root.Child(1) != repl {
		t.Fatal("replacement not attached at old position")
	}
}

func TestMirror_StructuralPanics(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("div")
	m.Root().AppendChild(root)

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		fn()
	}

	stranger := m.CreateElement("p")
	mustPanic("RemoveChild of non-child", func() { root.RemoveChild(stranger) })
	mustPanic("ReplaceChild of non-child", func() { root.ReplaceChild(stranger, m.CreateElement("a")) })

	foreign := dom.NewDocument().CreateElement("div")
	mustPanic("AppendChild of foreign node", func() { root.AppendChild(foreign) })
}

func TestMirror_NodeAt(t *testing.T) {
	m := newMirror()
	if _, ok := m.NodeAt(nil); ok {
		t.Fatal("NodeAt on empty mirror should fail")
	}

	root := m.CreateElement("div")
	span := m.CreateElement("span")
	txt := m.CreateText("x")
	span.AppendChild(txt)
	root.AppendChild(span)
	m.Root().AppendChild(root)

	tests := []struct {
		name string
		path protocol.Path
		want dom.Node
		ok   bool
	}{
		{"empty path is the root", nil, root, true},
		{"first child", protocol.Path{0}, span, true},
		{"nested", protocol.Path{0, 0}, txt, true},
		{"out of range", protocol.Path{3}, nil, false},
		{"past a leaf", protocol.Path{0, 0, 0}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.NodeAt(tt.path)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && dom.Node(got) != tt.want {
				t.Fatalf("node = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirror_RootWire(t *testing.T) {
	m := newMirror()
	if m.RootWire() != nil {
		t.Fatal("RootWire on empty mirror should be nil")
	}

	root := m.CreateElement("button")
	root.SetProperty("class", "primary")
	root.SetHandler("click", func(dom.Event) {})
	root.SetHandler("blur", func(dom.Event) {})
	root.AppendChild(m.CreateText("Go"))
	m.Root().AppendChild(root)

	w := m.RootWire()
	if w.Tag != "button" {
		t.Fatalf("tag = %q, want button", w.Tag)
	}
	if w.Attrs["class"] != "primary" {
		t.Errorf("attrs = %v, want class=primary", w.Attrs)
	}
	// Handlers ship as sorted event-type markers, never functions.
	if want := []string{"blur", "click"}; !reflect.DeepEqual(w.Events, want) {
		t.Errorf("events = %v, want %v", w.Events, want)
	}
	if len(w.Children) != 1 || w.Children[0].Text != "Go" {
		t.Errorf("children = %+v, want one text child", w.Children)
	}
}

func TestMirror_DrainResets(t *testing.T) {
	m := newMirror()
	root := m.CreateElement("div")
	mm := mountRecording(t, root)

	root.SetProperty("a", "1")
	if got := len(mm.Drain()); got != 1 {
		t.Fatalf("first drain = %d patches, want 1", got)
	}
	if got := len(mm.Drain()); got != 0 {
		t.Fatalf("second drain = %d patches, want 0", got)
	}
}

// The mirror must stay byte-aligned with what a client applying the
// recorded patches would hold, across a full engine render cycle.
func TestMirror_EngineRenderRecordsMinimalPatches(t *testing.T) {
	m := newMirror()
	engine := graft.NewSession(m)

	label := "zero"
	producer := func(ctx *graft.Ctx) *vdom.VNode {
		return vdom.Div(
			vdom.Button(vdom.OnClick(func() {}), "+"),
			vdom.Span(label),
		)
	}

	// Initial mount with recording off: the tree travels as HTML.
	engine.Render(producer, m.Root())
	m.SetRecording(true)
	if got := m.Drain(); len(got) != 0 {
		t.Fatalf("mount leaked %d patches, want 0", len(got))
	}

	label = "one"
	engine.Render(producer, m.Root())

	p := drainOne(t, m)
	if p.Op != protocol.PatchText {
		t.Fatalf("op = %v, want Text", p.Op)
	}
	if want := (protocol.Path{1, 0}); !reflect.DeepEqual(p.Path, want) {
		t.Fatalf("path = %v, want %v", p.Path, want)
	}
	if p.Value != "one" {
		t.Fatalf("text = %q, want %q", p.Value, "one")
	}

	// Steady state: nothing changed, nothing recorded.
	engine.Render(producer, m.Root())
	if got := m.Drain(); len(got) != 0 {
		t.Fatalf("no-op render recorded %d patches, want 0", len(got))
	}
}
