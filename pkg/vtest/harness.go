package vtest

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/graft"
)

// Harness drives one producer mounted into an in-memory document.
// Methods that take paths resolve child-index chains relative to the
// mounted root; an empty path addresses the root itself. Assertion
// methods call t.Helper, so failures point at the test line.
type Harness struct {
	t         *testing.T
	doc       *dom.MemoryDocument
	container *dom.MemoryNode
	session   *graft.Session
	producer  graft.RenderFunc
}

// Mount renders producer into a fresh in-memory container and returns
// a harness over it.
//
// Example:
//
//	h := vtest.Mount(t, Counter)
//	h.Click(0)
//	h.ExpectText([]int{1}, "1")
func Mount(t *testing.T, producer graft.RenderFunc) *Harness {
	t.Helper()
	h := &Harness{t: t, producer: producer}
	h.mount(nil)
	return h
}

func (h *Harness) mount(cells []json.RawMessage) {
	h.doc = dom.NewDocument()
	h.container = h.doc.NewContainer()
	h.session = graft.NewSession(h.doc, graft.WithLogger(quietLogger()))
	if cells != nil {
		h.session.RestoreCells(h.container, cells)
	}
	h.session.Render(h.producer, h.container)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Session returns the render session.
func (h *Harness) Session() *graft.Session { return h.session }

// Document returns the in-memory document.
func (h *Harness) Document() *dom.MemoryDocument { return h.doc }

// Container returns the container the producer is mounted into.
func (h *Harness) Container() *dom.MemoryNode { return h.container }

// Root returns the mounted root node, or nil when the last pass
// produced an empty tree.
func (h *Harness) Root() *dom.MemoryNode {
	root, _ := h.container.FirstChild().(*dom.MemoryNode)
	return root
}

// HTML serializes the live tree under the container. It reads the
// patched target, not the retained snapshot, so a divergence between
// the two shows up as a failed assertion.
func (h *Harness) HTML() string {
	var b strings.Builder
	for i := 0; i < h.container.ChildCount(); i++ {
		b.WriteString(h.container.Child(i).(*dom.MemoryNode).OuterHTML())
	}
	return b.String()
}

// Rerender forces one render pass with the mounted producer. A pass
// over unchanged state yields an empty edit script and leaves the live
// tree alone.
func (h *Harness) Rerender() {
	h.t.Helper()
	h.session.Render(h.producer, h.container)
}

// Remount simulates a session restore: it serializes the target's
// state cells, rebuilds the document, session, and container from
// scratch, seeds the fresh target with the serialized cells, and
// renders. The live tree afterwards reflects the persisted state, the
// way a server-side restore from the session store does.
func (h *Harness) Remount() {
	h.t.Helper()
	cells, err := h.session.CellValues(h.container)
	if err != nil {
		h.t.Fatalf("serialize state cells: %v", err)
	}
	h.mount(cells)
}

// Dispatch delivers an event to the node at path and reports whether a
// handler ran. An optional value carries the input payload. State
// setters fired by the handler re-render synchronously, so the live
// tree is already updated when Dispatch returns.
//
// Example:
//
//	h.Dispatch([]int{0}, "input", "needle")
func (h *Harness) Dispatch(path []int, event string, value ...string) bool {
	h.t.Helper()
	ev := dom.Event{Type: event}
	if len(value) > 0 {
		ev.Value = value[0]
	}
	return h.nodeAt(path).Dispatch(ev)
}

// Click is shorthand for Dispatch(path, "click").
func (h *Harness) Click(path ...int) bool {
	h.t.Helper()
	return h.Dispatch(path, "click")
}

// ExpectContains asserts that the live tree's HTML contains substr.
func (h *Harness) ExpectContains(substr string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, substr) {
		h.t.Errorf("expected live tree to contain %q, got:\n%s", substr, truncate(html, 500))
	}
}

// ExpectText asserts on the text content of the node at path: the
// node's own content for a text node, the concatenated descendant text
// for an element.
func (h *Harness) ExpectText(path []int, want string) {
	h.t.Helper()
	got := textContent(h.nodeAt(path))
	if got != want {
		h.t.Errorf("text at %v = %q, want %q", path, got, want)
	}
}

// ExpectProperty asserts on a property of the node at path.
func (h *Harness) ExpectProperty(path []int, key string, want any) {
	h.t.Helper()
	got, ok := h.nodeAt(path).Property(key)
	if !ok {
		h.t.Errorf("property %q not set at %v", key, path)
		return
	}
	if diff := cmp.Diff(want, got); diff != "" {
		h.t.Errorf("property %q at %v mismatch (-want +got):\n%s", key, path, diff)
	}
}

func (h *Harness) nodeAt(path []int) *dom.MemoryNode {
	h.t.Helper()
	root := h.Root()
	if root == nil {
		h.t.Fatalf("no node at path %v: nothing mounted", path)
	}
	n := root
	for _, idx := range path {
		child, ok := n.Child(idx).(*dom.MemoryNode)
		if !ok {
			h.t.Fatalf("no node at path %v: index %d out of range", path, idx)
		}
		n = child
	}
	return n
}

func textContent(n *dom.MemoryNode) string {
	if n.IsText() {
		return n.Text()
	}
	var b strings.Builder
	for i := 0; i < n.ChildCount(); i++ {
		b.WriteString(textContent(n.Child(i).(*dom.MemoryNode)))
	}
	return b.String()
}
