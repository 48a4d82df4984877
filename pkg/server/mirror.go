package server

import (
	"fmt"
	"sort"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/vdom"
)

// mirror is the server-side dom.Document a session renders into. It
// keeps the authoritative copy of the client's tree and, while
// recording, turns every mutation of an attached node into a wire
// patch addressed by the node's index path at the moment of the
// mutation. Because the client applies the recorded patches in the
// same order against the same starting tree, the paths resolve to the
// same nodes on both ends.
//
// Mutations of detached nodes record nothing: a freshly materialized
// subtree ships as the single Replace patch that attaches it.
type mirror struct {
	container *mirrorNode
	recording bool
	patches   []protocol.Patch
}

func newMirror() *mirror {
	m := &mirror{}
	m.container = &mirrorNode{doc: m, tag: "body"}
	return m
}

// CreateText creates a detached text node.
func (m *mirror) CreateText(value string) dom.Node {
	return &mirrorNode{doc: m, text: true, content: value}
}

// CreateElement creates a detached element node.
func (m *mirror) CreateElement(tag string) dom.Node {
	return &mirrorNode{doc: m, tag: tag}
}

// Root returns the mount container. The render engine mounts the
// application root as its single child; that child is the node the
// empty wire path addresses.
func (m *mirror) Root() dom.Node {
	return m.container
}

// SetRecording toggles patch recording. The initial page render runs
// with recording off: the client gets that tree as HTML, not patches.
func (m *mirror) SetRecording(on bool) {
	m.recording = on
}

// Drain returns the recorded patches and resets the buffer.
func (m *mirror) Drain() []protocol.Patch {
	p := m.patches
	m.patches = nil
	return p
}

func (m *mirror) record(p protocol.Patch) {
	m.patches = append(m.patches, p)
}

// NodeAt resolves a wire path against the mounted root. The empty path
// is the root itself. Returns false when nothing is mounted or the
// path walks out of range.
func (m *mirror) NodeAt(path protocol.Path) (*mirrorNode, bool) {
	if len(m.container.children) == 0 {
		return nil, false
	}
	cur := m.container.children[0]
	for _, idx := range path {
		if int(idx) >= len(cur.children) {
			return nil, false
		}
		cur = cur.children[idx]
	}
	return cur, true
}

// RootWire snapshots the mounted root in wire form, or nil when
// nothing is mounted. Used for full-tree resync.
func (m *mirror) RootWire() *protocol.WireNode {
	if len(m.container.children) == 0 {
		return nil
	}
	return m.container.children[0].wire()
}

// mirrorNode is one node of the mirrored tree.
type mirrorNode struct {
	doc      *mirror
	parent   *mirrorNode
	children []*mirrorNode
	text     bool
	tag      string
	content  string
	props    map[string]any
	handlers map[string]dom.Handler
}

func mustMirror(n dom.Node, op string) *mirrorNode {
	if n == nil {
		panic("server: " + op + " with nil node")
	}
	mn, ok := n.(*mirrorNode)
	if !ok {
		panic(fmt.Sprintf("server: %s with foreign node type %T", op, n))
	}
	return mn
}

// path returns n's index path relative to the mounted root. The
// mounted root has the empty path; detached nodes and the container
// itself have none.
func (n *mirrorNode) path() (protocol.Path, bool) {
	if n == n.doc.container {
		return nil, false
	}
	var idx []uint32
	cur := n
	for {
		p := cur.parent
		if p == nil {
			return nil, false
		}
		if p == n.doc.container {
			break
		}
		i := p.indexOf(cur)
		if i < 0 {
			return nil, false
		}
		idx = append(idx, uint32(i))
		cur = p
	}
	for l, r := 0, len(idx)-1; l < r; l, r = l+1, r-1 {
		idx[l], idx[r] = idx[r], idx[l]
	}
	return protocol.Path(idx), true
}

// recordPath reports whether a mutation of n should be recorded, and
// at which path. True only while recording and for attached nodes.
func (n *mirrorNode) recordPath() (protocol.Path, bool) {
	if !n.doc.recording {
		return nil, false
	}
	return n.path()
}

func (n *mirrorNode) indexOf(child *mirrorNode) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// removeFromParent detaches n, recording the removal when n was
// attached and recording is on.
func (n *mirrorNode) removeFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	path, record := n.recordPath()
	i := p.indexOf(n)
	if i < 0 {
		panic("server: mirror node has a parent that does not contain it")
	}
	p.children = append(p.children[:i], p.children[i+1:]...)
	n.parent = nil
	if record {
		n.doc.record(protocol.NewRemovePatch(path))
	}
}

// AppendChild appends child as the last child, detaching it from any
// previous parent first. Recorded as a Replace into the grow slot one
// past the current last child.
func (n *mirrorNode) AppendChild(child dom.Node) {
	c := mustMirror(child, "AppendChild")
	c.removeFromParent()

	// The slot path is computed before the append so it points one
	// past the last child, which the client fills by appending.
	var slot protocol.Path
	record := false
	if n.doc.recording {
		if n == n.doc.container {
			slot, record = protocol.Path{}, true
		} else if p, ok := n.path(); ok {
			slot, record = p.Child(uint32(len(n.children))), true
		}
	}

	c.parent = n
	n.children = append(n.children, c)

	if record {
		n.doc.record(protocol.NewReplacePatch(slot, c.wire()))
	}
}

// RemoveChild detaches child. Panics if child is not present.
func (n *mirrorNode) RemoveChild(child dom.Node) {
	c := mustMirror(child, "RemoveChild")
	if c.parent != n {
		panic("server: RemoveChild of a node that is not a child")
	}
	c.removeFromParent()
}

// ReplaceChild replaces old with new at the same position. Panics if
// old is not present.
func (n *mirrorNode) ReplaceChild(old, new dom.Node) {
	oldNode := mustMirror(old, "ReplaceChild")
	newNode := mustMirror(new, "ReplaceChild")
	if oldNode.parent != n {
		panic("server: ReplaceChild of a node that is not a child")
	}

	// Detach new first: if it was attached elsewhere its removal is
	// recorded, and old's path is computed against the tree the client
	// will have when it applies the replace.
	newNode.removeFromParent()

	path, record := oldNode.recordPath()
	i := n.indexOf(oldNode)
	n.children[i] = newNode
	newNode.parent = n
	oldNode.parent = nil

	if record {
		n.doc.record(protocol.NewReplacePatch(path, newNode.wire()))
	}
}

// Child returns the i-th child, or nil when out of range.
func (n *mirrorNode) Child(i int) dom.Node {
	if i >= 0 && i < len(n.children) {
		return n.children[i]
	}
	return nil
}

// FirstChild returns the first child, or nil when empty.
func (n *mirrorNode) FirstChild() dom.Node {
	return n.Child(0)
}

// ChildCount returns the number of children.
func (n *mirrorNode) ChildCount() int {
	return len(n.children)
}

// SetProperty sets a named property.
func (n *mirrorNode) SetProperty(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = value
	if path, ok := n.recordPath(); ok {
		n.doc.record(protocol.NewSetPropPatch(path, key, vdom.Stringify(value)))
	}
}

// RemoveProperty clears a named property.
func (n *mirrorNode) RemoveProperty(key string) {
	if _, ok := n.props[key]; !ok {
		return
	}
	delete(n.props, key)
	if path, ok := n.recordPath(); ok {
		n.doc.record(protocol.NewRemovePropPatch(path, key))
	}
}

// Property reads a named property.
func (n *mirrorNode) Property(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// SetHandler installs the handler for an event type. A nil handler
// removes any existing one. The wire marker is only recorded when the
// event type is newly listened for: handler functions compare unequal
// on every render pass, so the engine re-sets them each time, and
// re-recording would send the client a marker patch per render.
func (n *mirrorNode) SetHandler(event string, h dom.Handler) {
	if h == nil {
		n.RemoveHandler(event)
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[string]dom.Handler)
	}
	_, had := n.handlers[event]
	n.handlers[event] = h
	if had {
		return
	}
	if path, ok := n.recordPath(); ok {
		n.doc.record(protocol.NewSetHandlerPatch(path, event))
	}
}

// RemoveHandler removes the handler for an event type.
func (n *mirrorNode) RemoveHandler(event string) {
	if _, ok := n.handlers[event]; !ok {
		return
	}
	delete(n.handlers, event)
	if path, ok := n.recordPath(); ok {
		n.doc.record(protocol.NewRemoveHandlerPatch(path, event))
	}
}

// Handler returns the handler installed for an event type.
func (n *mirrorNode) Handler(event string) (dom.Handler, bool) {
	h, ok := n.handlers[event]
	return h, ok
}

// SetText overwrites the textual content.
func (n *mirrorNode) SetText(value string) {
	n.content = value
	if path, ok := n.recordPath(); ok {
		n.doc.record(protocol.NewTextPatch(path, value))
	}
}

// Text reads the textual content.
func (n *mirrorNode) Text() string {
	return n.content
}

// Tag returns the element tag, or "" for text nodes.
func (n *mirrorNode) Tag() string {
	return n.tag
}

// IsText reports whether the node is a text node.
func (n *mirrorNode) IsText() bool {
	return n.text
}

// wire snapshots the subtree in wire form. Handler functions become
// event-type markers.
func (n *mirrorNode) wire() *protocol.WireNode {
	if n.text {
		return protocol.NewTextWire(n.content)
	}
	w := &protocol.WireNode{Kind: vdom.KindElement, Tag: n.tag}
	if len(n.props) > 0 {
		w.Attrs = make(map[string]string, len(n.props))
		for k, v := range n.props {
			w.Attrs[k] = vdom.Stringify(v)
		}
	}
	if len(n.handlers) > 0 {
		w.Events = make([]string, 0, len(n.handlers))
		for ev := range n.handlers {
			w.Events = append(w.Events, ev)
		}
		sort.Strings(w.Events)
	}
	if len(n.children) > 0 {
		w.Children = make([]*protocol.WireNode, len(n.children))
		for i, c := range n.children {
			w.Children[i] = c.wire()
		}
	}
	return w
}
