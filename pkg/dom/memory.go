package dom

import "fmt"

// MemoryDocument is the in-memory Document implementation. It backs
// tests, the test helpers in pkg/vtest, and any host that wants a
// browserless live tree.
type MemoryDocument struct{}

// NewDocument creates an in-memory document.
func NewDocument() *MemoryDocument {
	return &MemoryDocument{}
}

// CreateText creates a detached text node.
func (d *MemoryDocument) CreateText(value string) Node {
	return &MemoryNode{text: true, content: value}
}

// CreateElement creates a detached element node.
func (d *MemoryDocument) CreateElement(tag string) Node {
	return &MemoryNode{
		tag:      tag,
		props:    make(map[string]any),
		handlers: make(map[string]Handler),
	}
}

// NewContainer creates a detached element to mount into; shorthand for
// CreateElement used by tests and the vtest harness.
func (d *MemoryDocument) NewContainer() *MemoryNode {
	return d.CreateElement("div").(*MemoryNode)
}

// MemoryNode is one node of the in-memory tree.
type MemoryNode struct {
	text     bool
	tag      string
	content  string
	props    map[string]any
	handlers map[string]Handler
	parent   *MemoryNode
	children []*MemoryNode
}

func mustMemory(n Node, op string) *MemoryNode {
	if n == nil {
		panic("dom: " + op + " with nil node")
	}
	mn, ok := n.(*MemoryNode)
	if !ok {
		panic(fmt.Sprintf("dom: %s with foreign node type %T", op, n))
	}
	return mn
}

func (n *MemoryNode) detach() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			n.parent = nil
			return
		}
	}
	panic("dom: node has a parent that does not contain it")
}

// AppendChild appends child as the last child, detaching it from any
// previous parent first.
func (n *MemoryNode) AppendChild(child Node) {
	c := mustMemory(child, "AppendChild")
	c.detach()
	c.parent = n
	n.children = append(n.children, c)
}

// RemoveChild detaches child. Panics if child is not present.
func (n *MemoryNode) RemoveChild(child Node) {
	c := mustMemory(child, "RemoveChild")
	for i, cur := range n.children {
		if cur == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
	panic("dom: RemoveChild of a node that is not a child")
}

// ReplaceChild replaces old with new at the same position. Panics if
// old is not present.
func (n *MemoryNode) ReplaceChild(old, new Node) {
	oldNode := mustMemory(old, "ReplaceChild")
	newNode := mustMemory(new, "ReplaceChild")
	for i, cur := range n.children {
		if cur == oldNode {
			newNode.detach()
			newNode.parent = n
			n.children[i] = newNode
			oldNode.parent = nil
			return
		}
	}
	panic("dom: ReplaceChild of a node that is not a child")
}

// Child returns the i-th child, or nil when out of range.
func (n *MemoryNode) Child(i int) Node {
	if i >= 0 && i < len(n.children) {
		return n.children[i]
	}
	return nil
}

// FirstChild returns the first child, or nil when empty.
func (n *MemoryNode) FirstChild() Node {
	return n.Child(0)
}

// ChildCount returns the number of children.
func (n *MemoryNode) ChildCount() int {
	return len(n.children)
}

// SetProperty sets a named property.
func (n *MemoryNode) SetProperty(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = value
}

// RemoveProperty clears a named property.
func (n *MemoryNode) RemoveProperty(key string) {
	delete(n.props, key)
}

// Property reads a named property.
func (n *MemoryNode) Property(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// SetHandler installs the handler for an event type. A nil handler
// removes any existing one.
func (n *MemoryNode) SetHandler(event string, h Handler) {
	if n.handlers == nil {
		n.handlers = make(map[string]Handler)
	}
	if h == nil {
		delete(n.handlers, event)
		return
	}
	n.handlers[event] = h
}

// RemoveHandler removes the handler for an event type.
func (n *MemoryNode) RemoveHandler(event string) {
	delete(n.handlers, event)
}

// SetText overwrites the textual content.
func (n *MemoryNode) SetText(value string) {
	n.content = value
}

// Text reads the textual content.
func (n *MemoryNode) Text() string {
	return n.content
}

// Tag returns the element tag, or "" for text nodes.
func (n *MemoryNode) Tag() string {
	return n.tag
}

// IsText reports whether the node is a text node.
func (n *MemoryNode) IsText() bool {
	return n.text
}

// Dispatch delivers an event to the handler installed on n for the
// event's type. It reports whether a handler ran. Tests and the vtest
// harness use this in place of a real input source.
func (n *MemoryNode) Dispatch(ev Event) bool {
	h, ok := n.handlers[ev.Type]
	if !ok {
		return false
	}
	h(ev)
	return true
}

// HasHandler reports whether a handler is installed for the event type.
func (n *MemoryNode) HasHandler(event string) bool {
	_, ok := n.handlers[event]
	return ok
}
