package protocol

import (
	"errors"
	"sort"

	"github.com/graft-dev/graft/pkg/vdom"
)

// ErrInvalidNodeKind reports a wire node with an unknown kind byte.
// There is no way to know how many bytes such a node occupies, so
// decoding cannot continue past it.
var ErrInvalidNodeKind = errors.New("protocol: invalid wire node kind")

// WireNode is the wire form of a UI node: only serializable data, no
// handler functions. Element handlers surface as the Events list so
// the client knows which event types to forward for the node.
type WireNode struct {
	Kind     vdom.VKind
	Tag      string            // element tag
	Text     string            // leaf content, already stringified
	Attrs    map[string]string // element attributes, no handlers
	Events   []string          // normalized event types, sorted
	Children []*WireNode
}

// FromVNode converts a tree to wire form. Leaf scalars stringify here;
// handler entries become Events markers and their functions are
// dropped.
func FromVNode(node *vdom.VNode) *WireNode {
	if node == nil {
		return nil
	}

	if node.Kind == vdom.KindText {
		return &WireNode{Kind: vdom.KindText, Text: vdom.Stringify(node.Value)}
	}

	w := &WireNode{Kind: vdom.KindElement, Tag: node.Tag}

	for key, value := range node.Attrs {
		if vdom.IsEventKey(key) {
			if value != nil {
				w.Events = append(w.Events, vdom.EventName(key))
			}
			continue
		}
		if key == "children" {
			continue
		}
		if w.Attrs == nil {
			w.Attrs = make(map[string]string)
		}
		w.Attrs[key] = vdom.Stringify(value)
	}
	sort.Strings(w.Events)

	if len(node.Children) > 0 {
		w.Children = make([]*WireNode, 0, len(node.Children))
		for _, child := range node.Children {
			if child != nil {
				w.Children = append(w.Children, FromVNode(child))
			}
		}
	}

	return w
}

// ToVNode converts a wire node back into a tree. Handler functions
// cannot cross the wire; Events markers are dropped.
func (w *WireNode) ToVNode() *vdom.VNode {
	if w == nil {
		return nil
	}

	if w.Kind == vdom.KindText {
		return vdom.Text(w.Text)
	}

	node := &vdom.VNode{Kind: vdom.KindElement, Tag: w.Tag}
	if len(w.Attrs) > 0 {
		node.Attrs = make(vdom.Attrs, len(w.Attrs))
		for k, v := range w.Attrs {
			node.Attrs[k] = v
		}
	}
	if len(w.Children) > 0 {
		node.Children = make([]*vdom.VNode, len(w.Children))
		for i, child := range w.Children {
			node.Children[i] = child.ToVNode()
		}
	}
	return node
}

// EncodeWireNode encodes a node using the provided encoder. Attrs are
// written in sorted key order so identical trees produce identical
// bytes.
func EncodeWireNode(e *Encoder, node *WireNode) {
	if node == nil {
		e.WriteByte(0xFF) // null marker
		return
	}

	e.WriteByte(byte(node.Kind))

	switch node.Kind {
	case vdom.KindText:
		e.WriteString(node.Text)

	case vdom.KindElement:
		e.WriteString(node.Tag)

		keys := make([]string, 0, len(node.Attrs))
		for k := range node.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.WriteUvarint(uint64(len(keys)))
		for _, k := range keys {
			e.WriteString(k)
			e.WriteString(node.Attrs[k])
		}

		e.WriteUvarint(uint64(len(node.Events)))
		for _, ev := range node.Events {
			e.WriteString(ev)
		}

		e.WriteUvarint(uint64(len(node.Children)))
		for _, child := range node.Children {
			EncodeWireNode(e, child)
		}
	}
}

// DecodeWireNode decodes a node from the decoder, enforcing
// MaxNodeDepth against stack exhaustion.
func DecodeWireNode(d *Decoder) (*WireNode, error) {
	return decodeWireNode(d, 0)
}

func decodeWireNode(d *Decoder, depth int) (*WireNode, error) {
	if err := checkDepth(depth, MaxNodeDepth); err != nil {
		return nil, err
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kindByte == 0xFF {
		return nil, nil
	}

	node := &WireNode{Kind: vdom.VKind(kindByte)}

	switch node.Kind {
	case vdom.KindText:
		node.Text, err = d.ReadString()
		if err != nil {
			return nil, err
		}

	case vdom.KindElement:
		node.Tag, err = d.ReadString()
		if err != nil {
			return nil, err
		}

		attrCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if attrCount > 0 {
			node.Attrs = make(map[string]string, attrCount)
			for i := 0; i < attrCount; i++ {
				key, err := d.ReadString()
				if err != nil {
					return nil, err
				}
				value, err := d.ReadString()
				if err != nil {
					return nil, err
				}
				node.Attrs[key] = value
			}
		}

		eventCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if eventCount > 0 {
			node.Events = make([]string, eventCount)
			for i := 0; i < eventCount; i++ {
				node.Events[i], err = d.ReadString()
				if err != nil {
					return nil, err
				}
			}
		}

		childCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if childCount > 0 {
			node.Children = make([]*WireNode, childCount)
			for i := 0; i < childCount; i++ {
				child, err := decodeWireNode(d, depth+1)
				if err != nil {
					return nil, err
				}
				node.Children[i] = child
			}
		}

	default:
		return nil, ErrInvalidNodeKind
	}

	return node, nil
}

// NewTextWire creates a leaf wire node.
func NewTextWire(text string) *WireNode {
	return &WireNode{Kind: vdom.KindText, Text: text}
}

// NewElementWire creates an element wire node.
func NewElementWire(tag string, attrs map[string]string, children ...*WireNode) *WireNode {
	return &WireNode{
		Kind:     vdom.KindElement,
		Tag:      tag,
		Attrs:    attrs,
		Children: children,
	}
}
