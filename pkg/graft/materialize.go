package graft

import (
	"sort"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/vdom"
)

// Materialize converts a node tree into a freshly created live subtree:
// a leaf becomes a text node holding the stringified scalar, an element
// becomes a node of its tag with every attribute installed and every
// child materialized and appended in order. Pure allocation, no
// comparison against prior state. Returns nil for a nil node.
func Materialize(doc dom.Document, n *vdom.VNode) dom.Node {
	if n == nil {
		return nil
	}
	if n.Kind == vdom.KindText {
		return doc.CreateText(vdom.Stringify(n.Value))
	}

	el := doc.CreateElement(n.Tag)
	installAttrs(el, n.Attrs)
	for _, child := range n.Children {
		el.AppendChild(Materialize(doc, child))
	}
	return el
}

// installAttrs installs every attribute exactly as patch application's
// Set case does. Keys are visited in sorted order so hosts that record
// mutations observe a stable sequence.
func installAttrs(el dom.Node, attrs vdom.Attrs) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "children" {
			continue
		}
		installAttr(el, key, attrs[key])
	}
}

func installAttr(el dom.Node, key string, value any) {
	if vdom.IsEventKey(key) {
		if h := dom.NormalizeHandler(value); h != nil {
			el.SetHandler(vdom.EventName(key), h)
		}
		return
	}
	el.SetProperty(key, value)
}
