package graft

import (
	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/vdom"
)

// Apply replays an edit script against the live node it was computed
// for. parent is live's parent and receives the structural operations:
// removal, in-place replacement, and the append that fills a slot the
// new tree grew beyond the old child count (live is nil for such
// slots). All effects mutate the externally owned live tree; there is
// no return value beyond completion.
func Apply(doc dom.Document, parent, live dom.Node, script vdom.Script) {
	switch script.Op {
	case vdom.OpRemove:
		parent.RemoveChild(live)

	case vdom.OpReplace:
		fresh := Materialize(doc, script.Node)
		if live == nil {
			parent.AppendChild(fresh)
		} else {
			parent.ReplaceChild(live, fresh)
		}

	case vdom.OpText:
		live.SetText(vdom.Stringify(script.Value))

	case vdom.OpUpdate:
		for _, p := range script.Attrs {
			applyAttrPatch(live, p)
		}
		if len(script.Children) == 0 {
			return
		}
		// Capture the positional children before recursing: the
		// trailing removes a shrink produces must not shift the slots
		// of scripts applied after them.
		targets := make([]dom.Node, len(script.Children))
		for i := range script.Children {
			targets[i] = live.Child(i)
		}
		for i, cs := range script.Children {
			Apply(doc, live, targets[i], cs)
		}
	}
}

func applyAttrPatch(live dom.Node, p vdom.AttrPatch) {
	switch p.Op {
	case vdom.AttrSet:
		live.SetProperty(p.Key, p.Value)
	case vdom.AttrUnset:
		live.RemoveProperty(p.Key)
	case vdom.AttrSetHandler:
		live.SetHandler(p.Key, dom.NormalizeHandler(p.Value))
	case vdom.AttrUnsetHandler:
		live.RemoveHandler(p.Key)
	}
}
