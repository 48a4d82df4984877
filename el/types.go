package el

import "github.com/graft-dev/graft/pkg/vdom"

// Type aliases for the tree primitives used by the DSL.
type VNode = vdom.VNode
type VKind = vdom.VKind
type Attrs = vdom.Attrs
type Attr = vdom.Attr
type EventHandler = vdom.EventHandler
