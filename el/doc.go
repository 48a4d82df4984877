// Package el provides the dot-import DSL for building graft UI trees.
//
// It re-exports the element constructors, attribute helpers, event
// helpers, and tree utilities from github.com/graft-dev/graft/pkg/vdom
// under one importable namespace.
//
// Typical usage:
//
//	import (
//	    "github.com/graft-dev/graft/pkg/graft"
//	    . "github.com/graft-dev/graft/el"
//	)
//
//	func Counter(ctx *graft.Ctx) *VNode {
//	    count, setCount := graft.UseState(ctx, 0)
//	    return Div(
//	        Button(OnClick(func() { setCount(count + 1) }), "+"),
//	        Span(count),
//	    )
//	}
//
// This keeps the DSL in a dedicated package while the engine APIs live
// in pkg/graft.
package el
