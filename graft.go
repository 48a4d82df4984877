// Package graft is the public entry point for the Graft framework:
// server-driven UIs written as plain Go render functions, delivered to
// the browser as HTML plus a stream of binary patches.
//
// A root producer renders the whole page from its state cells:
//
//	func Counter(ctx *graft.Ctx) *graft.VNode {
//		count, setCount := graft.UseState(ctx, 0)
//		return Div(
//			Button(OnClick(func() { setCount(count + 1) }), Text("+")),
//			Span(Textf("%d", count)),
//		)
//	}
//
//	func main() {
//		app := graft.New(Counter, graft.Config{Name: "counter"})
//		if err := app.Run(); err != nil {
//			fmt.Fprintln(os.Stderr, err)
//			os.Exit(1)
//		}
//	}
//
// The element constructors come from the dot-importable
// github.com/graft-dev/graft/el package. The engine itself lives in
// pkg/graft, the transport in pkg/server; this package only wires
// configuration, logging, persistence, and the server together.
package graft

import (
	core "github.com/graft-dev/graft/pkg/graft"

	"github.com/graft-dev/graft/pkg/dom"
	"github.com/graft-dev/graft/pkg/render"
	"github.com/graft-dev/graft/pkg/session"
	"github.com/graft-dev/graft/pkg/vdom"
)

// Ctx carries per-render state for one producer invocation.
type Ctx = core.Ctx

// RenderFunc produces the UI tree for one target.
type RenderFunc = core.RenderFunc

// VNode is a node in the produced UI tree.
type VNode = vdom.VNode

// Event is the payload delivered to element event handlers.
type Event = dom.Event

// Store persists detached sessions. Implementations live in
// pkg/session: memory, redis, bolt, and s3.
type Store = session.Store

// PageData describes the HTML shell around the first paint.
type PageData = render.PageData

// Head element entries for PageData.
type (
	MetaTag   = render.MetaTag
	LinkTag   = render.LinkTag
	ScriptTag = render.ScriptTag
)

// UseState declares a state cell scoped to the calling producer. The
// cell is identified by call order, so every render must reach the
// same UseState calls in the same sequence.
func UseState[T any](ctx *Ctx, initial T) (T, func(T)) {
	return core.UseState(ctx, initial)
}
