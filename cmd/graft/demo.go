package main

import (
	"github.com/graft-dev/graft"
	. "github.com/graft-dev/graft/el"
)

// demoRoot is the counter application behind graft serve. Every click
// round-trips through the server and comes back as a patch.
func demoRoot(ctx *graft.Ctx) *graft.VNode {
	count, setCount := graft.UseState(ctx, 0)

	return Div(Class("demo"),
		H1(Text("graft")),
		P(Text("This page is rendered on the server from a Go function. "+
			"The buttons send events over WebSocket and the DOM below is "+
			"updated by patches, not by reloading.")),
		Div(Class("counter"),
			Button(Class("step"), OnClick(func() { setCount(count - 1) }), Text("-")),
			Span(Class("value"), Textf("%d", count)),
			Button(Class("step"), OnClick(func() { setCount(count + 1) }), Text("+")),
		),
		P(Class("hint"),
			Text("Open this page in a second tab: each tab is its own session "+
				"with its own count."),
		),
	)
}

const demoStyle = `
body { font-family: system-ui, sans-serif; display: flex; justify-content: center; padding-top: 10vh; background: #fafafa; color: #1a1a1a; }
.demo { text-align: center; }
.demo h1 { font-weight: 600; letter-spacing: 0.05em; }
.counter { display: flex; align-items: center; justify-content: center; gap: 1rem; margin: 2rem 0; }
.counter .value { font-size: 2.5rem; font-variant-numeric: tabular-nums; min-width: 3ch; }
.counter .step { font-size: 1.5rem; width: 2.5rem; height: 2.5rem; border: 1px solid #ccc; border-radius: 0.5rem; background: #fff; cursor: pointer; }
.counter .step:hover { background: #f0f0f0; }
.hint { color: #777; font-size: 0.9rem; }
`

// demoPage is the HTML shell for the demo.
func demoPage() graft.PageData {
	return graft.PageData{
		Title:  "Graft counter",
		Styles: []string{demoStyle},
	}
}
