// Package render serializes UI trees to HTML for the first paint.
//
// The renderer walks an immutable vdom tree and writes escaped HTML.
// Elements carrying event handlers are marked with a data-g-on
// attribute listing their event types; the thin client reads those
// markers to know where to attach delegated listeners. Handler
// functions themselves never leave the server.
//
// RenderPage wraps a rendered body in a complete HTML document with
// the session bootstrap script; StreamingRenderer does the same with
// incremental flushing for faster first paint.
package render
