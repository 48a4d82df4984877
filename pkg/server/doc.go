// Package server hosts Graft applications over HTTP and WebSocket.
//
// A Server owns an HTTP listener (chi router), a session Manager, and a
// root render function. Each page load creates a Session whose render
// engine mounts into a mirror: a server-side dom.Document that records
// every mutation as a wire patch addressed by index path. The first
// render is serialized to HTML and sent with the page; after the
// client's WebSocket attaches, events flow in, handlers run on the
// session's event loop, re-renders diff against the previous tree, and
// the mirror's recorded patches flush to the client as one sequenced
// frame.
//
// Sessions survive reconnects: a ring buffer of recent patch frames
// replays what a briefly-disconnected client missed, and a
// session.Store (when configured) revives expired sessions from their
// persisted state cells.
package server
