// Package vtest provides testing helpers for graft producers.
//
// The vtest package reduces boilerplate when testing UI code: Mount
// drives a producer against an in-memory document, and the render
// assertions check serialized output without hand-rolled string
// plumbing.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter)
//	    h.ExpectContains("<span>0</span>")
//	    h.Click(0)
//	    h.ExpectText([]int{1}, "1")
//	}
//
// # Harness
//
// Mount renders the producer into a fresh in-memory container and
// returns a harness holding the session, document, and container.
// Dispatch delivers events to nodes addressed by child-index paths
// relative to the mounted root; state setters re-render synchronously,
// so the live tree is already updated when Dispatch returns:
//
//	h := vtest.Mount(t, SearchBox)
//	h.Dispatch([]int{0}, "input", "needle")
//	h.ExpectProperty([]int{0}, "value", "needle")
//
// HTML serializes the live tree the engine patched, not the producer's
// output, so materializer and patcher regressions surface in harness
// assertions.
//
// # Render Assertions
//
// Node-level assertions render a tree with pkg/render and check the
// HTML, for component tests that never need a session:
//
//	vtest.ExpectContains(t, comp, "Welcome")
//	vtest.ExpectNotContains(t, comp, "Error")
//	vtest.ExpectElement(t, comp, "button")
//	vtest.ExpectAttribute(t, comp, "class", "btn-primary")
//
// # Restore Simulation
//
// Remount rebuilds the harness from the target's serialized state
// cells, the way the server restores an expired session from its
// store:
//
//	h.Click(0)
//	h.Remount()
//	h.ExpectText([]int{1}, "1")
package vtest
