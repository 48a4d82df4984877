// This file re-exports the vdom event helpers.
package el

import "github.com/graft-dev/graft/pkg/vdom"

// On creates a handler for an arbitrary event type.
func On(name string, handler any) EventHandler { return vdom.On(name, handler) }

// Mouse events

func OnClick(handler any) EventHandler       { return vdom.OnClick(handler) }
func OnDblClick(handler any) EventHandler    { return vdom.OnDblClick(handler) }
func OnMouseDown(handler any) EventHandler   { return vdom.OnMouseDown(handler) }
func OnMouseUp(handler any) EventHandler     { return vdom.OnMouseUp(handler) }
func OnMouseOver(handler any) EventHandler   { return vdom.OnMouseOver(handler) }
func OnMouseOut(handler any) EventHandler    { return vdom.OnMouseOut(handler) }
func OnMouseEnter(handler any) EventHandler  { return vdom.OnMouseEnter(handler) }
func OnMouseLeave(handler any) EventHandler  { return vdom.OnMouseLeave(handler) }
func OnContextMenu(handler any) EventHandler { return vdom.OnContextMenu(handler) }

// Keyboard events

func OnKeyDown(handler any) EventHandler { return vdom.OnKeyDown(handler) }
func OnKeyUp(handler any) EventHandler   { return vdom.OnKeyUp(handler) }

// Form events

func OnInput(handler any) EventHandler  { return vdom.OnInput(handler) }
func OnChange(handler any) EventHandler { return vdom.OnChange(handler) }
func OnSubmit(handler any) EventHandler { return vdom.OnSubmit(handler) }
func OnFocus(handler any) EventHandler  { return vdom.OnFocus(handler) }
func OnBlur(handler any) EventHandler   { return vdom.OnBlur(handler) }
func OnReset(handler any) EventHandler  { return vdom.OnReset(handler) }

// Clipboard events

func OnCopy(handler any) EventHandler  { return vdom.OnCopy(handler) }
func OnCut(handler any) EventHandler   { return vdom.OnCut(handler) }
func OnPaste(handler any) EventHandler { return vdom.OnPaste(handler) }

// Drag events

func OnDrag(handler any) EventHandler      { return vdom.OnDrag(handler) }
func OnDragStart(handler any) EventHandler { return vdom.OnDragStart(handler) }
func OnDragEnd(handler any) EventHandler   { return vdom.OnDragEnd(handler) }
func OnDragOver(handler any) EventHandler  { return vdom.OnDragOver(handler) }
func OnDrop(handler any) EventHandler      { return vdom.OnDrop(handler) }

// Miscellaneous events

func OnScroll(handler any) EventHandler { return vdom.OnScroll(handler) }
func OnLoad(handler any) EventHandler   { return vdom.OnLoad(handler) }
func OnError(handler any) EventHandler  { return vdom.OnError(handler) }
