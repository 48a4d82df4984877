package vdom

// event creates an EventHandler for the given event name.
// The name is stored with the "on" prefix so it lands in the handler
// namespace of the attribute map.
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// On creates a handler for an arbitrary event type.
func On(name string, handler any) EventHandler { return event(name, handler) }

// Mouse events

func OnClick(handler any) EventHandler    { return event("click", handler) }
func OnDblClick(handler any) EventHandler { return event("dblclick", handler) }
func OnMouseDown(handler any) EventHandler {
	return event("mousedown", handler)
}
func OnMouseUp(handler any) EventHandler    { return event("mouseup", handler) }
func OnMouseOver(handler any) EventHandler  { return event("mouseover", handler) }
func OnMouseOut(handler any) EventHandler   { return event("mouseout", handler) }
func OnMouseEnter(handler any) EventHandler { return event("mouseenter", handler) }
func OnMouseLeave(handler any) EventHandler { return event("mouseleave", handler) }
func OnContextMenu(handler any) EventHandler {
	return event("contextmenu", handler)
}

// Keyboard events

func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }
func OnKeyUp(handler any) EventHandler   { return event("keyup", handler) }

// Form events

func OnInput(handler any) EventHandler  { return event("input", handler) }
func OnChange(handler any) EventHandler { return event("change", handler) }
func OnSubmit(handler any) EventHandler { return event("submit", handler) }
func OnFocus(handler any) EventHandler  { return event("focus", handler) }
func OnBlur(handler any) EventHandler   { return event("blur", handler) }
func OnReset(handler any) EventHandler  { return event("reset", handler) }

// Clipboard and selection events

func OnCopy(handler any) EventHandler  { return event("copy", handler) }
func OnCut(handler any) EventHandler   { return event("cut", handler) }
func OnPaste(handler any) EventHandler { return event("paste", handler) }

// Drag events

func OnDrag(handler any) EventHandler     { return event("drag", handler) }
func OnDragStart(handler any) EventHandler {
	return event("dragstart", handler)
}
func OnDragEnd(handler any) EventHandler  { return event("dragend", handler) }
func OnDragOver(handler any) EventHandler { return event("dragover", handler) }
func OnDrop(handler any) EventHandler     { return event("drop", handler) }

// Misc events

func OnScroll(handler any) EventHandler { return event("scroll", handler) }
func OnLoad(handler any) EventHandler   { return event("load", handler) }
func OnError(handler any) EventHandler  { return event("error", handler) }
