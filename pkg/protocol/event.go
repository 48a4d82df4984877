package protocol

import "errors"

// EventType identifies the type of client event.
type EventType uint8

const (
	// Pointer events (0x01-0x04)
	EventClick      EventType = 0x01
	EventDblClick   EventType = 0x02
	EventMouseEnter EventType = 0x03
	EventMouseLeave EventType = 0x04

	// Form events (0x10-0x14)
	EventInput  EventType = 0x10
	EventChange EventType = 0x11
	EventSubmit EventType = 0x12
	EventFocus  EventType = 0x13
	EventBlur   EventType = 0x14

	// Keyboard events (0x20-0x21)
	EventKeyDown EventType = 0x20
	EventKeyUp   EventType = 0x21

	// Custom events (0xFF)
	EventCustom EventType = 0xFF
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	switch et {
	case EventClick:
		return "Click"
	case EventDblClick:
		return "DblClick"
	case EventMouseEnter:
		return "MouseEnter"
	case EventMouseLeave:
		return "MouseLeave"
	case EventInput:
		return "Input"
	case EventChange:
		return "Change"
	case EventSubmit:
		return "Submit"
	case EventFocus:
		return "Focus"
	case EventBlur:
		return "Blur"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// DOMName returns the normalized DOM event type, the form handler
// registrations use: EventClick -> "click".
func (et EventType) DOMName() string {
	switch et {
	case EventClick:
		return "click"
	case EventDblClick:
		return "dblclick"
	case EventMouseEnter:
		return "mouseenter"
	case EventMouseLeave:
		return "mouseleave"
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventSubmit:
		return "submit"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	default:
		return ""
	}
}

// EventTypeFromName maps a normalized DOM event type back to its wire
// constant. Unrecognized names map to EventCustom.
func EventTypeFromName(name string) EventType {
	switch name {
	case "click":
		return EventClick
	case "dblclick":
		return EventDblClick
	case "mouseenter":
		return EventMouseEnter
	case "mouseleave":
		return EventMouseLeave
	case "input":
		return EventInput
	case "change":
		return EventChange
	case "submit":
		return EventSubmit
	case "focus":
		return EventFocus
	case "blur":
		return EventBlur
	case "keydown":
		return EventKeyDown
	case "keyup":
		return EventKeyUp
	default:
		return EventCustom
	}
}

// Modifiers represents keyboard modifier keys.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 0x01
	ModShift Modifiers = 0x02
	ModAlt   Modifiers = 0x04
	ModMeta  Modifiers = 0x08
)

// Has reports whether the given modifier is set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod != 0
}

// KeyboardEventData is the payload of keyboard events.
type KeyboardEventData struct {
	Key       string // logical key ("a", "Enter")
	Code      string // physical key code ("KeyA", "Enter")
	Modifiers Modifiers
	Repeat    bool // key held down (auto-repeat)
}

// SubmitEventData is the payload of form submissions.
type SubmitEventData struct {
	Fields map[string]string
}

// CustomEventData is the payload of application-defined events.
type CustomEventData struct {
	Name string
	Data []byte
}

// Event is one decoded client event. Path addresses the element the
// event originated on; Payload is type-specific (a string for
// Input/Change, a struct pointer for richer events, nil for simple
// ones like Click).
type Event struct {
	Seq     uint64
	Type    EventType
	Path    Path
	Payload any
}

// ErrInvalidEventType reports an event with an unknown type byte.
var ErrInvalidEventType = errors.New("protocol: invalid event type")

// EncodeEvent encodes an event to bytes.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	EncodeEventTo(enc, e)
	return enc.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder.
func EncodeEventTo(enc *Encoder, e *Event) {
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	EncodePathTo(enc, e.Path)

	switch e.Type {
	case EventClick, EventDblClick, EventFocus, EventBlur,
		EventMouseEnter, EventMouseLeave:
		// No payload.

	case EventInput, EventChange:
		if s, ok := e.Payload.(string); ok {
			enc.WriteString(s)
		} else {
			enc.WriteString("")
		}

	case EventSubmit:
		data, ok := e.Payload.(*SubmitEventData)
		if !ok || data == nil {
			enc.WriteUvarint(0)
			return
		}
		enc.WriteUvarint(uint64(len(data.Fields)))
		for k, v := range data.Fields {
			enc.WriteString(k)
			enc.WriteString(v)
		}

	case EventKeyDown, EventKeyUp:
		data, ok := e.Payload.(*KeyboardEventData)
		if !ok || data == nil {
			data = &KeyboardEventData{}
		}
		enc.WriteString(data.Key)
		enc.WriteString(data.Code)
		enc.WriteByte(byte(data.Modifiers))
		enc.WriteBool(data.Repeat)

	case EventCustom:
		data, ok := e.Payload.(*CustomEventData)
		if !ok || data == nil {
			data = &CustomEventData{}
		}
		enc.WriteString(data.Name)
		enc.WriteLenBytes(data.Data)
	}
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	return DecodeEventFrom(d)
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	path, err := DecodePathFrom(d)
	if err != nil {
		return nil, err
	}

	e := &Event{
		Seq:  seq,
		Type: EventType(typeByte),
		Path: path,
	}

	switch e.Type {
	case EventClick, EventDblClick, EventFocus, EventBlur,
		EventMouseEnter, EventMouseLeave:
		// No payload.

	case EventInput, EventChange:
		s, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		e.Payload = s

	case EventSubmit:
		count, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string, count)
		for i := 0; i < count; i++ {
			k, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			v, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			fields[k] = v
		}
		e.Payload = &SubmitEventData{Fields: fields}

	case EventKeyDown, EventKeyUp:
		key, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		code, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		mods, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		repeat, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		e.Payload = &KeyboardEventData{
			Key:       key,
			Code:      code,
			Modifiers: Modifiers(mods),
			Repeat:    repeat,
		}

	case EventCustom:
		name, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		data, err := d.ReadLenBytes()
		if err != nil {
			return nil, err
		}
		e.Payload = &CustomEventData{Name: name, Data: data}

	default:
		return nil, ErrInvalidEventType
	}

	return e, nil
}

// ValueString flattens the payload to the single string the dispatch
// layer forwards to handlers: the input value for Input/Change, the
// logical key for keyboard events, empty otherwise.
func (e *Event) ValueString() string {
	switch p := e.Payload.(type) {
	case string:
		return p
	case *KeyboardEventData:
		return p.Key
	default:
		return ""
	}
}
