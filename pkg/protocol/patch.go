package protocol

import "errors"

// ErrInvalidPatchOp reports a patch with an unknown operation byte.
var ErrInvalidPatchOp = errors.New("protocol: invalid patch op")

// PatchOp is the type of tree edit shipped to the client.
type PatchOp uint8

const (
	PatchText          PatchOp = 0x01 // Overwrite leaf content
	PatchReplace       PatchOp = 0x02 // Replace the node at a slot (or fill an empty trailing slot)
	PatchRemove        PatchOp = 0x03 // Remove the node at a slot
	PatchSetProp       PatchOp = 0x04 // Set an element property
	PatchRemoveProp    PatchOp = 0x05 // Remove an element property
	PatchSetHandler    PatchOp = 0x06 // Mark an element as listening for an event type
	PatchRemoveHandler PatchOp = 0x07 // Clear an event listener marker
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchText:
		return "Text"
	case PatchReplace:
		return "Replace"
	case PatchRemove:
		return "Remove"
	case PatchSetProp:
		return "SetProp"
	case PatchRemoveProp:
		return "RemoveProp"
	case PatchSetHandler:
		return "SetHandler"
	case PatchRemoveHandler:
		return "RemoveHandler"
	default:
		return "Unknown"
	}
}

// Patch is a single tree edit. Path addresses the slot being edited;
// a Replace whose path points one past the parent's last child fills
// the slot by appending.
type Patch struct {
	Op    PatchOp
	Path  Path
	Key   string    // property name, or event type for handler ops
	Value string    // text content or property value
	Node  *WireNode // replacement subtree for Replace
}

// PatchesFrame is one sequenced batch of patches: the full edit script
// of one render pass, applied atomically by the client.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame using the provided encoder.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	EncodePathTo(e, p.Path)

	switch p.Op {
	case PatchText:
		e.WriteString(p.Value)

	case PatchReplace:
		EncodeWireNode(e, p.Node)

	case PatchRemove:
		// Path is sufficient.

	case PatchSetProp:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case PatchRemoveProp:
		e.WriteString(p.Key)

	case PatchSetHandler, PatchRemoveHandler:
		e.WriteString(p.Key)
	}
}

// DecodePatches decodes a patches frame from bytes.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	return DecodePatchesFrom(d)
}

// DecodePatchesFrom decodes a patches frame from a decoder.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, count)
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &PatchesFrame{
		Seq:     seq,
		Patches: patches,
	}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	p.Path, err = DecodePathFrom(d)
	if err != nil {
		return err
	}

	switch p.Op {
	case PatchText:
		p.Value, err = d.ReadString()

	case PatchReplace:
		p.Node, err = DecodeWireNode(d)

	case PatchRemove:
		// No additional data.

	case PatchSetProp:
		p.Key, err = d.ReadString()
		if err != nil {
			return err
		}
		p.Value, err = d.ReadString()

	case PatchRemoveProp:
		p.Key, err = d.ReadString()

	case PatchSetHandler, PatchRemoveHandler:
		p.Key, err = d.ReadString()

	default:
		// Unknown op: the payload length is unknowable, so this is
		// unrecoverable within the frame.
		return ErrInvalidPatchOp
	}

	return err
}

// NewTextPatch creates a Text patch.
func NewTextPatch(path Path, text string) Patch {
	return Patch{Op: PatchText, Path: path, Value: text}
}

// NewReplacePatch creates a Replace patch.
func NewReplacePatch(path Path, node *WireNode) Patch {
	return Patch{Op: PatchReplace, Path: path, Node: node}
}

// NewRemovePatch creates a Remove patch.
func NewRemovePatch(path Path) Patch {
	return Patch{Op: PatchRemove, Path: path}
}

// NewSetPropPatch creates a SetProp patch.
func NewSetPropPatch(path Path, key, value string) Patch {
	return Patch{Op: PatchSetProp, Path: path, Key: key, Value: value}
}

// NewRemovePropPatch creates a RemoveProp patch.
func NewRemovePropPatch(path Path, key string) Patch {
	return Patch{Op: PatchRemoveProp, Path: path, Key: key}
}

// NewSetHandlerPatch creates a SetHandler patch for an event type.
func NewSetHandlerPatch(path Path, event string) Patch {
	return Patch{Op: PatchSetHandler, Path: path, Key: event}
}

// NewRemoveHandlerPatch creates a RemoveHandler patch for an event
// type.
func NewRemoveHandlerPatch(path Path, event string) Patch {
	return Patch{Op: PatchRemoveHandler, Path: path, Key: event}
}
