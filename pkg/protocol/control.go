package protocol

// ControlType identifies the type of control message.
type ControlType uint8

const (
	ControlPing          ControlType = 0x01 // client/server ping
	ControlPong          ControlType = 0x02 // response to ping
	ControlResyncRequest ControlType = 0x10 // client requests missed patches
	ControlResyncPatches ControlType = 0x11 // server replays missed patches
	ControlResyncTree    ControlType = 0x12 // server sends a full tree snapshot
	ControlClose         ControlType = 0x20 // session close
)

// String returns the string representation of the control type.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlResyncRequest:
		return "ResyncRequest"
	case ControlResyncPatches:
		return "ResyncPatches"
	case ControlResyncTree:
		return "ResyncTree"
	case ControlClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// CloseReason indicates why a session is being closed.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00
	CloseGoingAway      CloseReason = 0x01
	CloseSessionExpired CloseReason = 0x02
	CloseServerShutdown CloseReason = 0x03
	CloseError          CloseReason = 0x04
)

// String returns the string representation of the close reason.
func (cr CloseReason) String() string {
	switch cr {
	case CloseNormal:
		return "Normal"
	case CloseGoingAway:
		return "GoingAway"
	case CloseSessionExpired:
		return "SessionExpired"
	case CloseServerShutdown:
		return "ServerShutdown"
	case CloseError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PingPong is the payload for Ping and Pong messages.
type PingPong struct {
	Timestamp uint64 // Unix timestamp in milliseconds
}

// ResyncRequest asks the server for patches after LastSeq.
type ResyncRequest struct {
	LastSeq uint64
}

// ResyncResponse carries either missed patches or a full tree
// snapshot, depending on whether the server still holds the history
// the client needs.
type ResyncResponse struct {
	Type    ControlType // ResyncPatches or ResyncTree
	FromSeq uint64      // starting sequence (ResyncPatches)
	Patches []Patch     // missed patches (ResyncPatches)
	Root    *WireNode   // full mount tree (ResyncTree)
	NextSeq uint64      // sequence numbering resumes here (ResyncTree)
}

// CloseMessage is sent when closing a session.
type CloseMessage struct {
	Reason  CloseReason
	Message string
}

// EncodeControl encodes a control message to bytes.
func EncodeControl(ct ControlType, payload any) []byte {
	e := NewEncoder()
	EncodeControlTo(e, ct, payload)
	return e.Bytes()
}

// EncodeControlTo encodes a control message using the provided encoder.
func EncodeControlTo(e *Encoder, ct ControlType, payload any) {
	e.WriteByte(byte(ct))

	switch ct {
	case ControlPing, ControlPong:
		if pp, ok := payload.(*PingPong); ok {
			e.WriteUint64(pp.Timestamp)
		} else {
			e.WriteUint64(0)
		}

	case ControlResyncRequest:
		if rr, ok := payload.(*ResyncRequest); ok {
			e.WriteUvarint(rr.LastSeq)
		} else {
			e.WriteUvarint(0)
		}

	case ControlResyncPatches:
		if rr, ok := payload.(*ResyncResponse); ok {
			e.WriteUvarint(rr.FromSeq)
			e.WriteUvarint(uint64(len(rr.Patches)))
			for i := range rr.Patches {
				encodePatch(e, &rr.Patches[i])
			}
		} else {
			e.WriteUvarint(0)
			e.WriteUvarint(0)
		}

	case ControlResyncTree:
		if rr, ok := payload.(*ResyncResponse); ok {
			e.WriteUvarint(rr.NextSeq)
			EncodeWireNode(e, rr.Root)
		} else {
			e.WriteUvarint(0)
			EncodeWireNode(e, nil)
		}

	case ControlClose:
		if cm, ok := payload.(*CloseMessage); ok {
			e.WriteByte(byte(cm.Reason))
			e.WriteString(cm.Message)
		} else {
			e.WriteByte(byte(CloseNormal))
			e.WriteString("")
		}
	}
}

// DecodeControl decodes a control message from bytes, returning the
// control type and the decoded payload.
func DecodeControl(data []byte) (ControlType, any, error) {
	d := NewDecoder(data)
	return DecodeControlFrom(d)
}

// DecodeControlFrom decodes a control message from a decoder.
func DecodeControlFrom(d *Decoder) (ControlType, any, error) {
	typeByte, err := d.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	ct := ControlType(typeByte)

	switch ct {
	case ControlPing, ControlPong:
		ts, err := d.ReadUint64()
		if err != nil {
			return ct, nil, err
		}
		return ct, &PingPong{Timestamp: ts}, nil

	case ControlResyncRequest:
		lastSeq, err := d.ReadUvarint()
		if err != nil {
			return ct, nil, err
		}
		return ct, &ResyncRequest{LastSeq: lastSeq}, nil

	case ControlResyncPatches:
		fromSeq, err := d.ReadUvarint()
		if err != nil {
			return ct, nil, err
		}
		count, err := d.ReadCollectionCount()
		if err != nil {
			return ct, nil, err
		}
		patches := make([]Patch, count)
		for i := 0; i < count; i++ {
			if err := decodePatch(d, &patches[i]); err != nil {
				return ct, nil, err
			}
		}
		return ct, &ResyncResponse{
			Type:    ControlResyncPatches,
			FromSeq: fromSeq,
			Patches: patches,
		}, nil

	case ControlResyncTree:
		nextSeq, err := d.ReadUvarint()
		if err != nil {
			return ct, nil, err
		}
		root, err := DecodeWireNode(d)
		if err != nil {
			return ct, nil, err
		}
		return ct, &ResyncResponse{
			Type:    ControlResyncTree,
			Root:    root,
			NextSeq: nextSeq,
		}, nil

	case ControlClose:
		reason, err := d.ReadByte()
		if err != nil {
			return ct, nil, err
		}
		message, err := d.ReadString()
		if err != nil {
			return ct, nil, err
		}
		return ct, &CloseMessage{
			Reason:  CloseReason(reason),
			Message: message,
		}, nil

	default:
		return ct, nil, nil
	}
}

// NewPing creates a Ping message.
func NewPing(timestamp uint64) (ControlType, *PingPong) {
	return ControlPing, &PingPong{Timestamp: timestamp}
}

// NewPong creates a Pong message.
func NewPong(timestamp uint64) (ControlType, *PingPong) {
	return ControlPong, &PingPong{Timestamp: timestamp}
}

// NewResyncRequest creates a ResyncRequest message.
func NewResyncRequest(lastSeq uint64) (ControlType, *ResyncRequest) {
	return ControlResyncRequest, &ResyncRequest{LastSeq: lastSeq}
}

// NewResyncPatches creates a ResyncPatches response.
func NewResyncPatches(fromSeq uint64, patches []Patch) (ControlType, *ResyncResponse) {
	return ControlResyncPatches, &ResyncResponse{
		Type:    ControlResyncPatches,
		FromSeq: fromSeq,
		Patches: patches,
	}
}

// NewResyncTree creates a ResyncTree response.
func NewResyncTree(root *WireNode, nextSeq uint64) (ControlType, *ResyncResponse) {
	return ControlResyncTree, &ResyncResponse{
		Type:    ControlResyncTree,
		Root:    root,
		NextSeq: nextSeq,
	}
}

// NewClose creates a Close message.
func NewClose(reason CloseReason, message string) (ControlType, *CloseMessage) {
	return ControlClose, &CloseMessage{Reason: reason, Message: message}
}
