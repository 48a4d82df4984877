package protocol

import "testing"

func TestControlPingPong(t *testing.T) {
	ct, payload := NewPing(1700000000123)
	gotType, gotPayload, err := DecodeControl(EncodeControl(ct, payload))
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	if gotType != ControlPing {
		t.Errorf("type = %v", gotType)
	}
	pp, ok := gotPayload.(*PingPong)
	if !ok || pp.Timestamp != 1700000000123 {
		t.Errorf("payload = %+v", gotPayload)
	}

	ct, payload = NewPong(pp.Timestamp)
	gotType, gotPayload, err = DecodeControl(EncodeControl(ct, payload))
	if err != nil || gotType != ControlPong || gotPayload.(*PingPong).Timestamp != 1700000000123 {
		t.Errorf("pong = %v, %+v, %v", gotType, gotPayload, err)
	}
}

func TestControlResyncRequest(t *testing.T) {
	ct, payload := NewResyncRequest(88)
	gotType, gotPayload, err := DecodeControl(EncodeControl(ct, payload))
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	rr, ok := gotPayload.(*ResyncRequest)
	if gotType != ControlResyncRequest || !ok || rr.LastSeq != 88 {
		t.Errorf("resync request = %v, %+v", gotType, gotPayload)
	}
}

func TestControlResyncPatches(t *testing.T) {
	patches := []Patch{
		NewTextPatch(Path{0}, "replayed"),
		NewRemovePatch(Path{1}),
	}
	ct, payload := NewResyncPatches(10, patches)

	gotType, gotPayload, err := DecodeControl(EncodeControl(ct, payload))
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	rr, ok := gotPayload.(*ResyncResponse)
	if gotType != ControlResyncPatches || !ok {
		t.Fatalf("payload = %v, %+v", gotType, gotPayload)
	}
	if rr.Type != ControlResyncPatches || rr.FromSeq != 10 || len(rr.Patches) != 2 {
		t.Errorf("response = %+v", rr)
	}
	if rr.Patches[0].Value != "replayed" || rr.Patches[1].Op != PatchRemove {
		t.Errorf("patches = %+v", rr.Patches)
	}
}

func TestControlResyncTree(t *testing.T) {
	// When the server has dropped the history the client needs, it
	// ships the whole mount tree instead.
	root := NewElementWire("div", map[string]string{"id": "app"},
		NewTextWire("fresh"))
	ct, payload := NewResyncTree(root, 55)

	gotType, gotPayload, err := DecodeControl(EncodeControl(ct, payload))
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	rr := gotPayload.(*ResyncResponse)
	if gotType != ControlResyncTree || rr.Type != ControlResyncTree || rr.NextSeq != 55 {
		t.Errorf("response = %v, %+v", gotType, rr)
	}
	if rr.Root == nil || rr.Root.Tag != "div" || rr.Root.Children[0].Text != "fresh" {
		t.Errorf("root = %+v", rr.Root)
	}
}

func TestControlClose(t *testing.T) {
	ct, payload := NewClose(CloseServerShutdown, "maintenance")
	gotType, gotPayload, err := DecodeControl(EncodeControl(ct, payload))
	if err != nil {
		t.Fatalf("DecodeControl: %v", err)
	}
	cm, ok := gotPayload.(*CloseMessage)
	if gotType != ControlClose || !ok || cm.Reason != CloseServerShutdown || cm.Message != "maintenance" {
		t.Errorf("close = %v, %+v", gotType, gotPayload)
	}
}

func TestControlUnknownTypeTolerated(t *testing.T) {
	// Unknown control types decode to a nil payload so old servers can
	// skip messages from newer clients.
	ct, payload, err := DecodeControl([]byte{0x77})
	if err != nil || ct != ControlType(0x77) || payload != nil {
		t.Errorf("unknown control = %v, %v, %v", ct, payload, err)
	}
}

func TestControlTypeStrings(t *testing.T) {
	if ControlResyncTree.String() != "ResyncTree" || ControlType(0x66).String() != "Unknown" {
		t.Errorf("ControlType strings wrong")
	}
	if CloseGoingAway.String() != "GoingAway" || CloseReason(0x55).String() != "Unknown" {
		t.Errorf("CloseReason strings wrong")
	}
}
