package protocol

import "testing"

func TestAckRoundTrip(t *testing.T) {
	in, err := DecodeAck(EncodeAck(NewAck(1234, DefaultWindow)))
	if err != nil {
		t.Fatalf("DecodeAck: %v", err)
	}
	if in.LastSeq != 1234 || in.Window != DefaultWindow {
		t.Errorf("ack = %+v", in)
	}
}

func TestAckZeroWindow(t *testing.T) {
	// A zero window tells the server to stop sending.
	in, err := DecodeAck(EncodeAck(NewAck(50, 0)))
	if err != nil {
		t.Fatalf("DecodeAck: %v", err)
	}
	if in.Window != 0 {
		t.Errorf("Window = %d, want 0", in.Window)
	}
}
