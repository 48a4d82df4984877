package protocol

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncoderDecoderRoundTrip(t *testing.T) {
	e := NewEncoder()

	e.WriteByte(0x42)
	e.WriteBytes([]byte{0x01, 0x02, 0x03})
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteString("hello world")
	e.WriteLenBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	e.WriteBool(true)
	e.WriteBool(false)
	e.WriteUint16(0x1234)
	e.WriteUint32(0x12345678)
	e.WriteUint64(0x123456789ABCDEF0)
	e.WriteInt16(-1234)
	e.WriteInt32(-12345678)
	e.WriteInt64(-123456789012345)
	e.WriteFloat32(3.14159)
	e.WriteFloat64(2.718281828459045)

	d := NewDecoder(e.Bytes())

	if b, err := d.ReadByte(); err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}
	if bs, err := d.ReadBytes(3); err != nil || string(bs) != "\x01\x02\x03" {
		t.Errorf("ReadBytes(3) = %v, %v", bs, err)
	}
	if uv, err := d.ReadUvarint(); err != nil || uv != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", uv, err)
	}
	if sv, err := d.ReadSvarint(); err != nil || sv != -9876 {
		t.Errorf("ReadSvarint() = %d, %v; want -9876, nil", sv, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v", s, err)
	}
	if lb, err := d.ReadLenBytes(); err != nil || len(lb) != 4 || lb[0] != 0xDE {
		t.Errorf("ReadLenBytes() = %v, %v", lb, err)
	}
	if bt, err := d.ReadBool(); err != nil || !bt {
		t.Errorf("ReadBool() = %v, %v; want true, nil", bt, err)
	}
	if bf, err := d.ReadBool(); err != nil || bf {
		t.Errorf("ReadBool() = %v, %v; want false, nil", bf, err)
	}
	if v, err := d.ReadUint16(); err != nil || v != 0x1234 {
		t.Errorf("ReadUint16() = %x, %v", v, err)
	}
	if v, err := d.ReadUint32(); err != nil || v != 0x12345678 {
		t.Errorf("ReadUint32() = %x, %v", v, err)
	}
	if v, err := d.ReadUint64(); err != nil || v != 0x123456789ABCDEF0 {
		t.Errorf("ReadUint64() = %x, %v", v, err)
	}
	if v, err := d.ReadInt16(); err != nil || v != -1234 {
		t.Errorf("ReadInt16() = %d, %v", v, err)
	}
	if v, err := d.ReadInt32(); err != nil || v != -12345678 {
		t.Errorf("ReadInt32() = %d, %v", v, err)
	}
	if v, err := d.ReadInt64(); err != nil || v != -123456789012345 {
		t.Errorf("ReadInt64() = %d, %v", v, err)
	}
	if v, err := d.ReadFloat32(); err != nil || math.Abs(float64(v)-3.14159) > 0.00001 {
		t.Errorf("ReadFloat32() = %v, %v", v, err)
	}
	if v, err := d.ReadFloat64(); err != nil || math.Abs(v-2.718281828459045) > 1e-12 {
		t.Errorf("ReadFloat64() = %v, %v", v, err)
	}

	if !d.EOF() {
		t.Errorf("expected EOF, %d bytes remaining", d.Remaining())
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoderWithCap(16)
	e.WriteString("first")
	e.Reset()
	e.WriteByte(0x01)

	if e.Len() != 1 {
		t.Errorf("Len after reset = %d, want 1", e.Len())
	}
}

func TestDecoderTruncation(t *testing.T) {
	// A string claiming 10 bytes with only 2 present.
	d := NewDecoder([]byte{0x0A, 'h', 'i'})
	if _, err := d.ReadString(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated string: err = %v, want unexpected EOF", err)
	}

	d = NewDecoder(nil)
	if _, err := d.ReadByte(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("empty ReadByte: err = %v", err)
	}
	if _, err := d.ReadUint32(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("empty ReadUint32: err = %v", err)
	}
}

func TestDecoderVarintOverflow(t *testing.T) {
	// Eleven continuation bytes never terminate a 64-bit varint.
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xFF
	}
	d := NewDecoder(buf)
	if _, err := d.ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestDecoderBoolLeniency(t *testing.T) {
	d := NewDecoder([]byte{0x00, 0x01, 0x7F})
	for i, want := range []bool{false, true, true} {
		got, err := d.ReadBool()
		if err != nil || got != want {
			t.Errorf("bool %d = %v, %v; want %v, nil", i, got, err, want)
		}
	}
}

func TestReadCollectionCountLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxCollectionCount + 1)
	// Pad so the remaining-bytes check is not what trips.
	e.WriteBytes(make([]byte, 64))

	d := NewDecoder(e.Bytes())
	if _, err := d.ReadCollectionCount(); !errors.Is(err, ErrCollectionTooLarge) {
		t.Errorf("err = %v, want ErrCollectionTooLarge", err)
	}

	// A count that cannot fit the remaining bytes is EOF, not an
	// allocation attempt.
	d = NewDecoder([]byte{0x80, 0x08}) // 1024 with 0 bytes after
	if _, err := d.ReadCollectionCount(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want unexpected EOF", err)
	}
}

func TestDecoderSkipAndPosition(t *testing.T) {
	d := NewDecoder([]byte{1, 2, 3, 4})
	if err := d.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if d.Position() != 2 || d.Remaining() != 2 {
		t.Errorf("pos=%d remaining=%d", d.Position(), d.Remaining())
	}
	if err := d.Skip(3); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("over-skip err = %v", err)
	}
}
