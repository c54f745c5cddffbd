package websocket

import (
	"bytes"
	"io"
	"testing"
)

func TestReadFrameUnmaskedText(t *testing.T) {
	// The "Hello" example from section 8: 81 05 48 65 6C 6C 6F.
	wire := []byte{0x81, 0x05, 'H', 'e', 'l', 'l', 'o'}
	f, err := ReadFrame(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !f.Fin {
		t.Error("want Fin = true")
	}
	if want, got := OpcodeText, f.Opcode; want != got {
		t.Errorf("opcode: want %d, got %d", want, got)
	}
	if f.Mask {
		t.Error("want Mask = false")
	}
	if want, got := "Hello", string(f.Payload); want != got {
		t.Errorf("payload: want %q, got %q", want, got)
	}
}

func TestReadFrameMaskedRoundTrip(t *testing.T) {
	key := [4]byte{0x01, 0x02, 0x03, 0x04}
	payload := []byte("a masked payload")
	masked := make([]byte, len(payload))
	copy(masked, payload)
	maskBytes(masked, key)

	var wire bytes.Buffer
	wire.WriteByte(0x82) // fin=1, opcode=binary
	wire.WriteByte(0x80 | byte(len(masked)))
	wire.Write(key[:])
	wire.Write(masked)

	f, err := ReadFrame(&wire)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if want, got := string(payload), string(f.Payload); want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestReadFrameExtended16(t *testing.T) {
	payload := bytes.Repeat([]byte{'x'}, 300)
	var wire bytes.Buffer
	wire.WriteByte(0x82)
	wire.WriteByte(126)
	wire.WriteByte(0x01) // 300 = 0x012C
	wire.WriteByte(0x2C)
	wire.Write(payload)

	f, err := ReadFrame(&wire)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if want, got := uint64(300), f.Length; want != got {
		t.Errorf("length: want %d, got %d", want, got)
	}
}

func TestReadFrameExtended64RejectsTopBit(t *testing.T) {
	var wire bytes.Buffer
	wire.WriteByte(0x82)
	wire.WriteByte(127)
	wire.Write([]byte{0x80, 0, 0, 0, 0, 0, 0, 0}) // top bit set: illegal

	_, err := ReadFrame(&wire)
	if err == nil {
		t.Fatal("want error for a 64-bit length with the top bit set")
	}
	pe, ok := AsProtocolError(err)
	if !ok {
		t.Fatalf("want *ProtocolError, got %T", err)
	}
	if want, got := CloseProtocolError, pe.Code; want != got {
		t.Errorf("want close code %d, got %d", want, got)
	}
}

func TestReadFrameShortReadReturnsErr(t *testing.T) {
	wire := []byte{0x82, 0x05, 'H', 'i'} // declares 5 bytes, gives 2
	_, err := ReadFrame(bytes.NewReader(wire))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("want io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadFrameEOFOnEmptyStream(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	if err != io.EOF {
		t.Errorf("want io.EOF, got %v", err)
	}
}
