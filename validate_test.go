package websocket

import "testing"

func protoCode(t *testing.T, err error) CloseCode {
	t.Helper()
	pe, ok := AsProtocolError(err)
	if !ok {
		t.Fatalf("error %v is not a *ProtocolError", err)
	}
	return pe.Code
}

func TestValidateFrameRSV(t *testing.T) {
	f := &Frame{Fin: true, Opcode: OpcodeText, RSV: 1}
	err := validateFrame(f, false)
	if err == nil {
		t.Fatal("want error for nonzero RSV")
	}
	if got := protoCode(t, err); got != CloseProtocolError {
		t.Errorf("want %d, got %d", CloseProtocolError, got)
	}
}

func TestValidateFrameServerMasked(t *testing.T) {
	f := &Frame{Fin: true, Opcode: OpcodeText, Mask: true}
	if err := validateFrame(f, false); err == nil {
		t.Fatal("want error for a masked received frame")
	}
}

func TestValidateFrameInvalidOpcode(t *testing.T) {
	f := &Frame{Fin: true, Opcode: Opcode(0x3)}
	if err := validateFrame(f, false); err == nil {
		t.Fatal("want error for an invalid opcode")
	}
}

func TestValidateFrameFragmentedControl(t *testing.T) {
	f := &Frame{Fin: false, Opcode: OpcodePing}
	if err := validateFrame(f, false); err == nil {
		t.Fatal("want error for a fragmented control frame")
	}
}

func TestValidateFrameOversizedControl(t *testing.T) {
	f := &Frame{Fin: true, Opcode: OpcodeClose, Length: 126}
	if err := validateFrame(f, false); err == nil {
		t.Fatal("want error for a control frame payload over 125 bytes")
	}
}

func TestValidateFrameControlDuringReassembly(t *testing.T) {
	f := &Frame{Fin: true, Opcode: OpcodePing}
	if err := validateFrame(f, true); err != nil {
		t.Errorf("control frames are legal mid-fragmentation: %v", err)
	}
}

func TestValidateFrameNewDataFrameMidMessage(t *testing.T) {
	f := &Frame{Fin: false, Opcode: OpcodeText}
	if err := validateFrame(f, true); err == nil {
		t.Fatal("want error for a data frame opcode while already reassembling")
	}
}

func TestValidateFrameHeadlessContinuation(t *testing.T) {
	f := &Frame{Fin: false, Opcode: OpcodeContinuation}
	if err := validateFrame(f, false); err == nil {
		t.Fatal("want error for a continuation with no preceding data frame")
	}
}

func TestValidateFrameOK(t *testing.T) {
	tests := []struct {
		name        string
		f           *Frame
		reassembling bool
	}{
		{"first fragment", &Frame{Fin: false, Opcode: OpcodeText}, false},
		{"continuation fragment", &Frame{Fin: false, Opcode: OpcodeContinuation}, true},
		{"final fragment", &Frame{Fin: true, Opcode: OpcodeContinuation}, true},
		{"unfragmented text", &Frame{Fin: true, Opcode: OpcodeText}, false},
		{"unfragmented binary", &Frame{Fin: true, Opcode: OpcodeBinary}, false},
	}
	for _, tt := range tests {
		if err := validateFrame(tt.f, tt.reassembling); err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}
