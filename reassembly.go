package websocket

// reassemblyBuffer accumulates the payloads of a fragmented message: a
// text or binary frame with fin=0, followed by zero or more opcode-0
// continuation frames, ending with a fin=1 frame. It is reset to empty
// after each completed message and is never touched by anything but the
// receive loop.
type reassemblyBuffer struct {
	active  bool
	opcode  Opcode
	payload []byte
}

func (b *reassemblyBuffer) add(f *Frame) {
	if !b.active {
		b.opcode = f.Opcode
		b.active = true
	}
	b.payload = append(b.payload, f.Payload...)
}

func (b *reassemblyBuffer) reset() {
	b.active = false
	b.opcode = 0
	b.payload = nil
}
