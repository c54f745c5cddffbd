package websocket

import (
	"io"

	"github.com/arwynhale/wsclient/internal/bitcodec"
)

type flusher interface {
	Flush() error
}

// WriteFrame serializes f to w. When masked is true a fresh 4-byte key is
// generated and the payload is masked into a new buffer before writing;
// f.Payload itself is left untouched. Client code should always pass
// masked=true; the parameter exists so tests can reproduce the spec's
// literal unmasked wire-format scenarios.
func WriteFrame(w io.Writer, f Frame, masked bool) error {
	payload := f.Payload
	var key [4]byte
	if masked {
		var err error
		key, err = newMaskingKey()
		if err != nil {
			return err
		}
		payload = make([]byte, len(f.Payload))
		copy(payload, f.Payload)
		maskBytes(payload, key)
	}

	finBit := uint64(0)
	if f.Fin {
		finBit = 1
	}
	bits1 := bitcodec.NumberToBits(finBit, 1)
	bits1 = append(bits1, bitcodec.NumberToBits(uint64(f.RSV), 3)...)
	bits1 = append(bits1, bitcodec.NumberToBits(uint64(f.Opcode), 4)...)

	lengthBits, err := bitcodec.PayloadLengthToBits(uint64(len(payload)))
	if err != nil {
		return newProtocolError(CloseProtocolError, err)
	}
	maskFlag := uint64(0)
	if masked {
		maskFlag = 1
	}
	bits2 := bitcodec.NumberToBits(maskFlag, 1)
	bits2 = append(bits2, lengthBits...)

	if _, err := w.Write(bitcodec.BitsToBytes(bits1)); err != nil {
		return err
	}
	if _, err := w.Write(bitcodec.BitsToBytes(bits2)); err != nil {
		return err
	}
	if masked {
		if _, err := w.Write(key[:]); err != nil {
			return err
		}
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	if fl, ok := w.(flusher); ok {
		return fl.Flush()
	}
	return nil
}
