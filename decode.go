package websocket

import (
	"encoding/binary"
	"io"

	"github.com/arwynhale/wsclient/internal/bitcodec"
)

// ReadFrame reads one frame from r. It tolerates short reads on the
// payload (io.ReadFull loops internally) and returns io.EOF or
// io.ErrUnexpectedEOF if the stream ends before length bytes are read.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	bits := bitcodec.BytesToBits(header[:1])
	fin := bits[0]
	rsv := uint8(bitcodec.BitsToNumber(bits[1:4]))
	opcode := Opcode(bitcodec.BitsToNumber(bits[4:8]))

	masked := header[1]&0x80 != 0
	length7 := uint64(header[1] & 0x7F)

	var length uint64
	switch length7 {
	case 126:
		ext := make([]byte, 2)
		if _, err := io.ReadFull(r, ext); err != nil {
			return nil, err
		}
		length = uint64(binary.BigEndian.Uint16(ext))
	case 127:
		ext := make([]byte, 8)
		if _, err := io.ReadFull(r, ext); err != nil {
			return nil, err
		}
		length = binary.BigEndian.Uint64(ext)
		if length&(1<<63) != 0 {
			return nil, newProtocolError(CloseProtocolError, errIllegalLength)
		}
	default:
		length = length7
	}

	var key [4]byte
	if masked {
		if _, err := io.ReadFull(r, key[:]); err != nil {
			return nil, err
		}
	}

	var payload []byte
	if length > 0 {
		payload = make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		if masked {
			maskBytes(payload, key)
		}
	}

	return &Frame{
		Fin:        fin,
		RSV:        rsv,
		Opcode:     opcode,
		Mask:       masked,
		Length:     length,
		MaskingKey: key,
		Payload:    payload,
	}, nil
}
