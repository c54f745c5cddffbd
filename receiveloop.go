package websocket

import "encoding/binary"

// receiveLoop is the single long-running background task per Client. It
// owns the input stream exclusively, decodes and validates frames,
// reassembles fragmented messages, runs the close handshake, and
// dispatches to the user Handler in wire order. It terminates by
// fulfilling the result slot and delivering exactly one EventClose, last.
func (c *Client) receiveLoop() {
	var buf reassemblyBuffer
	for {
		f, err := ReadFrame(c.reader)
		if err != nil {
			if pe, ok := AsProtocolError(err); ok {
				c.terminateWithProtocolError(pe)
				return
			}
			c.terminateAbnormal()
			return
		}

		if verr := validateFrame(f, buf.active); verr != nil {
			pe, _ := AsProtocolError(verr)
			c.terminateWithProtocolError(pe)
			return
		}

		switch f.Opcode {
		case OpcodePing:
			c.respondPong(f.Payload)
			c.dispatch(EventPing, cloneBytes(f.Payload))
		case OpcodePong:
			c.dispatch(EventPong, cloneBytes(f.Payload))
		case OpcodeClose:
			c.terminateOnCloseFrame(f)
			return
		default: // continuation, text, or binary
			buf.add(f)
			if f.Fin {
				if derr := c.deliverReassembled(&buf); derr != nil {
					pe, _ := AsProtocolError(derr)
					c.terminateWithProtocolError(pe)
					return
				}
				buf.reset()
			}
		}
	}
}

func (c *Client) dispatch(evt EventType, payload interface{}) {
	if c.handler != nil {
		c.handler(evt, payload, c)
	}
}

// deliverReassembled validates the completed message (UTF-8, if it
// originated as text) and hands it to the Handler.
func (c *Client) deliverReassembled(buf *reassemblyBuffer) error {
	if buf.opcode == OpcodeText {
		if !validUTF8(buf.payload) {
			return newProtocolError(CloseInvalidFramePayload, errInvalidUTF8)
		}
		c.dispatch(EventText, string(buf.payload))
		return nil
	}
	c.dispatch(EventBinary, cloneBytes(buf.payload))
	return nil
}

// respondPong answers a ping with an identical-payload pong before the
// loop moves on to the next frame, guaranteeing a pong precedes the next
// Handler invocation as required by the ordering guarantees. Send errors
// are not fatal here: a broken connection will surface on the next read.
func (c *Client) respondPong(payload []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	WriteFrame(c.conn, Frame{Fin: true, Opcode: OpcodePong, Payload: payload}, true)
}

// terminateWithProtocolError sends a close frame carrying pe.Code and an
// empty reason, tears down the socket, fulfills the result slot, and
// delivers the terminal EventClose.
func (c *Client) terminateWithProtocolError(pe *ProtocolError) {
	c.writeCloseFrame(closePayload(pe.Code, ""))
	c.conn.Close()
	code := pe.Code
	c.result.set(Result{StatusCode: &code, Message: ""})
	c.dispatch(EventClose, CloseInfo{StatusCode: &code, Message: ""})
}

// terminateAbnormal handles EOF or an I/O error reading a frame: the
// connection ends with no close code.
func (c *Client) terminateAbnormal() {
	c.conn.Close()
	c.result.set(Result{StatusCode: nil, Message: ""})
	c.dispatch(EventClose, CloseInfo{StatusCode: nil, Message: ""})
}

// terminateOnCloseFrame implements the receive side of the close
// handshake: parse the peer's close payload, echo its code back with an
// empty reason (or send an empty close frame if the peer sent none), then
// tear down and deliver the result.
func (c *Client) terminateOnCloseFrame(f *Frame) {
	code, message, err := parseClosePayload(f.Payload)
	if err != nil {
		pe, _ := AsProtocolError(err)
		c.terminateWithProtocolError(pe)
		return
	}
	var echo []byte
	if code != nil {
		echo = closePayload(*code, "")
	}
	c.writeCloseFrame(echo)
	c.conn.Close()
	c.result.set(Result{StatusCode: code, Message: message})
	c.dispatch(EventClose, CloseInfo{StatusCode: code, Message: message})
}

// parseClosePayload implements the close status code rules from §3: an
// empty payload carries no code; a one-byte payload is malformed; two or
// more bytes are a big-endian code followed by a UTF-8 reason, both of
// which must be valid.
func parseClosePayload(payload []byte) (*CloseCode, string, error) {
	switch len(payload) {
	case 0:
		return nil, "", nil
	case 1:
		return nil, "", newProtocolError(CloseProtocolError, errInvalidClosePayload)
	}
	code := CloseCode(binary.BigEndian.Uint16(payload[:2]))
	if !code.isValid() {
		return nil, "", newProtocolError(CloseProtocolError, errInvalidCloseCode)
	}
	reason := payload[2:]
	if !validUTF8(reason) {
		return nil, "", newProtocolError(CloseInvalidFramePayload, errInvalidUTF8)
	}
	return &code, string(reason), nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
