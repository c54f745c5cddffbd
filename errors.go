package websocket

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds named in the framing layer, plus
// the client's closed-state error. The framing ones are wrapped in a
// *ProtocolError before reaching the receive loop's caller, so the close
// status code travels with them. Handshake parse errors are declared in
// internal/handshakeio.
var (
	errUnnegotiatedRSV           = errors.New("websocket: RSV bits must be zero")
	errInvalidOpcode             = errors.New("websocket: invalid opcode")
	errFragmentedControlFrame    = errors.New("websocket: control frame must not be fragmented")
	errLargeControlFrame         = errors.New("websocket: control frame payload exceeds 125 bytes")
	errServerMasked              = errors.New("websocket: received frame must not be masked")
	errInvalidContinuationOpcode = errors.New("websocket: data frame received mid-fragmentation")
	errHeadlessContinuation      = errors.New("websocket: continuation frame with no preceding data frame")
	errIllegalLength             = errors.New("websocket: payload length has the high bit set")
	errInvalidCloseCode          = errors.New("websocket: invalid close code")
	errInvalidClosePayload       = errors.New("websocket: close frame payload has one byte, needs zero or at least two")
	errInvalidUTF8               = errors.New("websocket: payload contains invalid UTF-8")

	// ErrClientClosed is returned by Emit once the client's result slot
	// has been fulfilled; no further sends are accepted.
	ErrClientClosed = errors.New("websocket: client is closed")
)

// ProtocolError is a framing violation that the receive loop
// must report to the peer with a specific close status code before
// terminating the connection. It mirrors SnapWS's FatalError wrapper: a
// typed carrier around a sentinel so callers can recover the code with
// errors.As instead of string matching.
type ProtocolError struct {
	Code CloseCode
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("websocket: protocol error (close code %d): %v", e.Code, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func newProtocolError(code CloseCode, err error) *ProtocolError {
	return &ProtocolError{Code: code, Err: err}
}

// AsProtocolError reports whether err is, or wraps, a *ProtocolError, and
// returns it.
func AsProtocolError(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	ok := errors.As(err, &pe)
	return pe, ok
}

// HandshakeError is returned synchronously by Open when the server's
// response to the upgrade request is not a 101.
type HandshakeError struct {
	StatusCode int
	StatusText string
	Header     map[string]string
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("websocket: handshake failed: %d %s", e.StatusCode, e.StatusText)
}
