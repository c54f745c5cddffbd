package websocket

// validateFrame enforces the per-frame invariants of RFC 6455 framing in
// the context of the current reassembly state. reassembling reports
// whether a text/binary frame with fin=0 has already started a message
// that has not yet been closed by a fin=1 continuation.
func validateFrame(f *Frame, reassembling bool) error {
	switch {
	case f.RSV != 0:
		return newProtocolError(CloseProtocolError, errUnnegotiatedRSV)
	case f.Mask:
		return newProtocolError(CloseProtocolError, errServerMasked)
	case !f.Opcode.isValid():
		return newProtocolError(CloseProtocolError, errInvalidOpcode)
	}

	if f.Opcode.isControl() {
		if !f.Fin {
			return newProtocolError(CloseProtocolError, errFragmentedControlFrame)
		}
		if f.Length > 125 {
			return newProtocolError(CloseProtocolError, errLargeControlFrame)
		}
		return nil
	}

	switch {
	case reassembling && f.Opcode != OpcodeContinuation:
		return newProtocolError(CloseProtocolError, errInvalidContinuationOpcode)
	case !reassembling && f.Opcode == OpcodeContinuation:
		return newProtocolError(CloseProtocolError, errHeadlessContinuation)
	}
	return nil
}
