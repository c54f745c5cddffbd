package websocket

import "unicode/utf8"

// validUTF8 strictly decodes b, rejecting overlong encodings and UTF-8
// encoded surrogate code points the same way unicode/utf8.Valid does: both
// are invalid encodings under the decoder's DFA, not merely
// out-of-range runes. Every pack example that validates text payloads
// (the teacher's handleMessage, coregx-stream's message.go) reaches for
// this stdlib function rather than a hand-rolled or third-party decoder,
// since Go's own UTF-8 decoder is already strict and there is no ecosystem
// alternative in the pack.
func validUTF8(b []byte) bool {
	return utf8.Valid(b)
}
