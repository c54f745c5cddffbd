package websocket

import "crypto/rand"

// maskBytes XORs b in place with a rotating 4-byte key. The operation is
// its own inverse: masking an already-masked payload with the same key
// recovers the original bytes.
func maskBytes(b []byte, key [4]byte) {
	for i := range b {
		b[i] ^= key[i%4]
	}
}

// newMaskingKey draws a fresh 4-byte key for an outgoing frame. RFC 6455
// does not require a cryptographically strong source for the masking key,
// but crypto/rand is cheap at 4 bytes per frame and every pack repo that
// generates random frame material (SnapWS's frame tests, this client's own
// Sec-WebSocket-Key) reaches for a strong source rather than math/rand.
func newMaskingKey() ([4]byte, error) {
	var key [4]byte
	_, err := rand.Read(key[:])
	return key, err
}
