// Package handshakeio implements the client-side HTTP/1.1 upgrade
// handshake (RFC 6455 section 4.1) over a raw net.Conn: sending the fixed
// set of request lines and parsing the status line and headers of the
// response without reading past the blank line that terminates it.
package handshakeio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gbrlsnchs/uuid"
)

// ErrMalformedStatusLine is returned when the response's first line does
// not match the expected "HTTP/x.y <code> <text>" shape.
var ErrMalformedStatusLine = errors.New("handshakeio: malformed status line")

// ErrMalformedHeaderLine is returned when a header line has no colon.
var ErrMalformedHeaderLine = errors.New("handshakeio: malformed header line")

var statusLineRE = regexp.MustCompile(`^HTTP\S+ (\d+) (.*)$`)

// Response is the parsed upgrade response: status line plus headers, with
// header names lower-cased.
type Response struct {
	StatusCode int
	StatusText string
	Header     map[string]string
}

// GenerateKey produces the base64 of 16 random bytes for Sec-WebSocket-Key.
// The RFC does not require a cryptographically strong source; a v4 UUID's
// random bytes are a convenient, already-imported source of 16 of them.
func GenerateKey() (string, error) {
	id, err := uuid.GenerateV4(nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(id[:]), nil
}

// SendRequest writes the upgrade request, byte for byte, in the order
// given by the protocol: request line, Sec-WebSocket-Key, Host, Upgrade,
// Connection, Sec-WebSocket-Version, then a blank line.
func SendRequest(w io.Writer, host string, port int, path, key string) error {
	lines := []string{
		fmt.Sprintf("GET %s HTTP/1.1", path),
		fmt.Sprintf("Sec-WebSocket-Key: %s", key),
		fmt.Sprintf("Host: %s:%d", host, port),
		"Upgrade: websocket",
		"Connection: Upgrade",
		"Sec-WebSocket-Version: 13",
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ReadResponse reads the status line and headers from r using a
// LineReader (never reading ahead of the blank-line terminator), then
// consumes any Content-Length body bytes before returning.
func ReadResponse(r io.Reader) (*Response, error) {
	lr := NewLineReader(r)

	statusLine, err := lr.ReadLine()
	if err != nil {
		return nil, err
	}
	m := statusLineRE.FindStringSubmatch(statusLine)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedStatusLine, statusLine)
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedStatusLine, statusLine)
	}

	resp := &Response{
		StatusCode: code,
		StatusText: m[2],
		Header:     make(map[string]string),
	}
	for {
		line, err := lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeaderLine, line)
		}
		name := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		resp.Header[name] = value
	}

	if cl, ok := resp.Header["content-length"]; ok {
		n, err := strconv.Atoi(cl)
		if err != nil {
			return nil, fmt.Errorf("handshakeio: invalid Content-Length %q: %w", cl, err)
		}
		if n > 0 {
			if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
				return nil, err
			}
		}
	}
	return resp, nil
}
