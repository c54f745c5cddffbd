package websocket

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/arwynhale/wsclient/internal/handshakeio"
)

const defaultReadBufferSize = 4096
const defaultDialTimeout = 15 * time.Second

// Config carries the options recognized by Open: host, port, and path
// (the request target, including query) identify the server; Handler is
// invoked for each delivered message. DialTimeout and TLSConfig are
// ambient additions (see SPEC_FULL.md §A.3) that do not change framing or
// handshake semantics.
type Config struct {
	Host string
	Port int
	Path string
	// Handler is invoked for each delivered message (§6 callback contract).
	Handler Handler

	// DialTimeout defaults to 15s if zero.
	DialTimeout time.Duration
	// TLSConfig, if non-nil, causes Open to dial over TLS.
	TLSConfig *tls.Config
	// ReadBufferSize sizes the buffered reader used for the frame
	// stream after the handshake completes; defaults to 4096.
	ReadBufferSize int
}

func (cfg *Config) withDefaults() {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = defaultReadBufferSize
	}
}

// Client owns a connection's socket and byte streams, a single-assignment
// result slot recording the close outcome, and the lock that serializes
// every write to the output stream.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader // frame stream only; never used during the handshake
	handler Handler

	sendMu sync.Mutex
	result *resultSlot
}

// Open dials the configured host:port, runs the upgrade handshake
// synchronously, and — on success — spawns the background receive loop
// before returning the handle.
func Open(cfg Config) (*Client, error) {
	cfg.withDefaults()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	var conn net.Conn
	var err error
	if cfg.TLSConfig != nil {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, cfg.TLSConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	if err := runHandshake(conn, cfg.Host, cfg.Port, cfg.Path); err != nil {
		conn.Close()
		return nil, err
	}

	c := &Client{
		conn:    conn,
		reader:  bufio.NewReaderSize(conn, cfg.ReadBufferSize),
		handler: cfg.Handler,
		result:  newResultSlot(),
	}
	go c.receiveLoop()
	return c, nil
}

// runHandshake sends the upgrade request and validates the response,
// never touching conn through anything but the unbuffered line reader —
// the frame stream that follows must see every byte after the blank line.
func runHandshake(conn net.Conn, host string, port int, path string) error {
	key, err := handshakeio.GenerateKey()
	if err != nil {
		return err
	}
	if err := handshakeio.SendRequest(conn, host, port, path, key); err != nil {
		return err
	}
	resp, err := handshakeio.ReadResponse(conn)
	if err != nil {
		return err
	}
	if resp.StatusCode != 101 {
		return &HandshakeError{
			StatusCode: resp.StatusCode,
			StatusText: resp.StatusText,
			Header:     resp.Header,
		}
	}
	return nil
}

// Result returns the close outcome once the connection has terminated,
// blocking until it does.
func (c *Client) Result() Result {
	return c.result.wait()
}

// TryResult returns the close outcome without blocking; ok is false if
// the connection has not yet terminated.
func (c *Client) TryResult() (Result, bool) {
	return c.result.get()
}

// Emit validates that the client has not yet closed, then writes f to the
// wire, masked, under the send lock. It is legal to call Emit from inside
// a Handler invoked by the same client (the receive loop never holds the
// send lock while running the handler).
func (c *Client) Emit(f Frame) error {
	if c.result.fulfilled() {
		return ErrClientClosed
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return WriteFrame(c.conn, f, true)
}

// SendText sends s as a single, unfragmented text frame.
func (c *Client) SendText(s string) error {
	return c.Emit(Frame{Fin: true, Opcode: OpcodeText, Payload: []byte(s)})
}

// SendBinary sends b as a single, unfragmented binary frame.
func (c *Client) SendBinary(b []byte) error {
	return c.Emit(Frame{Fin: true, Opcode: OpcodeBinary, Payload: b})
}

// Ping sends a ping frame carrying payload.
func (c *Client) Ping(payload []byte) error {
	return c.Emit(Frame{Fin: true, Opcode: OpcodePing, Payload: payload})
}

// Close sends a close frame with the given status code and message,
// closes the output stream (which tears down the socket and unblocks the
// background receive loop's read), and fulfills the result slot.
// Subsequent calls are no-ops.
func (c *Client) Close(code CloseCode, message string) error {
	if c.result.fulfilled() {
		return nil
	}
	err := c.writeCloseFrame(closePayload(code, message))
	c.conn.Close()
	c.result.set(Result{StatusCode: &code, Message: message})
	return err
}

// writeCloseFrame writes a close frame carrying payload (which may be
// nil, for an empty close). Used both by Close and by the receive loop's
// echo-and-terminate paths.
func (c *Client) writeCloseFrame(payload []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return WriteFrame(c.conn, Frame{Fin: true, Opcode: OpcodeClose, Payload: payload}, true)
}

func closePayload(code CloseCode, message string) []byte {
	payload := make([]byte, 2, 2+len(message))
	payload[0] = byte(code >> 8)
	payload[1] = byte(code)
	return append(payload, message...)
}
