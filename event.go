package websocket

// EventType identifies which kind of message is being delivered to a
// Handler.
type EventType int

const (
	EventText EventType = iota
	EventBinary
	EventPing
	EventPong
	EventClose
)

func (e EventType) String() string {
	switch e {
	case EventText:
		return "text"
	case EventBinary:
		return "binary"
	case EventPing:
		return "ping"
	case EventPong:
		return "pong"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// CloseInfo is the payload delivered with an EventClose callback.
// StatusCode is nil when the connection ended without a close code (a
// transport error, or an abnormal close).
type CloseInfo struct {
	StatusCode *CloseCode
	Message    string
}

// Handler is invoked once per delivered message. Its return value is
// ignored. It is called exactly once with EventClose, last.
//
//   - EventText:   payload is a string, already validated as UTF-8.
//   - EventBinary: payload is a []byte.
//   - EventPing:   payload is a []byte (the ping payload, already echoed as a pong).
//   - EventPong:   payload is a []byte.
//   - EventClose:  payload is a CloseInfo.
type Handler func(evt EventType, payload interface{}, c *Client)
