// Package speech provides the adapters for the external speech services:
// a one-shot recognition daemon reached over a Unix socket using NDJSON,
// and a local synthesis command.
//
// The daemon protocol: the client writes a command line and, for "start",
// reads one response line. A successful start opens a listening session
// during which the daemon streams event lines until a terminal event
// (result, error, or end). "stop" gets no response line; the daemon ends
// the session with an "end" event.
package speech

// Command is sent from the client to the recognition daemon.
type Command struct {
	Cmd             string `json:"cmd"`
	Language        string `json:"language,omitempty"`
	InterimResults  *bool  `json:"interimResults,omitempty"`
	MaxAlternatives int    `json:"maxAlternatives,omitempty"`
}

// Response is returned by the daemon after a start command.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Event is streamed from the daemon during a listening session.
type Event struct {
	Event   string `json:"event"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// Events emitted by the daemon. All three end the listening session.
const (
	EventResult = "result"
	EventError  = "error"
	EventEnd    = "end"
)

// BoolPtr returns a pointer to a bool value. Convenience for building commands.
func BoolPtr(b bool) *bool { return &b }
