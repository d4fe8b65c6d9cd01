package speech

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
)

// DefaultSocketPath returns the default recognition daemon socket path.
func DefaultSocketPath() string {
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "voxchat", "recognizer.sock")
}

// Recognizer is a client for the speech-recognition daemon. Each Start
// opens a one-shot listening session: a single final result, a single
// alternative, the configured language.
//
// A single reader goroutine owns the socket and dispatches each line to
// the response or event stream, so a Start racing a still-blocked
// ReadEvent (stop-then-restart from the UI) never shares the scanner
// and never mistakes a trailing event line for its start response.
type Recognizer struct {
	conn     net.Conn
	language string

	mu sync.Mutex // guards command writes

	responses chan Response
	events    chan Event
	done      chan struct{}
	readErr   error // set before done is closed
}

// Dial connects to the recognition daemon. A dial failure means the
// capability is absent; callers should leave the mic control inert.
func Dial(socketPath, language string) (*Recognizer, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to recognizer: %w", err)
	}

	r := &Recognizer{
		conn:      conn,
		language:  language,
		responses: make(chan Response, 1),
		events:    make(chan Event, 8),
		done:      make(chan struct{}),
	}
	go r.readLoop()
	return r, nil
}

// readLoop is the sole socket reader. Lines with an event field go to
// the event stream; everything else is a command response.
func (r *Recognizer) readLoop() {
	scanner := bufio.NewScanner(r.conn)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		var probe struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			continue
		}

		if probe.Event != "" {
			var ev Event
			if json.Unmarshal(line, &ev) == nil {
				r.events <- ev
			}
			continue
		}

		var resp Response
		if json.Unmarshal(line, &resp) == nil {
			r.responses <- resp
		}
	}

	r.readErr = scanner.Err()
	close(r.done)
}

// Close shuts down the connection.
func (r *Recognizer) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Start begins a listening session and waits for the daemon to confirm.
// On failure the session never opened and the caller stays idle.
func (r *Recognizer) Start() error {
	cmd := Command{
		Cmd:             "start",
		Language:        r.language,
		InterimResults:  BoolPtr(false),
		MaxAlternatives: 1,
	}
	if err := r.write(cmd); err != nil {
		return err
	}

	select {
	case resp := <-r.responses:
		if !resp.OK {
			if resp.Error != "" {
				return fmt.Errorf("recognizer: %s", resp.Error)
			}
			return fmt.Errorf("recognizer refused to start")
		}
		return nil
	case <-r.done:
		return r.connErr("read response")
	}
}

// Stop asks the daemon to end the current session early. The daemon
// still closes it with an "end" event on the stream.
func (r *Recognizer) Stop() error {
	return r.write(Command{Cmd: "stop"})
}

// ReadEvent returns the next streamed event. Blocks until one arrives.
func (r *Recognizer) ReadEvent() (Event, error) {
	// Drain buffered events before reporting a closed connection.
	select {
	case ev := <-r.events:
		return ev, nil
	default:
	}

	select {
	case ev := <-r.events:
		return ev, nil
	case <-r.done:
		return Event{}, r.connErr("read event")
	}
}

func (r *Recognizer) connErr(op string) error {
	if r.readErr != nil {
		return fmt.Errorf("%s: %w", op, r.readErr)
	}
	return fmt.Errorf("connection closed")
}

func (r *Recognizer) write(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.conn.Write(data); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}
