package speech

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
)

// startMockDaemon creates a Unix socket that accepts one connection,
// reads the start command, writes the response, then streams events.
func startMockDaemon(t *testing.T, resp Response, events []Event) (string, func()) {
	t.Helper()

	sockPath := filepath.Join(t.TempDir(), "recognizer.sock")

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4096)
		if _, err := conn.Read(buf); err != nil {
			return
		}

		writeLine := func(v any) {
			data, _ := json.Marshal(v)
			conn.Write(append(data, '\n'))
		}

		writeLine(resp)
		for _, ev := range events {
			writeLine(ev)
		}
	}()

	return sockPath, func() { ln.Close() }
}

func TestStartAndResult(t *testing.T) {
	sockPath, cleanup := startMockDaemon(t, Response{OK: true}, []Event{
		{Event: EventResult, Text: "turn on the lights"},
	})
	defer cleanup()

	rec, err := Dial(sockPath, "en-US")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rec.Close()

	if err := rec.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ev, err := rec.ReadEvent()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Event != EventResult {
		t.Errorf("event = %q, want %q", ev.Event, EventResult)
	}
	if ev.Text != "turn on the lights" {
		t.Errorf("text = %q, want transcript", ev.Text)
	}
}

func TestRecognitionErrorEvent(t *testing.T) {
	sockPath, cleanup := startMockDaemon(t, Response{OK: true}, []Event{
		{Event: EventError, Message: "no-speech"},
	})
	defer cleanup()

	rec, err := Dial(sockPath, "en-US")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rec.Close()

	if err := rec.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	ev, err := rec.ReadEvent()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Event != EventError {
		t.Errorf("event = %q, want %q", ev.Event, EventError)
	}
	if ev.Message != "no-speech" {
		t.Errorf("message = %q, want no-speech", ev.Message)
	}
}

func TestStartRefused(t *testing.T) {
	sockPath, cleanup := startMockDaemon(t, Response{OK: false, Error: "mic busy"}, nil)
	defer cleanup()

	rec, err := Dial(sockPath, "en-US")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rec.Close()

	if err := rec.Start(); err == nil {
		t.Error("expected error when daemon refuses to start")
	}
}

// A stopped session still ends with a trailing "end" event on the
// stream. Restarting while a reader is blocked waiting for it must not
// race the socket or consume the event line as the start response.
func TestRestartWhileEventPending(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "recognizer.sock")

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		writeLine := func(v any) {
			data, _ := json.Marshal(v)
			conn.Write(append(data, '\n'))
		}

		starts := 0
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			var cmd Command
			if json.Unmarshal(sc.Bytes(), &cmd) != nil {
				continue
			}
			switch cmd.Cmd {
			case "start":
				starts++
				writeLine(Response{OK: true})
				if starts == 2 {
					writeLine(Event{Event: EventResult, Text: "second session"})
				}
			case "stop":
				writeLine(Event{Event: EventEnd})
			}
		}
	}()

	rec, err := Dial(sockPath, "en-US")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rec.Close()

	if err := rec.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Block a reader on the stream the way the UI does while listening.
	type readResult struct {
		ev  Event
		err error
	}
	pending := make(chan readResult, 1)
	go func() {
		ev, err := rec.ReadEvent()
		pending <- readResult{ev, err}
	}()

	if err := rec.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := rec.Start(); err != nil {
		t.Fatalf("restart while event pending: %v", err)
	}

	got := <-pending
	if got.err != nil {
		t.Fatalf("pending read: %v", got.err)
	}
	if got.ev.Event != EventEnd {
		t.Errorf("pending event = %q, want %q", got.ev.Event, EventEnd)
	}

	ev, err := rec.ReadEvent()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Event != EventResult || ev.Text != "second session" {
		t.Errorf("event = %+v, want result from second session", ev)
	}
}

func TestDialFailure(t *testing.T) {
	if _, err := Dial("/nonexistent/path/recognizer.sock", "en-US"); err == nil {
		t.Error("expected error connecting to nonexistent socket")
	}
}
