package speech

import (
	"context"
	"os/exec"
	"sync"
)

// engineCandidates are probed in order when no TTS command is configured.
var engineCandidates = []string{"say", "espeak", "spd-say"}

// LookupEngine probes for a usable local TTS command and returns its
// path. ok is false when no engine is installed.
func LookupEngine() (path string, ok bool) {
	for _, name := range engineCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}

// Synthesizer speaks text through a local TTS command. At most one
// utterance is audible at a time; a new Speak preempts the previous one.
// With an empty engine path the synthesizer is inert and Speak is a
// no-op.
type Synthesizer struct {
	engine string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSynthesizer returns a synthesizer using the given engine path.
func NewSynthesizer(engine string) *Synthesizer {
	return &Synthesizer{engine: engine}
}

// Available reports whether a speech engine was found.
func (s *Synthesizer) Available() bool {
	return s.engine != ""
}

// Speak cancels any in-flight utterance, then speaks text with the
// engine's default voice. The utterance runs in the background.
func (s *Synthesizer) Speak(text string) {
	if s.engine == "" || text == "" {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	cmd := exec.CommandContext(ctx, s.engine, text)
	go func() {
		defer cancel()
		_ = cmd.Run()
	}()
}

// Stop silences the current utterance, if any.
func (s *Synthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
