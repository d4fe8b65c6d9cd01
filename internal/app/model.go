package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"voxchat/internal/chat"
	"voxchat/internal/speech"
	"voxchat/internal/transcript"

	tea "github.com/charmbracelet/bubbletea"
)

// networkErrorText is appended as the assistant entry when the request
// failed before a reply was obtained.
const networkErrorText = "Network error. Please try again."

// Sender posts one user message and returns the assistant reply.
type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

// Speaker voices assistant replies aloud.
type Speaker interface {
	Speak(text string)
}

// Listener is a one-shot speech-recognition session source. A nil
// Listener means the capability is absent and the mic control is inert.
type Listener interface {
	Start() error
	Stop() error
	ReadEvent() (speech.Event, error)
}

// Store persists the conversation across runs.
type Store interface {
	Append(role transcript.Role, text string) error
	LoadAll() []transcript.Entry
}

// Publisher mirrors new entries to watchers outside the TUI.
type Publisher interface {
	Publish(e transcript.Entry)
}

// Deps are the collaborators the model drives. Sender is required;
// everything else degrades gracefully when nil.
type Deps struct {
	Sender    Sender
	Speaker   Speaker
	Listener  Listener
	Store     Store
	Publisher Publisher
	Endpoint  string
	Logger    *slog.Logger
}

// Model is the root bubbletea model for the voxchat TUI.
type Model struct {
	sender    Sender
	speaker   Speaker
	listener  Listener
	store     Store
	publisher Publisher
	endpoint  string
	log       *slog.Logger

	// Conversation
	entries []transcript.Entry
	input   []rune

	// Request/recognition lifecycle
	sending   bool
	listening bool

	// UI state
	width  int
	height int
	scroll int
	live   bool

	errorMessage   string
	errorTransient bool
	statusText     string
}

// New creates a Model and replays the persisted conversation.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := Model{
		sender:     deps.Sender,
		speaker:    deps.Speaker,
		listener:   deps.Listener,
		store:      deps.Store,
		publisher:  deps.Publisher,
		endpoint:   deps.Endpoint,
		log:        logger,
		live:       true,
		statusText: "Ready",
	}
	if m.store != nil {
		m.entries = m.store.LoadAll()
	}
	return m
}

// Init implements tea.Model. Everything is wired up before the program
// starts, so there is no initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// sendCmd issues the chat request and classifies the outcome.
func sendCmd(sender Sender, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := sender.Send(context.Background(), text)
		if err != nil {
			var serverErr *chat.ServerError
			if errors.As(err, &serverErr) {
				return ServerErrorMsg{Message: serverErr.Message}
			}
			return NetworkErrorMsg{Err: err}
		}
		return ReplyMsg{Text: reply}
	}
}

// startListeningCmd opens a one-shot recognition session.
func startListeningCmd(listener Listener) tea.Cmd {
	return func() tea.Msg {
		if err := listener.Start(); err != nil {
			return ListenFailedMsg{Err: err}
		}
		return ListenStartedMsg{}
	}
}

// stopListeningCmd asks the recognizer to end the session early.
func stopListeningCmd(listener Listener) tea.Cmd {
	return func() tea.Msg {
		if err := listener.Stop(); err != nil {
			return RecognitionErrorMsg{Err: err}
		}
		return nil
	}
}

// readEventCmd reads the next recognizer event.
func readEventCmd(listener Listener) tea.Cmd {
	return func() tea.Msg {
		ev, err := listener.ReadEvent()
		if err != nil {
			return RecognitionErrorMsg{Err: err}
		}
		return RecognitionEventMsg{Event: ev}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ReplyMsg:
		m.appendEntry(transcript.RoleAssistant, msg.Text)
		if m.speaker != nil {
			m.speaker.Speak(msg.Text)
		}
		m.sending = false
		m.statusText = "Ready"
		return m, nil

	case ServerErrorMsg:
		m.appendEntry(transcript.RoleAssistant, "Error: "+msg.Message)
		m.sending = false
		m.statusText = "Ready"
		return m, nil

	case NetworkErrorMsg:
		m.log.Error("chat request failed", "err", msg.Err)
		m.appendEntry(transcript.RoleAssistant, networkErrorText)
		m.sending = false
		m.statusText = "Ready"
		return m, nil

	case ListenStartedMsg:
		m.listening = true
		m.statusText = "Listening..."
		return m, readEventCmd(m.listener)

	case ListenFailedMsg:
		m.log.Warn("could not start listening", "err", msg.Err)
		m.errorMessage = "Speech recognition failed to start"
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case RecognitionEventMsg:
		return m.handleRecognitionEvent(msg.Event)

	case RecognitionErrorMsg:
		if msg.Err != nil {
			m.log.Warn("recognizer stream error", "err", msg.Err)
		}
		m.resetListening()
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleRecognitionEvent applies one daemon event. Result, error, and
// end all converge to the same idle state; only a non-terminal event
// keeps the session reading.
func (m Model) handleRecognitionEvent(ev speech.Event) (tea.Model, tea.Cmd) {
	switch ev.Event {
	case speech.EventResult:
		// Fill the input buffer; the user still submits explicitly.
		m.input = []rune(ev.Text)
		m.resetListening()

	case speech.EventError:
		m.log.Warn("recognition error", "message", ev.Message)
		m.resetListening()

	case speech.EventEnd:
		m.resetListening()

	default:
		if m.listening {
			return m, readEventCmd(m.listener)
		}
	}
	return m, nil
}

func (m *Model) resetListening() {
	m.listening = false
	if !m.sending {
		m.statusText = "Ready"
	}
}

// appendEntry adds an entry to the conversation, persists it, and
// mirrors it to any publisher.
func (m *Model) appendEntry(role transcript.Role, text string) {
	entry := transcript.Entry{Role: role, Text: text}
	m.entries = append(m.entries, entry)

	if m.store != nil {
		if err := m.store.Append(role, text); err != nil {
			m.log.Error("persist entry", "err", err)
		}
	}
	if m.publisher != nil {
		m.publisher.Publish(entry)
	}
	if m.live {
		m.scroll = m.maxScroll()
	}
}

// submit drives one request cycle. Empty or whitespace-only input is a
// no-op, and a submit while a request is in flight is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	text := strings.TrimSpace(string(m.input))
	if text == "" {
		return m, nil
	}

	m.appendEntry(transcript.RoleUser, text)
	m.input = nil
	m.sending = true
	m.statusText = "Sending..."
	return m, sendCmd(m.sender, text)
}

// toggleMic starts or stops a listening session.
func (m Model) toggleMic() (tea.Model, tea.Cmd) {
	if m.listener == nil {
		return m, nil
	}
	if m.listening {
		m.resetListening()
		return m, stopListeningCmd(m.listener)
	}
	return m, startListeningCmd(m.listener)
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyCtrlC, KeyQuit:
		return m, tea.Quit

	case KeySubmit:
		return m.submit()

	case KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil

	case KeyClearInput:
		m.input = nil
		return m, nil

	case KeyMicToggle:
		return m.toggleMic()

	case KeyUp:
		// Nothing to scroll back to when the transcript fits the panel;
		// stay live so the badge does not flip for no reason.
		if m.maxScroll() > 0 {
			m.live = false
			if m.scroll > 0 {
				m.scroll--
			}
		}
		return m, nil

	case KeyDown:
		maxScroll := m.maxScroll()
		m.scroll++
		if m.scroll >= maxScroll {
			m.scroll = maxScroll
			m.live = true
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	}
	return m, nil
}
