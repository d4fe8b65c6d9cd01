package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "esc"
	KeyCtrlC      = "ctrl+c"
	KeySubmit     = "enter"
	KeyBackspace  = "backspace"
	KeyClearInput = "ctrl+u"
	KeyMicToggle  = "tab"
	KeyUp         = "up"
	KeyDown       = "down"
)
