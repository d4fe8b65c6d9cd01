package app

import (
	"strings"
	"unicode/utf8"

	"voxchat/internal/transcript"
	"voxchat/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderConversation())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	}

	sections = append(sections, m.renderInputLine())
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("VOXCHAT")
	if m.endpoint != "" {
		return title + ui.DimStyle.Render(" "+m.endpoint)
	}
	return title
}

func (m Model) renderStatusBar() string {
	var dot string
	if m.listening {
		dot = ui.ListeningDotStyle.Render("● LISTENING")
	} else {
		dot = ui.IdleDotStyle.Render("○ IDLE")
	}

	var sending string
	if m.sending {
		sending = "  " + ui.SendingStyle.Render("⟳ sending")
	}

	return dot + sending
}

func (m Model) renderConversation() string {
	height := m.conversationHeight()

	var badge string
	if m.live {
		badge = ui.LiveBadgeStyle.Render(" LIVE")
	} else {
		badge = ui.ScrollBadgeStyle.Render(" SCROLL")
	}

	lines := []string{ui.TitleStyle.Render("CONVERSATION") + badge}
	contentHeight := height - 1

	if len(m.entries) == 0 {
		lines = append(lines, "")
		lines = append(lines, ui.DimStyle.Render("  Type a message or press Tab to speak."))
		if m.listener == nil {
			lines = append(lines, ui.DimStyle.Render("  Speech input unavailable."))
		}
	} else {
		displayLines := m.conversationLines()

		start := 0
		if m.live {
			if len(displayLines) > contentHeight {
				start = len(displayLines) - contentHeight
			}
		} else {
			start = m.scroll
		}
		if start < 0 {
			start = 0
		}

		end := start + contentHeight
		if end > len(displayLines) {
			end = len(displayLines)
		}

		for i := start; i < end; i++ {
			lines = append(lines, "  "+displayLines[i])
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// conversationLines builds the wrapped, role-labelled display lines.
func (m Model) conversationLines() []string {
	// Prefix: "[you] " / "[bot] " = 6 chars
	const prefixWidth = 6
	textWidth := max(10, m.wrapWidth()-prefixWidth-2)
	indent := strings.Repeat(" ", prefixWidth)

	var displayLines []string
	for _, e := range m.entries {
		var label string
		if e.Role == transcript.RoleUser {
			label = ui.UserLabelStyle.Render("[you] ")
		} else {
			label = ui.AssistantLabelStyle.Render("[bot] ")
		}

		wrapped := wrapText(sanitizeText(e.Text), textWidth)
		displayLines = append(displayLines, label+wrapped[0])
		for _, wl := range wrapped[1:] {
			displayLines = append(displayLines, indent+wl)
		}
	}
	return displayLines
}

func (m Model) renderErrorBar() string {
	return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.errorMessage)
}

func (m Model) renderInputLine() string {
	prompt := ui.PromptStyle.Render("> ")
	if len(m.input) == 0 {
		return prompt + ui.DimStyle.Render("Type a message or press Tab to speak...")
	}
	return prompt + sanitizeText(string(m.input)) + "▌"
}

func (m Model) renderFooter() string {
	var parts []string

	if m.sending {
		parts = append(parts, ui.DimStyle.Render("Sending..."))
	} else {
		parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Send"))
	}

	if m.listener == nil {
		parts = append(parts, ui.DimStyle.Render("Speech input unavailable"))
	} else if m.listening {
		parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Stop"))
	} else {
		parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Speak"))
	}

	parts = append(parts, ui.FooterKeyStyle.Render("↑↓")+ui.FooterDescStyle.Render(" Scroll"))
	parts = append(parts, ui.FooterKeyStyle.Render("Ctrl+U")+ui.FooterDescStyle.Render(" Clear"))
	parts = append(parts, ui.FooterKeyStyle.Render("Esc")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

func (m Model) conversationHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + dividers(2) + error(1) + input(1) + footer(1) + padding
	reserved := 8
	return max(5, m.height-reserved)
}

func (m Model) wrapWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

func (m Model) maxScroll() int {
	total := len(m.conversationLines())
	visible := m.conversationHeight() - 1
	if total <= visible {
		return 0
	}
	return total - visible
}

// Helpers

// sanitizeText strips terminal control characters so remote text cannot
// inject escape sequences into the rendering.
func sanitizeText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f):
			return -1
		}
		return r
	}, s)
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		before := len(lines)
		for _, word := range strings.Fields(paragraph) {
			// Tokens wider than the panel (long URLs, hashes) get
			// hard-split; greedy wrapping alone would overflow them.
			for utf8.RuneCountInString(word) > width {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				r := []rune(word)
				lines = append(lines, string(r[:width]))
				word = string(r[width:])
			}
			if word == "" {
				continue
			}
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else if len(lines) == before {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
