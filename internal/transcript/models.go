// Package transcript owns the conversation log: an append-only sequence of
// user/assistant entries mirrored into SQLite on every append.
package transcript

// Role identifies who produced an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one line of the conversation. Entries are immutable once
// created; ordering is insertion order.
type Entry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
