package models

import "time"

// Role represents the role of a message participant.
type Role string

const (
	// RoleUser represents a message typed by the user. A message with this role always
	// contains non-blank text, enforced by the session controller before append.
	RoleUser Role = "user"
	// RoleAssistant represents a message produced by the remote answer service, the
	// seeded greeting, or the fallback notice.
	RoleAssistant Role = "assistant"
)

// Message represents an individual entry in the conversation thread. Messages are
// immutable once appended; the session log only ever grows.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}

// ModelOption describes one selectable backend configuration. Label and Hint are
// display metadata only; ReasoningEnabled is forwarded to the answer service and
// selects its extended-reasoning mode.
type ModelOption struct {
	ID               string
	Label            string
	Hint             string
	ReasoningEnabled bool
}

// SessionState is the immutable snapshot the presentation layer renders from. It is
// produced by the session controller after every transition; mutating a snapshot has
// no effect on the session.
type SessionState struct {
	Messages      []Message
	PendingReply  bool
	ActiveModelID string

	// ReasoningEnabled mirrors the active model's catalog value. It is derived, never
	// set independently.
	ReasoningEnabled bool

	// Models is the full catalog, included so the presentation layer can render the
	// selector without reaching into the registry.
	Models []ModelOption
}
