// Package council contains the core domain types and the context-isolation
// logic for multi-participant conversations. A thread is an append-only
// sequence of messages; each generation backend ("participant") receives a
// filtered, role-tagged view of that thread in which it never sees another
// participant's output as assistant content.
package council

import "errors"

// Origin identifies who authored a message.
type Origin string

const (
	// OriginUser is a message written by a human user.
	OriginUser Origin = "user"
	// OriginParticipant is a message produced by a generation backend.
	OriginParticipant Origin = "participant"
)

// Message is one entry in a conversation thread. Messages are immutable
// once created; order is implicit in the snapshot's slice position.
type Message struct {
	// ID is the transport-assigned message identifier.
	ID string `json:"id,omitempty"`

	// Origin says whether a user or a participant authored the message.
	Origin Origin `json:"origin"`

	// AuthorKey is the participant key, set only when Origin is
	// OriginParticipant and the transport recorded an explicit tag.
	AuthorKey string `json:"author_key,omitempty"`

	// AuthorName is the display name as delivered by the transport. Used
	// to resolve authorship when AuthorKey is absent (older history).
	AuthorName string `json:"author_name,omitempty"`

	// Content is the message text. Messages without content are ignored
	// by the filter.
	Content string `json:"content"`

	// VisibilityTarget restricts the message to a single participant's
	// view. Set on targeted follow-up questions; empty otherwise.
	VisibilityTarget string `json:"visibility_target,omitempty"`
}

// Snapshot is an ordered, point-in-time view of a conversation thread.
// It is re-fetched between debate turns so later turns observe output
// committed after the snapshot was taken.
type Snapshot struct {
	ThreadID string    `json:"thread_id"`
	Messages []Message `json:"messages"`
}

// ChatRole is the role tag on a filtered chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a participant's filtered view, in the shape
// generation backends consume. Views are derived per (snapshot, participant)
// and never persisted.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Errors surfaced by council operations.
var (
	// ErrEmptyQuestion rejects a targeted question that is empty after
	// trimming. Raised before any side effect.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNoParticipants means no participant is configured or eligible
	// for an operation. A configuration outcome, not a runtime fault.
	ErrNoParticipants = errors.New("no participants available")

	// ErrNotEnoughParticipants means a debate was requested with fewer
	// than two eligible participants.
	ErrNotEnoughParticipants = errors.New("debate requires at least two participants")
)
