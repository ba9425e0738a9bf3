package council

import (
	"regexp"
	"strings"
)

// ParticipantLookup resolves transport-level identity to participant keys.
// *participant.Registry satisfies this interface.
type ParticipantLookup interface {
	// KeyByDisplayName maps a display name to a participant key.
	KeyByDisplayName(name string) (string, bool)

	// HasKey reports whether a participant key is registered.
	HasKey(key string) bool
}

// mentionPattern matches a chat-platform mention token such as "<@U12345>".
var mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)>\s*`)

// Filter derives per-participant views of a conversation snapshot.
// Filtering is a pure function of its inputs; a Filter holds no
// per-request state and is safe for concurrent use.
type Filter struct {
	// SelfID is the bot's own mention ID. A leading mention of SelfID is
	// stripped from user messages; when SelfID is empty any leading
	// mention token is stripped.
	SelfID string

	// Lookup resolves display names and keys. May be nil, in which case
	// untagged participant messages and unresolvable visibility targets
	// are treated as unresolved.
	Lookup ParticipantLookup
}

// ForParticipant builds the filtered view of snap for the participant
// identified by key. Rules, applied in snapshot order:
//
//  1. User messages are included with role user, leading self-mention
//     stripped.
//  2. Participant messages are included with role assistant only when
//     authored by the target participant; all other participants' output
//     is dropped entirely. This is the context-isolation guarantee.
//  3. Messages carrying a visibility target are included with role user
//     only for that target. Targets that cannot be resolved to a
//     registered participant are included for everyone (untagged
//     history compatibility).
//  4. Messages without content are skipped.
func (f *Filter) ForParticipant(snap Snapshot, key string) []ChatMessage {
	view := make([]ChatMessage, 0, len(snap.Messages))

	for _, msg := range snap.Messages {
		if msg.Content == "" {
			continue
		}

		switch msg.Origin {
		case OriginParticipant:
			if f.authorKey(msg) == key {
				view = append(view, ChatMessage{Role: RoleAssistant, Content: msg.Content})
			}

		case OriginUser:
			if msg.VisibilityTarget != "" {
				if msg.VisibilityTarget != key && f.targetResolvable(msg.VisibilityTarget) {
					continue
				}
				view = append(view, ChatMessage{Role: RoleUser, Content: msg.Content})
				continue
			}
			view = append(view, ChatMessage{Role: RoleUser, Content: f.stripLeadingMention(msg.Content)})
		}
	}

	return view
}

// OriginalQuestion returns the first user-origin message of the snapshot
// with any leading self-mention stripped, or "" when the thread has no
// user message yet.
func (f *Filter) OriginalQuestion(snap Snapshot) string {
	for _, msg := range snap.Messages {
		if msg.Origin == OriginUser && msg.Content != "" && msg.VisibilityTarget == "" {
			return f.stripLeadingMention(msg.Content)
		}
	}
	return ""
}

// ParticipatingSet returns the distinct participant keys that have already
// produced at least one visible response in the snapshot. An explicit
// author tag is preferred; display-name lookup is the fallback for older
// history. Unresolved display names are excluded, never mapped to a
// synthetic key.
func (f *Filter) ParticipatingSet(snap Snapshot) map[string]struct{} {
	set := make(map[string]struct{})
	for _, msg := range snap.Messages {
		if msg.Origin != OriginParticipant || msg.Content == "" {
			continue
		}
		if key := f.authorKey(msg); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// authorKey resolves the participant key of a participant-origin message,
// preferring the explicit tag over display-name lookup.
func (f *Filter) authorKey(msg Message) string {
	if msg.AuthorKey != "" {
		return msg.AuthorKey
	}
	if msg.AuthorName != "" && f.Lookup != nil {
		if key, ok := f.Lookup.KeyByDisplayName(msg.AuthorName); ok {
			return key
		}
	}
	return ""
}

// targetResolvable reports whether a visibility target names a known
// participant. Unresolvable targets fall back to everyone-visible so old
// threads recorded before tagging keep working.
func (f *Filter) targetResolvable(target string) bool {
	return f.Lookup != nil && f.Lookup.HasKey(target)
}

// stripLeadingMention removes a single leading mention token. Only a
// leading match is stripped; mentions elsewhere in the text are preserved
// verbatim.
func (f *Filter) stripLeadingMention(text string) string {
	m := mentionPattern.FindStringSubmatch(text)
	if m == nil {
		return text
	}
	if f.SelfID != "" && m[1] != f.SelfID {
		return text
	}
	return strings.TrimPrefix(text, m[0])
}
