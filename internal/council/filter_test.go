package council

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup is a static ParticipantLookup for filter tests.
type fakeLookup struct {
	byName map[string]string
	keys   map[string]struct{}
}

func (l *fakeLookup) KeyByDisplayName(name string) (string, bool) {
	key, ok := l.byName[name]
	return key, ok
}

func (l *fakeLookup) HasKey(key string) bool {
	_, ok := l.keys[key]
	return ok
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		byName: map[string]string{
			"GPT-5.2":                "openai",
			"Gemini-3-Flash-Preview": "gemini",
		},
		keys: map[string]struct{}{
			"openai": {},
			"gemini": {},
		},
	}
}

func TestFilter_ForParticipant_Isolation(t *testing.T) {
	f := &Filter{SelfID: "BOT123", Lookup: newFakeLookup()}

	snap := Snapshot{
		ThreadID: "t1",
		Messages: []Message{
			{Origin: OriginUser, Content: "What's AI?"},
			{Origin: OriginParticipant, AuthorKey: "openai", Content: "Response from GPT"},
			{Origin: OriginParticipant, AuthorKey: "gemini", Content: "Response from Gemini"},
			{Origin: OriginUser, Content: "Follow-up question"},
		},
	}

	view := f.ForParticipant(snap, "openai")
	require.Len(t, view, 3)
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "What's AI?"}, view[0])
	assert.Equal(t, ChatMessage{Role: RoleAssistant, Content: "Response from GPT"}, view[1])
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "Follow-up question"}, view[2])

	// The isolation invariant: no assistant entry authored by anyone else.
	for _, entry := range f.ForParticipant(snap, "gemini") {
		if entry.Role == RoleAssistant {
			assert.Equal(t, "Response from Gemini", entry.Content)
		}
	}
}

func TestFilter_ForParticipant_OrderPreserved(t *testing.T) {
	f := &Filter{Lookup: newFakeLookup()}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "one"},
		{Origin: OriginParticipant, AuthorKey: "openai", Content: "two"},
		{Origin: OriginUser, Content: "three"},
		{Origin: OriginParticipant, AuthorKey: "openai", Content: "four"},
	}}

	view := f.ForParticipant(snap, "openai")
	require.Len(t, view, 4)
	for i, want := range []string{"one", "two", "three", "four"} {
		assert.Equal(t, want, view[i].Content)
	}
}

func TestFilter_ForParticipant_DisplayNameFallback(t *testing.T) {
	f := &Filter{Lookup: newFakeLookup()}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "Q"},
		// Older history: no explicit tag, display name only.
		{Origin: OriginParticipant, AuthorName: "GPT-5.2", Content: "A1"},
		{Origin: OriginParticipant, AuthorName: "Somebody-Else", Content: "noise"},
	}}

	view := f.ForParticipant(snap, "openai")
	require.Len(t, view, 2)
	assert.Equal(t, RoleAssistant, view[1].Role)
	assert.Equal(t, "A1", view[1].Content)
}

func TestFilter_ForParticipant_LeadingMentionStripped(t *testing.T) {
	f := &Filter{SelfID: "BOT123"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading mention stripped", "<@BOT123> hello", "hello"},
		{"mid-text mention preserved", "ask <@BOT123> about this", "ask <@BOT123> about this"},
		{"foreign mention preserved", "<@U999> hello", "<@U999> hello"},
		{"no mention", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Messages: []Message{{Origin: OriginUser, Content: tt.in}}}
			view := f.ForParticipant(snap, "openai")
			require.Len(t, view, 1)
			assert.Equal(t, tt.want, view[0].Content)
		})
	}
}

func TestFilter_ForParticipant_AnyMentionStrippedWithoutSelfID(t *testing.T) {
	f := &Filter{}

	snap := Snapshot{Messages: []Message{{Origin: OriginUser, Content: "<@X> hello"}}}
	view := f.ForParticipant(snap, "alpha")
	require.Len(t, view, 1)
	assert.Equal(t, "hello", view[0].Content)
}

func TestFilter_ForParticipant_TargetedVisibility(t *testing.T) {
	f := &Filter{Lookup: newFakeLookup()}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "Q"},
		{Origin: OriginUser, Content: "only for gpt", VisibilityTarget: "openai"},
	}}

	gptView := f.ForParticipant(snap, "openai")
	require.Len(t, gptView, 2)
	assert.Equal(t, ChatMessage{Role: RoleUser, Content: "only for gpt"}, gptView[1])

	geminiView := f.ForParticipant(snap, "gemini")
	require.Len(t, geminiView, 1)
	assert.Equal(t, "Q", geminiView[0].Content)
}

func TestFilter_ForParticipant_UnresolvableTargetVisibleToAll(t *testing.T) {
	f := &Filter{Lookup: newFakeLookup()}

	// History recorded before the target participant was deconfigured:
	// the target no longer resolves, so the message stays visible.
	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "old follow-up", VisibilityTarget: "retired"},
	}}

	for _, key := range []string{"openai", "gemini"} {
		view := f.ForParticipant(snap, key)
		require.Len(t, view, 1, "participant %s", key)
		assert.Equal(t, "old follow-up", view[0].Content)
	}
}

func TestFilter_ForParticipant_SkipsEmptyContent(t *testing.T) {
	f := &Filter{}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: ""},
		{Origin: OriginUser, Content: "real"},
	}}

	view := f.ForParticipant(snap, "openai")
	require.Len(t, view, 1)
	assert.Equal(t, "real", view[0].Content)
}

func TestFilter_OriginalQuestion(t *testing.T) {
	f := &Filter{SelfID: "BOT123"}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "<@BOT123> What's the best language?"},
		{Origin: OriginParticipant, AuthorKey: "openai", Content: "Go"},
	}}

	assert.Equal(t, "What's the best language?", f.OriginalQuestion(snap))
	assert.Equal(t, "", f.OriginalQuestion(Snapshot{}))
}

func TestFilter_ParticipatingSet(t *testing.T) {
	f := &Filter{Lookup: newFakeLookup()}

	snap := Snapshot{Messages: []Message{
		{Origin: OriginUser, Content: "Q"},
		{Origin: OriginParticipant, AuthorKey: "openai", Content: "A1"},
		{Origin: OriginParticipant, AuthorName: "Gemini-3-Flash-Preview", Content: "B1"},
		// Unresolvable display name must be excluded, never mapped to a
		// synthetic key.
		{Origin: OriginParticipant, AuthorName: "Mystery-Model", Content: "C1"},
	}}

	set := f.ParticipatingSet(snap)
	assert.Equal(t, map[string]struct{}{"openai": {}, "gemini": {}}, set)
}

// End-to-end scenario: a fresh thread triggered by a mention yields a
// single stripped user entry for any participant.
func TestFilter_FreshThreadScenario(t *testing.T) {
	f := &Filter{SelfID: "BOT"}

	snap := Snapshot{Messages: []Message{{Origin: OriginUser, Content: "<@BOT> hello"}}}
	view := f.ForParticipant(snap, "alpha")
	require.Equal(t, []ChatMessage{{Role: RoleUser, Content: "hello"}}, view)
}
