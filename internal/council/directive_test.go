package council

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"compare", ModeCompare},
		{"debate", ModeDebate},
		{"COMPARE", ModeCompare},
		{"Debate", ModeDebate},
		{" debate ", ModeDebate},
		{"", ModeCompare},
		{"duel", ModeCompare},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseMode(tt.in), "input %q", tt.in)
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		mode    Mode
		hasMode bool
		models  []string
		text    string
	}{
		{
			name: "plain text",
			in:   "what is the best database",
			text: "what is the best database",
		},
		{
			name:    "mode directive",
			in:      "mode=debate should we rewrite in rust",
			mode:    ModeDebate,
			hasMode: true,
			text:    "should we rewrite in rust",
		},
		{
			name:    "mode directive mid-text",
			in:      "should we rewrite mode=compare in rust",
			mode:    ModeCompare,
			hasMode: true,
			text:    "should we rewrite in rust",
		},
		{
			name:   "single model",
			in:     "model=gpt what do you think",
			models: []string{"gpt"},
			text:   "what do you think",
		},
		{
			name:   "comma separated models",
			in:     "model=gpt,gemini,grok pick a side",
			models: []string{"gpt", "gemini", "grok"},
			text:   "pick a side",
		},
		{
			name:    "mode and model together",
			in:      "mode=debate model=gpt,gemini is tabs or spaces better",
			mode:    ModeDebate,
			hasMode: true,
			models:  []string{"gpt", "gemini"},
			text:    "is tabs or spaces better",
		},
		{
			name:    "case insensitive",
			in:      "MODE=Compare Model=GPT hello",
			mode:    ModeCompare,
			hasMode: true,
			models:  []string{"GPT"},
			text:    "hello",
		},
		{
			name: "invalid mode value left in place",
			in:   "mode=duel hello",
			text: "mode=duel hello",
		},
		{
			name: "directive inside a word ignored",
			in:   "the railmode=debate setting",
			text: "the railmode=debate setting",
		},
		{
			name:   "trailing and repeated whitespace collapsed",
			in:     "  model=gpt   what   gives  ",
			models: []string{"gpt"},
			text:   "what gives",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDirectives(tt.in)
			assert.Equal(t, tt.hasMode, d.HasMode)
			if tt.hasMode {
				assert.Equal(t, tt.mode, d.Mode)
			}
			assert.Equal(t, tt.models, d.Models)
			assert.Equal(t, tt.text, d.Text)
		})
	}
}

func TestParseDirectives_EmptyAfterStripping(t *testing.T) {
	d := ParseDirectives("mode=compare")
	require.True(t, d.HasMode)
	assert.Equal(t, "", d.Text)
}
