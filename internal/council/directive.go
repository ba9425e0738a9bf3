package council

import (
	"regexp"
	"strings"
)

// Mode selects the execution strategy for one request.
type Mode string

const (
	// ModeCompare runs all active participants concurrently with
	// mutually isolated context.
	ModeCompare Mode = "compare"
	// ModeDebate runs participants sequentially with assigned
	// argumentative roles.
	ModeDebate Mode = "debate"
)

// ParseMode parses a mode string, defaulting to compare for anything
// unrecognized.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeDebate)) {
		return ModeDebate
	}
	return ModeCompare
}

// Directives are inline request options carried in free text, consumed
// before any participant sees the message.
type Directives struct {
	// Mode is the requested execution mode; HasMode reports whether the
	// text carried an explicit mode directive.
	Mode    Mode
	HasMode bool

	// Models restricts the active participant set to the named display
	// names for this request only. Empty means no restriction.
	Models []string

	// Text is the remaining message text with all directives removed.
	Text string
}

var (
	modeDirective  = regexp.MustCompile(`(?i)(^|\s)mode=(compare|debate)\b`)
	modelDirective = regexp.MustCompile(`(?i)(^|\s)model=(\S+)`)
)

// ParseDirectives extracts inline mode= and model= directives from free
// text. Directives are case-insensitive and removed from the returned
// text; everything else is preserved.
func ParseDirectives(text string) Directives {
	d := Directives{Mode: ModeCompare, Text: text}

	if m := modeDirective.FindStringSubmatch(d.Text); m != nil {
		d.Mode = ParseMode(m[2])
		d.HasMode = true
		d.Text = modeDirective.ReplaceAllString(d.Text, "$1")
	}

	if m := modelDirective.FindStringSubmatch(d.Text); m != nil {
		for _, name := range strings.Split(m[2], ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				d.Models = append(d.Models, name)
			}
		}
		d.Text = modelDirective.ReplaceAllString(d.Text, "$1")
	}

	d.Text = strings.Join(strings.Fields(d.Text), " ")
	return d
}
