package app

import "strings"

// Mode is the agent autonomy level for a session.
type Mode string

const (
	// ModeSuggest proposes edits but never applies them.
	ModeSuggest Mode = "suggest"
	// ModeAutoEdit applies edits but asks before running tools.
	ModeAutoEdit Mode = "autoedit"
	// ModeAutopilot runs with all tools allowed.
	ModeAutopilot Mode = "autopilot"
)

func ParseMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ModeSuggest):
		return ModeSuggest, true
	case string(ModeAutoEdit):
		return ModeAutoEdit, true
	case string(ModeAutopilot):
		return ModeAutopilot, true
	default:
		return Mode(""), false
	}
}

// AllowsAllTools reports whether the copilot process should be spawned
// with tool execution unrestricted.
func AllowsAllTools(mode Mode) bool {
	return mode == ModeAutopilot
}

func Modes() []Mode {
	return []Mode{ModeSuggest, ModeAutoEdit, ModeAutopilot}
}
