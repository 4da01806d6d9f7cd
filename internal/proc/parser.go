// Package proc spawns and supervises one copilot CLI process per session
// and bridges its output into per-session stream events.
package proc

import (
	"regexp"
	"strings"
)

// ansiPattern matches CSI and OSC escape sequences plus stray control
// introducers the copilot CLI emits for cursor movement and styling.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)|\x1b[()][A-Z0-9]`)

// Parser turns raw process output into clean text fragments. Partial
// lines are buffered until a newline arrives, and a trailing escape
// sequence that a read boundary cut in half is held back until the next
// chunk completes it. Flush drains the remainder on stream end.
type Parser struct {
	lineBuffer strings.Builder
	pending    string
}

func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes a raw chunk and returns zero or more completed lines,
// each including its trailing newline so concatenation of fragments
// reproduces the original text.
func (p *Parser) Feed(raw string) []string {
	raw = p.pending + raw
	p.pending = ""
	if i := strings.LastIndexByte(raw, 0x1b); i >= 0 && incompleteEscape(raw[i:]) {
		p.pending = raw[i:]
		raw = raw[:i]
	}

	var out []string
	stripped := StripANSI(raw)
	for _, ch := range stripped {
		switch ch {
		case '\n':
			line := p.lineBuffer.String()
			p.lineBuffer.Reset()
			out = append(out, line+"\n")
		case '\r':
			// CR is repaint noise from the CLI's progress lines.
		default:
			p.lineBuffer.WriteRune(ch)
		}
	}
	return out
}

// Flush returns any buffered partial line. Call when the stream ends.
// An escape sequence still held back waiting for its terminator is
// dropped as repaint noise.
func (p *Parser) Flush() []string {
	p.pending = ""
	if p.lineBuffer.Len() == 0 {
		return nil
	}
	line := p.lineBuffer.String()
	p.lineBuffer.Reset()
	return []string{line}
}

// incompleteEscape reports whether s, which starts with ESC, is a
// prefix of an escape sequence that still needs more bytes. Anything
// that can no longer become a valid sequence is not held back.
func incompleteEscape(s string) bool {
	if len(s) == 1 {
		return true
	}
	switch s[1] {
	case '[':
		for i := 2; i < len(s); i++ {
			c := s[i]
			if (c >= '0' && c <= '9') || c == ';' || c == '?' {
				continue
			}
			return false
		}
		return true
	case ']':
		// s holds the last ESC in the chunk, so an ESC-backslash
		// terminator cannot follow; only BEL can complete it here.
		return !strings.ContainsRune(s, '\x07')
	case '(', ')':
		return len(s) == 2
	default:
		return false
	}
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
