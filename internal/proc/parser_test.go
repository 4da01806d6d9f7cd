package proc

import (
	"strings"
	"testing"
)

func TestParserFeedBuffersPartialLines(t *testing.T) {
	p := NewParser()

	if lines := p.Feed("Hello, "); len(lines) != 0 {
		t.Fatalf("partial line flushed early: %v", lines)
	}
	lines := p.Feed("world\nsecond")
	if len(lines) != 1 || lines[0] != "Hello, world\n" {
		t.Fatalf("got %v", lines)
	}
	lines = p.Feed(" half\n")
	if len(lines) != 1 || lines[0] != "second half\n" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserConcatenationReproducesText(t *testing.T) {
	p := NewParser()
	var out strings.Builder
	for _, chunk := range []string{"alpha\nbe", "ta\nga", "mma"} {
		for _, line := range p.Feed(chunk) {
			out.WriteString(line)
		}
	}
	for _, line := range p.Flush() {
		out.WriteString(line)
	}
	if out.String() != "alpha\nbeta\ngamma" {
		t.Fatalf("got %q", out.String())
	}
}

func TestParserStripsEscapeSequences(t *testing.T) {
	p := NewParser()
	lines := p.Feed("\x1b[32mgreen\x1b[0m text\n")
	if len(lines) != 1 || lines[0] != "green text\n" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserDropsCarriageReturns(t *testing.T) {
	p := NewParser()
	lines := p.Feed("progress 10%\rprogress 99%\ndone\n")
	if len(lines) != 2 {
		t.Fatalf("got %v", lines)
	}
	if lines[0] != "progress 10%progress 99%\n" || lines[1] != "done\n" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserFlushEmptyReturnsNothing(t *testing.T) {
	p := NewParser()
	if lines := p.Flush(); lines != nil {
		t.Fatalf("got %v", lines)
	}
	p.Feed("complete\n")
	if lines := p.Flush(); lines != nil {
		t.Fatalf("flush after complete line returned %v", lines)
	}
}

func TestStripANSI(t *testing.T) {
	cases := map[string]string{
		"plain":                        "plain",
		"\x1b[1;31mbold red\x1b[0m":    "bold red",
		"\x1b]0;title\x07body":         "body",
		"\x1b[2J\x1b[Hcleared":         "cleared",
		"\x1b(Bcharset":                "charset",
		"mixed \x1b[33myellow\x1b[39m": "mixed yellow",
	}
	for in, want := range cases {
		if got := StripANSI(in); got != want {
			t.Fatalf("StripANSI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParserHoldsEscapeSplitAcrossReads(t *testing.T) {
	p := NewParser()
	if lines := p.Feed("\x1b[3"); len(lines) != 0 {
		t.Fatalf("flushed while escape incomplete: %v", lines)
	}
	lines := p.Feed("2mgreen\x1b[0m\n")
	if len(lines) != 1 || lines[0] != "green\n" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserHoldsSplitTitleSequence(t *testing.T) {
	p := NewParser()
	if lines := p.Feed("ready\n\x1b]0;cop"); len(lines) != 1 || lines[0] != "ready\n" {
		t.Fatalf("got %v", lines)
	}
	lines := p.Feed("ilot\x07done\n")
	if len(lines) != 1 || lines[0] != "done\n" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserFlushDropsDanglingEscape(t *testing.T) {
	p := NewParser()
	if lines := p.Feed("tail\x1b[9"); len(lines) != 0 {
		t.Fatalf("got %v", lines)
	}
	lines := p.Flush()
	if len(lines) != 1 || lines[0] != "tail" {
		t.Fatalf("got %v", lines)
	}
}

func TestParserPassesNonEscapeControl(t *testing.T) {
	p := NewParser()
	lines := p.Feed("\x1bQodd\n")
	if len(lines) != 1 || lines[0] != "\x1bQodd\n" {
		t.Fatalf("got %v", lines)
	}
}
