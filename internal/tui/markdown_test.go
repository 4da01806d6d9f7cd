package tui

import (
	"strings"
	"testing"
)

func TestMarkdownRenderKeepsPlainText(t *testing.T) {
	r := NewMarkdownRenderer()
	out := r.Render("just a sentence", 80)
	if !strings.Contains(out, "just a sentence") {
		t.Fatalf("plain text lost: %q", out)
	}
}

func TestMarkdownRenderStripsHTMLArtifacts(t *testing.T) {
	r := NewMarkdownRenderer()
	out := r.Render("# Title\n\nSome **bold** and `code`.", 80)
	if strings.Contains(out, "<") || strings.Contains(out, ">") {
		t.Fatalf("html leaked into output: %q", out)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestMarkdownRenderListItems(t *testing.T) {
	r := NewMarkdownRenderer()
	out := r.Render("- first\n- second\n", 80)
	if strings.Count(out, "•") != 2 {
		t.Fatalf("expected two bullets: %q", out)
	}
}

func TestMarkdownRenderCodeBlockSurvives(t *testing.T) {
	r := NewMarkdownRenderer()
	out := r.Render("```go\nfmt.Println(\"hi\")\n```", 80)
	if !strings.Contains(out, "Println") {
		t.Fatalf("code content lost: %q", out)
	}
}

func TestDecodeHTMLEntities(t *testing.T) {
	in := "a &amp; b &lt;c&gt; &quot;d&quot; &#39;e&#39;"
	want := `a & b <c> "d" 'e'`
	if got := decodeHTMLEntities(in); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
