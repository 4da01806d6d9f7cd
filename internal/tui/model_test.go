package tui

import (
	"bytes"
	"testing"

	"copilot-term/internal/app"
)

func testWorkspace() *app.Workspace {
	ws := &app.Workspace{
		Config:   &app.Config{},
		Logger:   app.NewLogger(&bytes.Buffer{}),
		Registry: app.NewSessionRegistry(),
		Chat:     app.NewChatStore(),
	}
	ws.Registry.Add(app.Session{ID: "s1", Name: "demo", Mode: app.ModeSuggest})
	return ws
}

func TestModeCommandUpdatesSessionAndNotes(t *testing.T) {
	ws := testWorkspace()
	m := New(ws)

	m.runSlashCommand("s1", "/mode autopilot")

	sess, ok := ws.Registry.Get("s1")
	if !ok || sess.Mode != app.ModeAutopilot {
		t.Fatalf("mode not applied: %+v", sess)
	}
	last, ok := ws.Chat.Last("s1")
	if !ok || last.Role != app.RoleSystem {
		t.Fatalf("expected a system note, got %+v", last)
	}
	if last.ID == "" {
		t.Fatalf("system note has no id")
	}
}

func TestModeCommandRejectsUnknownMode(t *testing.T) {
	ws := testWorkspace()
	m := New(ws)

	m.runSlashCommand("s1", "/mode yolo")

	sess, _ := ws.Registry.Get("s1")
	if sess.Mode != app.ModeSuggest {
		t.Fatalf("mode changed on invalid input: %v", sess.Mode)
	}
	if m.notice == "" {
		t.Fatalf("expected a notice for the unknown mode")
	}
	if _, ok := ws.Chat.Last("s1"); ok {
		t.Fatalf("unexpected transcript entry for rejected mode")
	}
}
