package app

import "testing"

func newTestSession(id, name string) Session {
	return Session{ID: id, Name: name, WorkingDir: "/tmp/" + id, Model: "claude-sonnet-4.5", Mode: ModeSuggest}
}

func TestRegistryAddActivatesNewSession(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))
	r.Add(newTestSession("s2", "two"))

	if r.ActiveID() != "s2" {
		t.Fatalf("expected s2 active, got %s", r.ActiveID())
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
}

func TestRegistryRemoveActiveClearsActive(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))
	r.Add(newTestSession("s2", "two"))

	r.Remove("s2")
	if r.ActiveID() != "" {
		t.Fatalf("expected no active session, got %s", r.ActiveID())
	}
	if _, ok := r.Get("s2"); ok {
		t.Fatalf("removed session still present")
	}
	if _, ok := r.Get("s1"); !ok {
		t.Fatalf("unrelated session was removed")
	}
}

func TestRegistryRemoveInactiveKeepsActive(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))
	r.Add(newTestSession("s2", "two"))

	r.Remove("s1")
	if r.ActiveID() != "s2" {
		t.Fatalf("active changed unexpectedly: %s", r.ActiveID())
	}
}

func TestRegistrySetActiveAcceptsAnyID(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))

	r.SetActive("ghost")
	if r.ActiveID() != "ghost" {
		t.Fatalf("expected ghost active, got %s", r.ActiveID())
	}
	if _, ok := r.Active(); ok {
		t.Fatalf("Active should not resolve an unregistered id")
	}
}

func TestRegistryFieldUpdates(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))

	r.Rename("s1", "renamed")
	r.SetModel("s1", "gpt-5")
	r.SetMode("s1", ModeAutopilot)

	sess, ok := r.Get("s1")
	if !ok {
		t.Fatalf("session missing")
	}
	if sess.Name != "renamed" || sess.Model != "gpt-5" || sess.Mode != ModeAutopilot {
		t.Fatalf("updates not applied: %+v", sess)
	}
}

func TestRegistryUpdatesOnMissingIDAreNoOps(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))

	r.Rename("ghost", "x")
	r.SetModel("ghost", "x")
	r.SetMode("ghost", ModeAutoEdit)

	if r.Len() != 1 {
		t.Fatalf("phantom session created")
	}
	sess, _ := r.Get("s1")
	if sess.Name != "one" {
		t.Fatalf("wrong session updated: %+v", sess)
	}
}

func TestRegistrySessionsMarksActive(t *testing.T) {
	r := NewSessionRegistry()
	r.Add(newTestSession("s1", "one"))
	r.Add(newTestSession("s2", "two"))
	r.SetActive("s1")

	for _, sess := range r.Sessions() {
		if sess.ID == "s1" && !sess.IsActive {
			t.Fatalf("s1 should be marked active")
		}
		if sess.ID == "s2" && sess.IsActive {
			t.Fatalf("s2 should not be marked active")
		}
	}
}
