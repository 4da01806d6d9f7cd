package app

import (
	"fmt"
	"testing"
	"time"
)

func transcriptStores(t *testing.T) map[string]TranscriptStore {
	t.Helper()
	sqlite, err := NewSQLiteTranscriptStore(t.TempDir())
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	return map[string]TranscriptStore{
		"file":   NewFileTranscriptStore(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestTranscriptStoreSessionLifecycle(t *testing.T) {
	for name, store := range transcriptStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			sess := Session{
				ID:         "sess-1",
				Name:       "demo",
				WorkingDir: "/src/demo",
				Model:      "claude-sonnet-4.5",
				Mode:       ModeSuggest,
				CreatedAt:  time.Now().Truncate(time.Second),
			}
			if err := store.SaveSession(sess); err != nil {
				t.Fatalf("save: %v", err)
			}

			sessions, err := store.ListSessions()
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(sessions) != 1 {
				t.Fatalf("expected 1 session, got %d", len(sessions))
			}
			got := sessions[0]
			if got.ID != sess.ID || got.Name != sess.Name || got.Model != sess.Model || got.Mode != sess.Mode {
				t.Fatalf("session fields lost: %+v", got)
			}

			if err := store.DeleteSession(sess.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			sessions, err = store.ListSessions()
			if err != nil {
				t.Fatalf("list after delete: %v", err)
			}
			if len(sessions) != 0 {
				t.Fatalf("session not deleted: %+v", sessions)
			}
		})
	}
}

func TestTranscriptStoreMessageOrderSurvivesReload(t *testing.T) {
	for name, store := range transcriptStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			base := time.Now().Truncate(time.Second)
			for i := 0; i < 12; i++ {
				msg := Message{
					ID:        fmt.Sprintf("m-%d", i),
					Role:      RoleUser,
					Content:   fmt.Sprintf("message %d", i),
					Timestamp: base.Add(time.Duration(i) * time.Second),
				}
				if i%2 == 1 {
					msg.Role = RoleAssistant
				}
				if err := store.AppendMessage("sess-1", msg); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
			}

			msgs, err := store.LoadMessages("sess-1")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(msgs) != 12 {
				t.Fatalf("expected 12 messages, got %d", len(msgs))
			}
			for i, msg := range msgs {
				if msg.ID != fmt.Sprintf("m-%d", i) {
					t.Fatalf("position %d holds %s", i, msg.ID)
				}
			}
		})
	}
}

func TestTranscriptStoreClearMessagesScopedToSession(t *testing.T) {
	for name, store := range transcriptStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			if err := store.AppendMessage("a", Message{ID: "m1", Role: RoleUser, Content: "x", Timestamp: time.Now()}); err != nil {
				t.Fatalf("append: %v", err)
			}
			if err := store.AppendMessage("b", Message{ID: "m2", Role: RoleUser, Content: "y", Timestamp: time.Now()}); err != nil {
				t.Fatalf("append: %v", err)
			}

			if err := store.ClearMessages("a"); err != nil {
				t.Fatalf("clear: %v", err)
			}

			msgs, err := store.LoadMessages("a")
			if err != nil {
				t.Fatalf("load a: %v", err)
			}
			if len(msgs) != 0 {
				t.Fatalf("session a not cleared: %+v", msgs)
			}
			msgs, err = store.LoadMessages("b")
			if err != nil {
				t.Fatalf("load b: %v", err)
			}
			if len(msgs) != 1 {
				t.Fatalf("session b lost messages: %+v", msgs)
			}
		})
	}
}

func TestTranscriptStoreLoadUnknownSessionIsEmpty(t *testing.T) {
	for name, store := range transcriptStores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()
			msgs, err := store.LoadMessages("nope")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(msgs) != 0 {
				t.Fatalf("expected empty, got %+v", msgs)
			}
		})
	}
}
