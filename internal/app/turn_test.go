package app

import (
	"context"
	"testing"
	"time"
)

func waitNotStreaming(t *testing.T, store *ChatStore) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for store.IsStreaming() {
		if time.Now().After(deadline) {
			t.Fatalf("streaming flag never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}

// Full turn: prompt goes out, stream comes back, transcript and flags
// settle.
func TestPromptRoundTrip(t *testing.T) {
	store := NewChatStore()
	backend := &fakeBackend{}
	source := newFakeSource()
	transcripts := newMemTranscripts()
	logger := testLogger()

	d := NewDispatcher(store, backend, transcripts, logger)
	sub := NewSubscriber(store, source, transcripts, logger)

	sub.Observe(context.Background(), "s1")
	st := source.stream(t, "s1")

	d.SendPrompt(context.Background(), "s1", "what does this repo do?")
	if !store.IsStreaming() {
		t.Fatalf("expected streaming after send")
	}

	st.ch <- StreamEvent{Type: EventOutput, Data: "It is a "}
	st.ch <- StreamEvent{Type: EventOutput, Data: "terminal chat client."}
	st.ch <- StreamEvent{Type: EventExit, Code: 0}
	st.end()
	sub.Wait()

	msgs := store.Messages("s1")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "what does this repo do?" {
		t.Fatalf("user turn wrong: %+v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != "It is a terminal chat client." {
		t.Fatalf("assistant turn wrong: %+v", msgs[1])
	}
	if store.IsStreaming() {
		t.Fatalf("streaming flag still set")
	}

	stored := transcripts.stored("s1")
	if len(stored) != 2 {
		t.Fatalf("expected persisted user+assistant, got %d", len(stored))
	}
	if stored[0].Role != RoleUser || stored[1].Role != RoleAssistant {
		t.Fatalf("persisted roles wrong: %+v", stored)
	}
}

// A second prompt on the same subscription reuses the bridge; content
// from the first turn stays intact.
func TestTwoTurnsOnOneSubscription(t *testing.T) {
	store := NewChatStore()
	backend := &fakeBackend{}
	source := newFakeSource()
	logger := testLogger()

	d := NewDispatcher(store, backend, nil, logger)
	sub := NewSubscriber(store, source, nil, logger)

	sub.Observe(context.Background(), "s1")
	st := source.stream(t, "s1")

	d.SendPrompt(context.Background(), "s1", "first")
	st.ch <- StreamEvent{Type: EventOutput, Data: "one"}
	st.ch <- StreamEvent{Type: EventExit}

	// The input area is gated on the streaming flag; respect that here
	// or the second placeholder could swallow the first turn's output.
	waitNotStreaming(t, store)

	d.SendPrompt(context.Background(), "s1", "second")
	st.ch <- StreamEvent{Type: EventOutput, Data: "two"}
	st.ch <- StreamEvent{Type: EventExit}
	st.end()
	sub.Wait()

	msgs := store.Messages("s1")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "one" || msgs[3].Content != "two" {
		t.Fatalf("turn contents wrong: %q %q", msgs[1].Content, msgs[3].Content)
	}
}
