package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sendErrorNote = "\n\n*Error sending message.*"

// Dispatcher orchestrates the user-facing send operation: optimistic
// transcript appends, the streaming flag flip, and the forward to the
// backend process.
type Dispatcher struct {
	Store       *ChatStore
	Backend     Backend
	Transcripts TranscriptStore
	Logger      *Logger
}

func NewDispatcher(store *ChatStore, backend Backend, transcripts TranscriptStore, logger *Logger) *Dispatcher {
	return &Dispatcher{Store: store, Backend: backend, Transcripts: transcripts, Logger: logger}
}

// SendPrompt writes the user message and an empty assistant placeholder,
// flips the streaming flag, and forwards the trimmed text. Empty session
// id or blank text is a no-op.
//
// A transport failure is recovered locally: an inline error annotation on
// the placeholder and a cleared streaming flag. No retry.
func (d *Dispatcher) SendPrompt(ctx context.Context, sessionID, text string) {
	trimmed := strings.TrimSpace(text)
	if sessionID == "" || trimmed == "" {
		return
	}

	userMsg := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   trimmed,
		Timestamp: time.Now(),
	}
	d.Store.AddMessage(sessionID, userMsg)

	// Placeholder the stream will grow via AppendToLast.
	d.Store.AddMessage(sessionID, Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	})

	d.Store.SetStreaming(true)

	if d.Transcripts != nil {
		if err := d.Transcripts.AppendMessage(sessionID, userMsg); err != nil {
			d.Logger.Warn("persist user message", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	if err := d.Backend.SendMessage(ctx, sessionID, trimmed); err != nil {
		d.Logger.Error("send message", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		d.Store.AppendToLast(sessionID, sendErrorNote)
		d.Store.SetStreaming(false)
	}
}

// SendSlashCommand forwards a structured command on the same channel as
// prompts. The leading slash is normalized so callers can pass "usage" or
// "/usage" interchangeably. Nothing is appended to the transcript.
func (d *Dispatcher) SendSlashCommand(ctx context.Context, sessionID, command string) error {
	trimmed := strings.TrimSpace(command)
	if sessionID == "" || trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return d.Backend.SendSlashCommand(ctx, sessionID, trimmed)
}

// LoadHistory hydrates the session's transcript from the backend,
// replacing whatever the store currently holds for it. Backend order is
// preserved.
func (d *Dispatcher) LoadHistory(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	msgs, err := d.Backend.SessionEvents(ctx, sessionID)
	if err != nil {
		return err
	}
	d.Store.ReplaceMessages(sessionID, msgs)
	return nil
}
