package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ProcessController starts and stops the per-session backend processes.
// Implemented by the proc package; kept as an interface here so the app
// layer stays free of process details.
type ProcessController interface {
	Start(ctx context.Context, session Session) error
	Stop(sessionID string)
}

// DirWatcher observes a session's working directory. Optional.
type DirWatcher interface {
	Watch(sessionID, dir string) error
	Stop(sessionID string)
}

// Workspace glues the session registry, chat store, dispatcher and
// stream subscriber to the process layer. The TUI and CLI drive session
// lifecycle exclusively through it.
type Workspace struct {
	Config      *Config
	Logger      *Logger
	Registry    *SessionRegistry
	Chat        *ChatStore
	Dispatcher  *Dispatcher
	Subscriber  *Subscriber
	Transcripts TranscriptStore
	Processes   ProcessController
	Watcher     DirWatcher
}

// NewSession creates a fresh session for the working directory, spawns
// its backend process, and makes it the observed/active session.
func (w *Workspace) NewSession(ctx context.Context, workingDir string) (Session, error) {
	abs, err := filepath.Abs(workingDir)
	if err != nil {
		return Session{}, err
	}

	mode, _ := ParseMode(w.Config.DefaultMode)
	model := w.Config.DefaultModel
	if model == "" {
		model = DefaultModel()
	}

	sess := Session{
		ID:         uuid.NewString(),
		Name:       filepath.Base(abs),
		WorkingDir: abs,
		Model:      model,
		Mode:       mode,
		CreatedAt:  time.Now(),
	}

	if err := w.Processes.Start(ctx, sess); err != nil {
		return Session{}, err
	}

	w.Registry.Add(sess)
	if w.Transcripts != nil {
		if err := w.Transcripts.SaveSession(sess); err != nil {
			w.Logger.Warn("persist session", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
	}
	if w.Watcher != nil {
		if err := w.Watcher.Watch(sess.ID, abs); err != nil {
			w.Logger.Warn("watch working dir", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
	}

	// The bridge outlives the startup context; Detach ends it.
	w.Subscriber.Observe(context.Background(), sess.ID)
	return sess, nil
}

// OpenSession resumes a stored session: a new backend process, the
// persisted transcript hydrated into the chat store.
func (w *Workspace) OpenSession(ctx context.Context, sess Session) error {
	if err := w.Processes.Start(ctx, sess); err != nil {
		return err
	}
	w.Registry.Add(sess)
	if w.Watcher != nil {
		if err := w.Watcher.Watch(sess.ID, sess.WorkingDir); err != nil {
			w.Logger.Warn("watch working dir", map[string]interface{}{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
		}
	}
	w.Subscriber.Observe(context.Background(), sess.ID)
	return w.Dispatcher.LoadHistory(ctx, sess.ID)
}

// SwitchSession changes the active session and moves the stream bridge
// over to it.
func (w *Workspace) SwitchSession(ctx context.Context, sessionID string) {
	w.Registry.SetActive(sessionID)
	w.Subscriber.Observe(context.Background(), sessionID)
}

// CloseSession tears the session down: process, watch, stream bridge,
// registry entry. The persisted transcript is kept.
func (w *Workspace) CloseSession(sessionID string) {
	if w.Subscriber.ObservedSession() == sessionID {
		w.Subscriber.Detach()
	}
	w.Processes.Stop(sessionID)
	if w.Watcher != nil {
		w.Watcher.Stop(sessionID)
	}
	w.Registry.Remove(sessionID)
}

// Shutdown detaches the stream bridge and stops every session.
func (w *Workspace) Shutdown() {
	w.Subscriber.Detach()
	for _, sess := range w.Registry.Sessions() {
		w.Processes.Stop(sess.ID)
		if w.Watcher != nil {
			w.Watcher.Stop(sess.ID)
		}
	}
}
