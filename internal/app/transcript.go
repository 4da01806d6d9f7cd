package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TranscriptStore persists session metadata and finished transcript
// turns. It backs Backend.SessionEvents hydration; the live in-memory
// transcript stays in ChatStore.
//
// Implementations must return messages in append order and must keep
// sessions isolated from each other.
type TranscriptStore interface {
	SaveSession(s Session) error
	ListSessions() ([]Session, error)
	AppendMessage(sessionID string, msg Message) error
	LoadMessages(sessionID string) ([]Message, error)
	ClearMessages(sessionID string) error
	DeleteSession(sessionID string) error
	Close() error
}

// FileTranscriptStore is the JSON-on-disk store.
//
// Layout:
//
//	<root>/session/<sessionID>.json
//	<root>/message/<sessionID>/<seq>-<msgID>.json
//
// Message filenames carry a zero-padded sequence so a lexicographic
// directory listing reproduces append order exactly.
type FileTranscriptStore struct {
	Root string
}

func DefaultStorageRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "copilot-term", "storage")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "copilot-term", "storage")
	}
	return filepath.Join(os.TempDir(), "copilot-term", "storage")
}

func NewFileTranscriptStore(root string) *FileTranscriptStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultStorageRoot()
	}
	return &FileTranscriptStore{Root: root}
}

func (s *FileTranscriptStore) sessionDir() string {
	return filepath.Join(s.Root, "session")
}

func (s *FileTranscriptStore) sessionPath(sessionID string) string {
	return filepath.Join(s.sessionDir(), sessionID+".json")
}

func (s *FileTranscriptStore) messagesDir(sessionID string) string {
	return filepath.Join(s.Root, "message", sessionID)
}

func (s *FileTranscriptStore) SaveSession(sess Session) error {
	if strings.TrimSpace(sess.ID) == "" {
		return errors.New("session id is required")
	}
	if err := os.MkdirAll(s.sessionDir(), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.sessionPath(sess.ID), data, 0o644)
}

func (s *FileTranscriptStore) ListSessions() ([]Session, error) {
	entries, err := os.ReadDir(s.sessionDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sessions := make([]Session, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.sessionDir(), entry.Name()))
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *FileTranscriptStore) AppendMessage(sessionID string, msg Message) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is required")
	}
	dir := s.messagesDir(sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	name := fmt.Sprintf("%08d-%s.json", len(entries), msg.ID)
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

func (s *FileTranscriptStore) LoadMessages(sessionID string) ([]Message, error) {
	dir := s.messagesDir(sessionID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	msgs := make([]Message, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *FileTranscriptStore) ClearMessages(sessionID string) error {
	err := os.RemoveAll(s.messagesDir(sessionID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileTranscriptStore) DeleteSession(sessionID string) error {
	if err := s.ClearMessages(sessionID); err != nil {
		return err
	}
	err := os.Remove(s.sessionPath(sessionID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileTranscriptStore) Close() error { return nil }
