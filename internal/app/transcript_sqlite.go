package app

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

func nsTime(ns int64) time.Time {
	return time.Unix(0, ns)
}

// SQLiteTranscriptStore keeps sessions and messages in a single database
// file under the storage root. Message order is an explicit per-session
// sequence column, not a timestamp sort, so interleavings survive clock
// ties.
type SQLiteTranscriptStore struct {
	Root   string
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

func NewSQLiteTranscriptStore(root string) (*SQLiteTranscriptStore, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultStorageRoot()
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	st := &SQLiteTranscriptStore{
		Root:   root,
		dbPath: filepath.Join(root, "copilot-term.db"),
	}
	if err := st.init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SQLiteTranscriptStore) init() error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		// Keep sqlite responsive under contention.
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA journal_mode = WAL;")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL;")

		schema := []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				working_dir TEXT NOT NULL,
				model TEXT,
				mode TEXT NOT NULL,
				created_at_ns INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at_ns);`,
			`CREATE TABLE IF NOT EXISTS messages (
				session_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				id TEXT NOT NULL,
				role TEXT NOT NULL,
				content TEXT NOT NULL,
				created_at_ns INTEGER NOT NULL,
				PRIMARY KEY (session_id, seq)
			);`,
			`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq);`,
		}
		for _, stmt := range schema {
			if _, err := db.Exec(stmt); err != nil {
				_ = db.Close()
				s.err = err
				return
			}
		}

		s.db = db
	})
	return s.err
}

func (s *SQLiteTranscriptStore) SaveSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, name, working_dir, model, mode, created_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, model=excluded.model, mode=excluded.mode`,
		sess.ID, sess.Name, sess.WorkingDir, sess.Model, string(sess.Mode), sess.CreatedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteTranscriptStore) ListSessions() ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT id, name, working_dir, COALESCE(model, ''), mode, created_at_ns
		 FROM sessions ORDER BY created_at_ns`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var mode string
		var createdNs int64
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.WorkingDir, &sess.Model, &mode, &createdNs); err != nil {
			return nil, err
		}
		sess.Mode = Mode(mode)
		sess.CreatedAt = nsTime(createdNs)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteTranscriptStore) AppendMessage(sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO messages (session_id, seq, id, role, content, created_at_ns)
		 VALUES (?, (SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE session_id = ?), ?, ?, ?, ?)`,
		sessionID, sessionID, msg.ID, msg.Role, msg.Content, msg.Timestamp.UnixNano(),
	)
	return err
}

func (s *SQLiteTranscriptStore) LoadMessages(sessionID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT id, role, content, created_at_ns FROM messages WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var msg Message
		var createdNs int64
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &createdNs); err != nil {
			return nil, err
		}
		msg.Timestamp = nsTime(createdNs)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (s *SQLiteTranscriptStore) ClearMessages(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}

func (s *SQLiteTranscriptStore) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteTranscriptStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
