// Package files tracks file changes inside a session's working directory
// so the UI can show what the agent touched.
package files

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"copilot-term/internal/app"
)

// ignoreDirs are path components that never produce change events.
var ignoreDirs = []string{
	"node_modules",
	".git",
	"target",
	"dist",
	"build",
	"__pycache__",
	".DS_Store",
	".next",
	".turbo",
	".cache",
}

type ChangeKind string

const (
	Created  ChangeKind = "created"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
)

// Change is one observed file change, deduplicated by path with the
// latest kind winning.
type Change struct {
	Path      string     `json:"path"`
	Kind      ChangeKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
}

// Watcher runs one recursive fsnotify watch per session working dir.
// fsnotify itself is non-recursive, so subdirectories are walked and
// added individually, including directories created while watching.
type Watcher struct {
	Logger *app.Logger

	mu       sync.Mutex
	sessions map[string]*sessionWatch
}

type sessionWatch struct {
	fsw *fsnotify.Watcher

	mu      sync.Mutex
	changes []Change
}

func NewWatcher(logger *app.Logger) *Watcher {
	return &Watcher{
		Logger:   logger,
		sessions: make(map[string]*sessionWatch),
	}
}

func shouldIgnore(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, ignored := range ignoreDirs {
			if part == ignored {
				return true
			}
		}
	}
	return false
}

// Watch starts watching dir for the session. Watching the same session
// twice replaces the previous watch.
func (w *Watcher) Watch(sessionID, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "watch", Path: dir, Err: fs.ErrInvalid}
	}

	w.Stop(sessionID)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	sw := &sessionWatch{fsw: fsw}

	if err := addRecursive(fsw, dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.mu.Lock()
	w.sessions[sessionID] = sw
	w.mu.Unlock()

	go w.run(sessionID, sw)
	return nil
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, skip
		}
		if !d.IsDir() {
			return nil
		}
		if shouldIgnore(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) run(sessionID string, sw *sessionWatch) {
	for {
		select {
		case ev, ok := <-sw.fsw.Events:
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}

			var kind ChangeKind
			switch {
			case ev.Op.Has(fsnotify.Create):
				kind = Created
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(sw.fsw, ev.Name)
				}
			case ev.Op.Has(fsnotify.Write):
				kind = Modified
			case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
				kind = Deleted
			default:
				continue
			}
			sw.record(Change{Path: ev.Name, Kind: kind, Timestamp: time.Now()})

		case err, ok := <-sw.fsw.Errors:
			if !ok {
				return
			}
			w.Logger.Warn("file watcher error", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
}

func (sw *sessionWatch) record(change Change) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	for i := range sw.changes {
		if sw.changes[i].Path == change.Path {
			sw.changes[i].Kind = change.Kind
			sw.changes[i].Timestamp = change.Timestamp
			return
		}
	}
	sw.changes = append(sw.changes, change)
}

// Changes returns the deduplicated change list for the session, oldest
// first. Unknown sessions yield an empty list.
func (w *Watcher) Changes(sessionID string) []Change {
	w.mu.Lock()
	sw, ok := w.sessions[sessionID]
	w.mu.Unlock()
	if !ok {
		return nil
	}
	sw.mu.Lock()
	defer sw.mu.Unlock()
	out := make([]Change, len(sw.changes))
	copy(out, sw.changes)
	return out
}

// Stop tears down the session's watch. No-op when absent.
func (w *Watcher) Stop(sessionID string) {
	w.mu.Lock()
	sw, ok := w.sessions[sessionID]
	delete(w.sessions, sessionID)
	w.mu.Unlock()
	if ok {
		_ = sw.fsw.Close()
	}
}

// StopAll tears down every watch.
func (w *Watcher) StopAll() {
	w.mu.Lock()
	sws := make([]*sessionWatch, 0, len(w.sessions))
	for id, sw := range w.sessions {
		sws = append(sws, sw)
		delete(w.sessions, id)
	}
	w.mu.Unlock()
	for _, sw := range sws {
		_ = sw.fsw.Close()
	}
}
