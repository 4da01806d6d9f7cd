package app

import "sync"

// SessionRegistry holds the ordered session list and the active pointer.
// It performs no I/O; persistence and backend notification belong to the
// callers. Session ids are caller-generated and assumed unique.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions []Session
	activeID string
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{}
}

// Add appends the session and makes it active.
func (r *SessionRegistry) Add(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, s)
	r.activeID = s.ID
}

// Remove deletes the session if present. Removing the active session
// clears the active pointer so no dangling id is left behind.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	removed := false
	for _, s := range r.sessions {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	if removed && r.activeID == id {
		r.activeID = ""
	}
}

// SetActive sets the active pointer unconditionally. Callers are expected
// to pass ids present in the registry.
func (r *SessionRegistry) SetActive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeID = id
}

func (r *SessionRegistry) Rename(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Name = name
			return
		}
	}
}

func (r *SessionRegistry) SetModel(id, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Model = model
			return
		}
	}
}

func (r *SessionRegistry) SetMode(id string, mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Mode = mode
			return
		}
	}
}

// Sessions returns a copy of the ordered session list with IsActive set
// from the active pointer.
func (r *SessionRegistry) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, len(r.sessions))
	for i, s := range r.sessions {
		s.IsActive = s.ID == r.activeID
		out[i] = s
	}
	return out
}

func (r *SessionRegistry) Get(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			s.IsActive = s.ID == r.activeID
			return s, true
		}
	}
	return Session{}, false
}

func (r *SessionRegistry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

func (r *SessionRegistry) Active() (Session, bool) {
	r.mu.Lock()
	id := r.activeID
	r.mu.Unlock()
	if id == "" {
		return Session{}, false
	}
	return r.Get(id)
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
