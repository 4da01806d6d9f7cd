package app

import "sync"

// ChatStore owns the per-session message lists, the streaming flag and
// the input draft. It is the single mutation point for transcript state;
// consumers never read-modify-write the lists directly.
//
// The streaming flag is global, not per-session: only one session is
// perceived as streaming at a time and the input area is gated on it.
type ChatStore struct {
	mu        sync.Mutex
	messages  map[string][]Message
	streaming bool
	input     string
}

func NewChatStore() *ChatStore {
	return &ChatStore{messages: make(map[string][]Message)}
}

// Messages returns a copy of the ordered message list for the session.
// Unknown sessions yield an empty slice.
func (s *ChatStore) Messages(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// AddMessage appends to the end of the session's list, creating the list
// if absent. Insertion order is preserved as-is.
func (s *ChatStore) AddMessage(sessionID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], msg)
}

// AppendToLast concatenates fragment onto the content of the session's
// last message, if and only if that message's role is assistant. Anything
// else is a silent no-op; this is how streamed output merges without
// racing placeholder creation.
func (s *ChatStore) AppendToLast(sessionID, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	if len(msgs) == 0 {
		return
	}
	last := &msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		return
	}
	last.Content += fragment
}

// ReplaceMessages overwrites the session's entire list, used when
// hydrating prior history from the backend.
func (s *ChatStore) ReplaceMessages(sessionID string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := make([]Message, len(msgs))
	copy(replaced, msgs)
	s.messages[sessionID] = replaced
}

// ClearMessages removes the session's entry entirely. Other sessions are
// untouched.
func (s *ChatStore) ClearMessages(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, sessionID)
}

// Last returns the session's most recent message.
func (s *ChatStore) Last(sessionID string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[sessionID]
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

func (s *ChatStore) SetStreaming(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = v
}

func (s *ChatStore) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

func (s *ChatStore) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *ChatStore) SetInput(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = v
}
