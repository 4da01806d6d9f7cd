package app

import "time"

// Session is one conversation bound to a working directory and one
// backend copilot process.
type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WorkingDir string    `json:"working_dir"`
	Model      string    `json:"model,omitempty"`
	Mode       Mode      `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `json:"is_active"`
}

// Message is one turn in a session's transcript. Content is the only
// field mutated after creation, and only while the turn is streaming.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user|assistant|system
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// StreamEvent is a tagged unit pushed from the backend process wrapper.
type StreamEvent struct {
	Type string `json:"type"` // Output|Error|Exit
	Data string `json:"data,omitempty"`
	Code int    `json:"code,omitempty"`
}

const (
	EventOutput = "Output"
	EventError  = "Error"
	EventExit   = "Exit"
)

// AuthStatus reports whether the copilot CLI has a logged-in user.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// AgentStatus describes the installed copilot binary, if any.
type AgentStatus struct {
	Installed bool   `json:"installed"`
	Path      string `json:"path,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ModelInfo is one selectable model in the picker.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
}
