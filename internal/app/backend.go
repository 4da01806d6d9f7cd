package app

import (
	"context"
	"errors"
)

var (
	// ErrSessionNotFound means no backend process exists for the id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAgentNotFound means the copilot binary could not be located.
	ErrAgentNotFound = errors.New("copilot binary not found")
)

// Backend is the invocation boundary to the native process layer. A call
// resolving only signals that the backend accepted the write, not that it
// produced output; output arrives through an EventSource subscription.
type Backend interface {
	SendMessage(ctx context.Context, sessionID, message string) error
	SendSlashCommand(ctx context.Context, sessionID, command string) error
	// SessionEvents returns the persisted transcript for the session in
	// backend order.
	SessionEvents(ctx context.Context, sessionID string) ([]Message, error)
}

// EventSource hands out per-session stream event channels. The returned
// cancel func detaches the subscription; it must be idempotent. Events on
// the channel arrive in backend emission order.
type EventSource interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan StreamEvent, func(), error)
}
