package app

import (
	"context"
	"sync"
	"sync/atomic"
)

// SubscriptionState is the lifecycle of the stream bridge for one
// observed session.
type SubscriptionState int

const (
	Unsubscribed SubscriptionState = iota
	SettingUp
	Subscribed
)

func (s SubscriptionState) String() string {
	switch s {
	case SettingUp:
		return "setting-up"
	case Subscribed:
		return "subscribed"
	default:
		return "unsubscribed"
	}
}

// Subscriber bridges one session's backend event stream into ChatStore
// mutations. At most one session is observed at a time; switching the
// observed session synchronously detaches the previous stream so a
// recycled subscription can never leak content across sessions.
//
// Setup is asynchronous. A teardown requested while setup is still in
// flight marks the subscription cancelled; the cancellation token is
// checked immediately after setup resolves and forces an immediate
// detach instead of leaving a live listener.
type Subscriber struct {
	Store       *ChatStore
	Source      EventSource
	Transcripts TranscriptStore
	Logger      *Logger

	// Notify, when set, is invoked after every dispatched event. The TUI
	// uses it to wake the render loop.
	Notify func(sessionID string, ev StreamEvent)

	mu       sync.Mutex
	state    SubscriptionState
	current  *subscription
	lastDone chan struct{}
}

type subscription struct {
	sessionID string
	cancelled atomic.Bool
	detach    func() // broker-side cancel, set once setup resolves
	done      chan struct{}
}

func NewSubscriber(store *ChatStore, source EventSource, transcripts TranscriptStore, logger *Logger) *Subscriber {
	return &Subscriber{Store: store, Source: source, Transcripts: transcripts, Logger: logger}
}

// Observe starts bridging the given session's stream, detaching whatever
// was observed before. An empty id is equivalent to Detach.
func (s *Subscriber) Observe(ctx context.Context, sessionID string) {
	s.Detach()
	if sessionID == "" {
		return
	}

	sub := &subscription{sessionID: sessionID, done: make(chan struct{})}

	s.mu.Lock()
	s.current = sub
	s.state = SettingUp
	s.lastDone = sub.done
	s.mu.Unlock()

	go s.run(ctx, sub)
}

func (s *Subscriber) run(ctx context.Context, sub *subscription) {
	defer close(sub.done)
	defer s.leave(sub)

	events, cancel, err := s.Source.Subscribe(ctx, sub.sessionID)
	if err != nil {
		// Recoverable-but-silent degradation: the session simply has no
		// live stream. The dispatcher's per-call failure handling is the
		// only backstop.
		s.Logger.Warn("stream subscribe failed", map[string]interface{}{
			"session_id": sub.sessionID,
			"error":      err.Error(),
		})
		return
	}

	// Teardown may have been requested while setup was in flight.
	if sub.cancelled.Load() {
		cancel()
		return
	}

	s.mu.Lock()
	if s.current == sub {
		s.state = Subscribed
	}
	sub.detach = cancel
	s.mu.Unlock()

	// Re-check: a teardown that raced the publication of detach above
	// would find it nil and never close the stream.
	if sub.cancelled.Load() {
		cancel()
		return
	}

	defer cancel()

	turnOpen := false
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if sub.cancelled.Load() {
				return
			}
			turnOpen = s.dispatch(sub.sessionID, ev, turnOpen)
			if s.Notify != nil {
				s.Notify(sub.sessionID, ev)
			}
		}
	}
}

// dispatch applies one decoded event to the store. Events are applied in
// arrival order; unknown tags are ignored rather than crashing the
// subscription.
func (s *Subscriber) dispatch(sessionID string, ev StreamEvent, turnOpen bool) bool {
	switch ev.Type {
	case EventOutput:
		s.Store.AppendToLast(sessionID, ev.Data)
		return true
	case EventError:
		s.Store.AppendToLast(sessionID, "\n\n*Error: "+ev.Data+"*")
		s.Store.SetStreaming(false)
		s.persistTurn(sessionID, turnOpen)
		return false
	case EventExit:
		s.Store.SetStreaming(false)
		s.persistTurn(sessionID, turnOpen)
		return false
	default:
		return turnOpen
	}
}

// persistTurn records the completed assistant message once per turn.
func (s *Subscriber) persistTurn(sessionID string, turnOpen bool) {
	if !turnOpen || s.Transcripts == nil {
		return
	}
	last, ok := s.Store.Last(sessionID)
	if !ok || last.Role != RoleAssistant || last.Content == "" {
		return
	}
	if err := s.Transcripts.AppendMessage(sessionID, last); err != nil {
		s.Logger.Warn("persist assistant message", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *Subscriber) leave(sub *subscription) {
	s.mu.Lock()
	if s.current == sub {
		s.current = nil
		s.state = Unsubscribed
	}
	s.mu.Unlock()
}

// Detach tears down the current subscription. Safe to call when nothing
// is attached, and safe to call more than once.
func (s *Subscriber) Detach() {
	s.mu.Lock()
	sub := s.current
	s.current = nil
	s.state = Unsubscribed
	s.mu.Unlock()

	if sub == nil {
		return
	}
	sub.cancelled.Store(true)
	s.mu.Lock()
	detach := sub.detach
	s.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// Wait blocks until the most recently started bridge goroutine has
// exited. Test helper semantics: callers normally rely on Detach alone.
func (s *Subscriber) Wait() {
	s.mu.Lock()
	done := s.lastDone
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *Subscriber) State() SubscriptionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ObservedSession returns the id currently being bridged, if any.
func (s *Subscriber) ObservedSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.sessionID
}
