package proc

import (
	"context"
	"errors"
	"sync"

	"copilot-term/internal/app"
)

const subscriberBuffer = 1024

var errBrokerClosed = errors.New("broker closed")

// Broker fans stream events out to per-session subscribers. Each session
// id is an independent lane: events published to one session are never
// seen by another session's subscribers, and delivery within a lane is in
// publish order.
type Broker struct {
	mu     sync.Mutex
	lanes  map[string]map[int]chan app.StreamEvent
	nextID int
	closed bool

	logger *app.Logger
}

func NewBroker(logger *app.Logger) *Broker {
	return &Broker{
		lanes:  make(map[string]map[int]chan app.StreamEvent),
		logger: logger,
	}
}

// Subscribe attaches a new listener to the session's lane. The returned
// cancel func detaches it and is safe to call more than once.
func (b *Broker) Subscribe(ctx context.Context, sessionID string) (<-chan app.StreamEvent, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, nil, errBrokerClosed
	}

	id := b.nextID
	b.nextID++
	ch := make(chan app.StreamEvent, subscriberBuffer)
	if b.lanes[sessionID] == nil {
		b.lanes[sessionID] = make(map[int]chan app.StreamEvent)
	}
	b.lanes[sessionID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.lanes[sessionID]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
				}
				if len(subs) == 0 {
					delete(b.lanes, sessionID)
				}
			}
		})
	}
	return ch, cancel, nil
}

// Publish delivers the event to every subscriber of the session's lane.
// Sends are non-blocking against a deep buffer; a subscriber that has
// fallen a full buffer behind loses the event rather than stalling the
// process pump.
func (b *Broker) Publish(sessionID string, ev app.StreamEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.lanes[sessionID] {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("dropping stream event for slow subscriber", map[string]interface{}{
				"session_id": sessionID,
				"type":       ev.Type,
			})
		}
	}
}

// CloseSession closes every subscriber channel on the session's lane.
func (b *Broker) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.lanes[sessionID] {
		close(ch)
	}
	delete(b.lanes, sessionID)
}

// Close shuts the broker down; further subscribes fail.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sessionID, subs := range b.lanes {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.lanes, sessionID)
	}
}
