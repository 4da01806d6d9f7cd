package proc

import (
	"bytes"
	"context"
	"testing"

	"copilot-term/internal/app"
)

func testBroker() *Broker {
	return NewBroker(app.NewLogger(&bytes.Buffer{}))
}

func TestBrokerDeliversInPublishOrder(t *testing.T) {
	b := testBroker()
	ch, cancel, err := b.Subscribe(context.Background(), "s1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	b.Publish("s1", app.StreamEvent{Type: app.EventOutput, Data: "one"})
	b.Publish("s1", app.StreamEvent{Type: app.EventOutput, Data: "two"})
	b.Publish("s1", app.StreamEvent{Type: app.EventExit, Code: 0})

	for _, want := range []string{"one", "two"} {
		ev := <-ch
		if ev.Data != want {
			t.Fatalf("got %q want %q", ev.Data, want)
		}
	}
	if ev := <-ch; ev.Type != app.EventExit {
		t.Fatalf("got %v", ev)
	}
}

func TestBrokerLanesAreIsolated(t *testing.T) {
	b := testBroker()
	ch1, cancel1, _ := b.Subscribe(context.Background(), "s1")
	ch2, cancel2, _ := b.Subscribe(context.Background(), "s2")
	defer cancel1()
	defer cancel2()

	b.Publish("s1", app.StreamEvent{Type: app.EventOutput, Data: "only s1"})

	if ev := <-ch1; ev.Data != "only s1" {
		t.Fatalf("got %q", ev.Data)
	}
	select {
	case ev := <-ch2:
		t.Fatalf("leak across lanes: %v", ev)
	default:
	}
}

func TestBrokerCancelClosesChannelOnce(t *testing.T) {
	b := testBroker()
	ch, cancel, _ := b.Subscribe(context.Background(), "s1")

	cancel()
	cancel() // second call must be a no-op

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}

	// Publishing after cancel must not panic or block.
	b.Publish("s1", app.StreamEvent{Type: app.EventOutput, Data: "late"})
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := testBroker()
	ch, cancel, _ := b.Subscribe(context.Background(), "s1")
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish("s1", app.StreamEvent{Type: app.EventOutput, Data: "x"})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			if drained != subscriberBuffer {
				t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, drained)
			}
			return
		}
	}
}

func TestBrokerCloseSessionEndsSubscribers(t *testing.T) {
	b := testBroker()
	ch, cancel, _ := b.Subscribe(context.Background(), "s1")

	b.CloseSession("s1")
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	cancel() // must not double close
}

func TestBrokerSubscribeAfterCloseFails(t *testing.T) {
	b := testBroker()
	b.Close()
	if _, _, err := b.Subscribe(context.Background(), "s1"); err == nil {
		t.Fatalf("expected error after close")
	}
}

func TestBrokerSubscribeHonorsContext(t *testing.T) {
	b := testBroker()
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()
	if _, _, err := b.Subscribe(ctx, "s1"); err == nil {
		t.Fatalf("expected context error")
	}
}
