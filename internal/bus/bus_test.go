package bus

import (
	"context"
	"testing"
	"time"

	"github.com/PaddyGuard/paddyguard/internal/plan"
)

func TestDispatchDeliversInOrder(t *testing.T) {
	b := New()
	got := make(chan uint64, 8)
	b.SubscribeNotifications(func(ev NotificationEvent) { got <- ev.Seq })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Dispatch(ctx)

	for seq := uint64(1); seq <= 3; seq++ {
		b.PublishNotification(NotificationEvent{Seq: seq})
	}

	for want := uint64(1); want <= 3; want++ {
		select {
		case seq := <-got:
			if seq != want {
				t.Fatalf("seq = %d, want %d", seq, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestDispatchFansOutAlerts(t *testing.T) {
	b := New()
	first := make(chan Alert, 1)
	second := make(chan Alert, 1)
	b.SubscribeAlerts(func(a Alert) { first <- a })
	b.SubscribeAlerts(func(a Alert) { second <- a })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Dispatch(ctx)

	b.PublishAlert(Alert{Title: "Có kế hoạch mới", ConversationID: plan.ConversationID("42")})

	for _, ch := range []chan Alert{first, second} {
		select {
		case a := <-ch:
			if a.Title != "Có kế hoạch mới" || a.ConversationID != "42" {
				t.Fatalf("alert = %+v", a)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for alert")
		}
	}
}

func TestDispatchStopsOnCancel(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Dispatch(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("dispatch err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not stop")
	}
}

func TestPendingCountsQueuedEvents(t *testing.T) {
	b := New()
	b.PublishNotification(NotificationEvent{Seq: 1})
	b.PublishNotification(NotificationEvent{Seq: 2})
	if got := b.Pending(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
}
