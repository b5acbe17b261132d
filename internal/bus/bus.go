// Package bus provides the async event bus between the poller, the
// conversation controller and the alert channels.
package bus

import (
	"context"
	"sync"

	"github.com/PaddyGuard/paddyguard/internal/plan"
)

// NotificationEvent is one polling result. Seq is the fetch sequence
// number stamped before the network call, so subscribers can drop
// out-of-order deliveries regardless of arrival order. Exactly one of
// Notification and Err is set.
type NotificationEvent struct {
	Seq          uint64
	Notification *plan.Notification
	Err          error
}

// Alert is a user-facing message pushed to delivery channels when the
// monitor sees a new actionable plan.
type Alert struct {
	Title          string
	Body           string
	ConversationID plan.ConversationID
}

// EventBus decouples the poller from its consumers.
type EventBus struct {
	notifications chan NotificationEvent
	alerts        chan Alert
	notifSubs     []func(NotificationEvent)
	alertSubs     []func(Alert)
	mu            sync.RWMutex
}

// New creates an EventBus.
func New() *EventBus {
	return &EventBus{
		notifications: make(chan NotificationEvent, 16),
		alerts:        make(chan Alert, 16),
	}
}

// PublishNotification hands a polling result to subscribers.
func (b *EventBus) PublishNotification(ev NotificationEvent) {
	b.notifications <- ev
}

// PublishAlert hands an alert to the delivery channels.
func (b *EventBus) PublishAlert(a Alert) {
	b.alerts <- a
}

// SubscribeNotifications registers a callback for polling results.
func (b *EventBus) SubscribeNotifications(fn func(NotificationEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifSubs = append(b.notifSubs, fn)
}

// SubscribeAlerts registers a callback for alerts.
func (b *EventBus) SubscribeAlerts(fn func(Alert)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alertSubs = append(b.alertSubs, fn)
}

// Dispatch runs the dispatcher until the context is cancelled. Events are
// delivered to subscribers in receipt order on this single goroutine, so
// each callback applies as one atomic transition.
func (b *EventBus) Dispatch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-b.notifications:
			b.mu.RLock()
			subs := b.notifSubs
			b.mu.RUnlock()
			for _, fn := range subs {
				fn(ev)
			}
		case a := <-b.alerts:
			b.mu.RLock()
			subs := b.alertSubs
			b.mu.RUnlock()
			for _, fn := range subs {
				fn(a)
			}
		}
	}
}

// Pending returns the number of queued, undispatched notification events.
func (b *EventBus) Pending() int {
	return len(b.notifications)
}
