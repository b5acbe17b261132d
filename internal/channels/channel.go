// Package channels delivers monitor alerts to the outside world.
package channels

import (
	"context"

	"github.com/PaddyGuard/paddyguard/internal/bus"
)

// Channel defines the interface for alert delivery targets (terminal,
// Slack, etc).
type Channel interface {
	// Name returns the channel name (e.g. "slack").
	Name() string
	// Start subscribes the channel to the bus.
	Start(ctx context.Context) error
	// Stop stops the channel.
	Stop() error
	// Send delivers a single alert.
	Send(ctx context.Context, alert bus.Alert) error
}

// BaseChannel provides common functionality for channels.
type BaseChannel struct {
	Bus *bus.EventBus
}
