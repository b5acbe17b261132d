package channels

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/PaddyGuard/paddyguard/internal/bus"
)

// TerminalChannel prints alerts to the monitor's stdout.
type TerminalChannel struct {
	BaseChannel
	out io.Writer
}

// NewTerminalChannel creates a terminal alert channel.
func NewTerminalChannel(messageBus *bus.EventBus) *TerminalChannel {
	return &TerminalChannel{
		BaseChannel: BaseChannel{Bus: messageBus},
		out:         os.Stdout,
	}
}

func (c *TerminalChannel) Name() string { return "terminal" }

func (c *TerminalChannel) Start(ctx context.Context) error {
	c.Bus.SubscribeAlerts(func(a bus.Alert) {
		if err := c.Send(ctx, a); err != nil {
			slog.Warn("Terminal alert failed", "error", err)
		}
	})
	return nil
}

func (c *TerminalChannel) Stop() error { return nil }

func (c *TerminalChannel) Send(_ context.Context, alert bus.Alert) error {
	_, err := fmt.Fprintf(c.out, "%s %s\n%s\n",
		color.YellowString("🔔"),
		color.New(color.Bold).Sprint(alert.Title),
		alert.Body)
	return err
}
