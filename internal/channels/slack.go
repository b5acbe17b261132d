package channels

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/PaddyGuard/paddyguard/internal/bus"
	"github.com/PaddyGuard/paddyguard/internal/config"
)

// SlackChannel posts monitor alerts to a Slack channel so a farmer (or
// cooperative operator) hears about new actionable plans without a
// terminal open.
type SlackChannel struct {
	BaseChannel
	config config.SlackAlertConfig
	client *slack.Client
}

// NewSlackChannel creates a Slack alert channel.
func NewSlackChannel(cfg config.SlackAlertConfig, messageBus *bus.EventBus) *SlackChannel {
	return &SlackChannel{
		BaseChannel: BaseChannel{Bus: messageBus},
		config:      cfg,
	}
}

func (c *SlackChannel) Name() string { return "slack" }

func (c *SlackChannel) Start(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}
	if strings.TrimSpace(c.config.Token) == "" || strings.TrimSpace(c.config.Channel) == "" {
		return fmt.Errorf("slack: token and channel are required")
	}
	c.client = slack.New(c.config.Token)
	c.Bus.SubscribeAlerts(func(a bus.Alert) {
		if err := c.Send(ctx, a); err != nil {
			slog.Warn("Slack alert failed", "error", err)
		}
	})
	return nil
}

func (c *SlackChannel) Stop() error { return nil }

func (c *SlackChannel) Send(ctx context.Context, alert bus.Alert) error {
	if c.client == nil {
		return nil
	}
	text := alert.Title
	if strings.TrimSpace(alert.Body) != "" {
		text += "\n" + alert.Body
	}
	if alert.ConversationID != "" {
		text += fmt.Sprintf("\n(phiên %s)", alert.ConversationID)
	}
	_, _, err := c.client.PostMessageContext(ctx, c.config.Channel,
		slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	return nil
}
