package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PaddyGuard/paddyguard/internal/bus"
	"github.com/PaddyGuard/paddyguard/internal/channels"
	"github.com/PaddyGuard/paddyguard/internal/conversation"
	"github.com/PaddyGuard/paddyguard/internal/poller"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the background monitor that polls for new analyses",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		id, err := rt.currentIdentity()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		printHeader("📡 Giám sát tự động")
		fmt.Printf("Đăng nhập: %s (%s)\n", id.DisplayName, id.Role)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := bus.New()
		ctrl := conversation.New(rt.client, id.ID)
		svc := poller.New(rt.client, events)

		events.SubscribeNotifications(func(ev bus.NotificationEvent) {
			if ev.Err != nil || ev.Notification == nil {
				return
			}
			if !ctrl.Ingest(ev.Seq, ev.Notification) {
				return
			}
			p := ev.Notification.Plan
			if !p.Actionable() {
				return
			}
			events.PublishAlert(bus.Alert{
				Title:          "Có kết quả phân tích mới cần xử lý",
				Body:           p.MainMessage(),
				ConversationID: ev.Notification.ConversationID,
			})
		})

		active := []channels.Channel{}
		if rt.cfg.Alerts.Terminal.Enabled {
			active = append(active, channels.NewTerminalChannel(events))
		}
		if rt.cfg.Alerts.Slack.Enabled {
			active = append(active, channels.NewSlackChannel(rt.cfg.Alerts.Slack, events))
		}
		for _, ch := range active {
			if err := ch.Start(ctx); err != nil {
				color.Yellow("Kênh %s không khởi động được: %v", ch.Name(), err)
			}
		}

		go events.Dispatch(ctx)

		settings := svc.LoadSettings(ctx)
		enabled := settings.Enabled || rt.cfg.Notifications.Enabled
		svc.SetPolling(enabled)
		if enabled {
			fmt.Printf("Kiểm tra mỗi %d giờ. Nhấn Ctrl+C để dừng.\n", svc.Settings().IntervalHours)
		} else {
			color.Yellow("Thông báo đang tắt. Bật bằng 'paddyguard settings --enable'.")
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		fmt.Println("\nĐang dừng giám sát...")
		svc.Stop()
		cancel()
		for _, ch := range active {
			ch.Stop()
		}
	},
}
