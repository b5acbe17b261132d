package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PaddyGuard/paddyguard/internal/api"
	"github.com/PaddyGuard/paddyguard/internal/poller"
)

var (
	settingsEnable   bool
	settingsDisable  bool
	settingsInterval int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change notification settings",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if _, err := rt.currentIdentity(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		ctx := context.Background()
		svc := poller.New(rt.client, nil)
		current := svc.LoadSettings(ctx)

		if !cmd.Flags().Changed("enable") && !cmd.Flags().Changed("disable") && !cmd.Flags().Changed("interval") {
			printHeader("⚙️ Cài đặt giám sát")
			if current.Enabled {
				fmt.Printf("Giám sát tự động: BẬT (mỗi %d giờ)\n", current.IntervalHours)
			} else {
				fmt.Println("Giám sát tự động: TẮT")
			}
			return
		}

		next := api.NotificationSettings{
			Enabled:       current.Enabled,
			IntervalHours: current.IntervalHours,
		}
		if settingsEnable {
			next.Enabled = true
		}
		if settingsDisable {
			next.Enabled = false
		}
		if cmd.Flags().Changed("interval") {
			next.IntervalHours = settingsInterval
		}

		if err := svc.SaveSettings(ctx, next); err != nil {
			// Prior settings stay in effect when the save fails.
			fmt.Println(color.RedString("Lưu cài đặt thất bại: %v", err))
			os.Exit(1)
		}
		fmt.Println(color.GreenString("Cài đặt đã được cập nhật thành công!"))
	},
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsEnable, "enable", false, "enable automated monitoring")
	settingsCmd.Flags().BoolVar(&settingsDisable, "disable", false, "disable automated monitoring")
	settingsCmd.Flags().IntVar(&settingsInterval, "interval", poller.DefaultIntervalHours, "polling interval in hours")
}
