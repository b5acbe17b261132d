package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PaddyGuard/paddyguard/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ PaddyGuard Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show client status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 PaddyGuard Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		if path, err := config.ConfigPath(); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				fmt.Println("Config:   ✓ Found (" + path + ")")
			} else {
				fmt.Println("Config:   ✗ Not found (defaults in effect)")
			}
		}

		rt, err := newRuntime()
		if err != nil {
			fmt.Printf("Runtime error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Backend:  %s\n", rt.cfg.API.BaseURL)

		// Check identity
		id, err := rt.identity.Current()
		if err != nil {
			fmt.Println("Identity: ✗ Not logged in (run 'paddyguard login')")
			return
		}
		fmt.Printf("Identity: ✓ %s (%s, id %s)\n", id.DisplayName, id.Role, id.ID)

		// Check notification settings (best effort)
		settings, err := rt.client.Settings(context.Background())
		if err != nil {
			fmt.Println("Polling:  ? Unable to load settings")
			return
		}
		if settings.Enabled {
			fmt.Printf("Polling:  ✓ Enabled (every %dh)\n", settings.IntervalHours)
		} else {
			fmt.Println("Polling:  ✗ Disabled")
		}
	},
}
