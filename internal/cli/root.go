// Package cli implements the paddyguard command tree.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/PaddyGuard/paddyguard/internal/cli.version=1.2.3"
	version = "1.4.0"
	logo    = "\n" +
		"  ____            _     _        ____                     _\n" +
		" |  _ \\ __ _  __| | __| |_   _ / ___|_   _  __ _ _ __ __| |\n" +
		" | |_) / _` |/ _` |/ _` | | | | |  _| | | |/ _` | '__/ _` |\n" +
		" |  __/ (_| | (_| | (_| | |_| | |_| | |_| | (_| | | | (_| |\n" +
		" |_|   \\__,_|\\__,_|\\__,_|\\__, |\\____|\\__,_|\\__,_|_|  \\__,_|\n" +
		"                         |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "paddyguard",
	Short: "PaddyGuard - rice farm advisory client",
	Long:  color.GreenString(logo) + "\nTerminal client for the rice-farm advisory platform: farm data, AI treatment plans, and background monitoring.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(fertilizerCmd)
	rootCmd.AddCommand(waterCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(monitorCmd)
}
