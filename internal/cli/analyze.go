package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PaddyGuard/paddyguard/internal/conversation"
	"github.com/PaddyGuard/paddyguard/internal/plan"
)

var analyzeFarmerID string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a fresh field analysis and refine the resulting plan",
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

		printHeader("🔬 Phân tích đồng ruộng")
		fmt.Println("Đang phân tích, bác chờ một chút...")

		// --farmer triggers the monitoring pipeline for a specific
		// farmer, the path operators use; otherwise the backend analyzes
		// the authenticated farmer's own field.
		fetch := func(ctx context.Context) (*plan.Notification, error) {
			return rt.client.Analyze(ctx)
		}
		if farmer := strings.TrimSpace(analyzeFarmerID); farmer != "" {
			fetch = func(ctx context.Context) (*plan.Notification, error) {
				return rt.client.AutomatedAnalysis(ctx, farmer)
			}
		}

		ctx := context.Background()
		ctrl := conversation.New(rt.client, id.ID)
		conversationLoop(ctx, ctrl, fetch)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFarmerID, "farmer", "", "run the monitoring analysis for a specific farmer id")
}
