package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PaddyGuard/paddyguard/internal/api"
	"github.com/PaddyGuard/paddyguard/internal/conversation"
	"github.com/PaddyGuard/paddyguard/internal/plan"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Open the latest automated analysis notification",
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

		printHeader("🔔 Thông báo giám sát")

		ctx := context.Background()
		ctrl := conversation.New(rt.client, id.ID)
		conversationLoop(ctx, ctrl, func(ctx context.Context) (*plan.Notification, error) {
			n, err := rt.client.LatestNotification(ctx)
			if errors.Is(err, api.ErrNotFound) {
				// No automated analysis yet. Not an error.
				return nil, nil
			}
			return n, err
		})
	},
}
