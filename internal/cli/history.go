package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List processed analysis sessions",
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

		entries, err := rt.client.History(context.Background())
		if err != nil {
			fmt.Printf("Không thể tải lịch sử: %v\n", err)
			os.Exit(1)
		}

		printHeader("📜 Lịch sử phân tích")
		if len(entries) == 0 {
			fmt.Println("Chưa có phiên phân tích nào.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNGÀY\tBỆNH\tNGUY CƠ\tTRẠNG THÁI")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Disease, e.Risk, e.Status)
		}
		w.Flush()
	},
}
