package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Generate an irrigation plan from IoT and weather data",
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

		printHeader("💧 Kế hoạch quản lý nước")
		fmt.Println("Đang tạo kế hoạch, bác chờ một chút...")

		p, err := rt.client.WaterPlan(context.Background())
		if err != nil {
			color.Red("Không thể tạo kế hoạch tưới tiêu. Vui lòng thử lại. (%v)", err)
			os.Exit(1)
		}

		label := color.New(color.Bold)

		rec := p.MainRecommendation
		if strings.TrimSpace(rec) == "" {
			rec = "Không có đề xuất"
		}
		fmt.Println()
		color.New(color.Bold, color.FgCyan).Println(strings.ToUpper(rec))
		if p.Reason != "" {
			fmt.Printf("%s %s\n", label.Sprint("Lý do:"), p.Reason)
		}

		fmt.Println()
		printDayPlan("Hôm nay", p.ThreeDayPlan.Today)
		printDayPlan("Ngày mai", p.ThreeDayPlan.Tomorrow)
		printDayPlan("Ngày kia", p.ThreeDayPlan.DayAfterTomorrow)

		if p.CurrentAssessment != "" {
			fmt.Println()
			fmt.Printf("%s %s\n", label.Sprint("Đánh giá hiện tại:"), p.CurrentAssessment)
		}
	},
}

func printDayPlan(day, text string) {
	if strings.TrimSpace(text) == "" {
		text = "Chưa có kế hoạch."
	}
	fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(day+":"), text)
}
