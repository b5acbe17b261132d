package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fertilizerCmd = &cobra.Command{
	Use:   "fertilizer",
	Short: "Generate a staged fertilization plan for your crop",
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

		printHeader("🌱 Kế hoạch bón phân")
		fmt.Println("Đang tạo kế hoạch, bác chờ một chút...")

		p, err := rt.client.FertilizerPlan(context.Background())
		if err != nil {
			color.Red("Không thể tạo kế hoạch bón phân lúc này. Vui lòng thử lại sau. (%v)", err)
			os.Exit(1)
		}

		section := color.New(color.Bold, color.FgGreen)
		label := color.New(color.Bold)

		if p.MainSummary != "" {
			fmt.Println()
			section.Println(p.MainSummary)
		}
		for _, stage := range p.FertilizationStages {
			fmt.Println()
			section.Printf("• %s\n", stage.StageName)
			if stage.Timing != "" {
				fmt.Printf("  %s %s\n", label.Sprint("Thời điểm:"), stage.Timing)
			}
			for _, f := range stage.Fertilizers {
				fmt.Printf("  %s %.0f kg\n", label.Sprint(f.Type+":"), f.QuantityKg)
				if f.Instructions != "" {
					fmt.Printf("    %s\n", f.Instructions)
				}
			}
		}
		if p.AdditionalAdvice != "" {
			fmt.Println()
			fmt.Printf("%s %s\n", label.Sprint("Tư vấn bổ sung:"), p.AdditionalAdvice)
		}
		if p.MainSummary == "" && len(p.FertilizationStages) == 0 {
			fmt.Println("Chưa có kế hoạch bón phân nào.")
		}
	},
}
