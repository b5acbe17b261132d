package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/PaddyGuard/paddyguard/internal/conversation"
	"github.com/PaddyGuard/paddyguard/internal/plan"
)

func printHeader(title string) {
	fmt.Println(color.GreenString(logo))
	if title != "" {
		fmt.Println(title)
		fmt.Println("─────────────────────")
	}
}

// renderPlan prints the advisory plan sections that are present.
func renderPlan(p *plan.Plan) {
	if p == nil {
		fmt.Println("Chưa có kế hoạch nào.")
		return
	}

	section := color.New(color.Bold, color.FgGreen)
	label := color.New(color.Bold)

	if a := p.Analysis; a != nil {
		section.Println("📋 Phân tích")
		if a.RiskAssessment != "" {
			fmt.Printf("  %s %s\n", label.Sprint("Nguy cơ:"), a.RiskAssessment)
		}
		if a.WeatherSummary != "" {
			fmt.Printf("  %s %s\n", label.Sprint("Thời tiết:"), a.WeatherSummary)
		}
	}

	if t := p.TreatmentPlan; t != nil {
		section.Println("💊 Kế hoạch điều trị")
		if t.MainMessage != "" {
			fmt.Printf("  %s\n", t.MainMessage)
		}
		if d := t.OptimalSprayDay; d != nil && d.Date != "" {
			fmt.Printf("  %s %s ngày %s\n", label.Sprint("Thời điểm phun:"), d.Session, d.Date)
			if d.Reason != "" {
				fmt.Printf("  (Lý do: %s)\n", d.Reason)
			}
		}
		if d := t.DrugInfo; d != nil && d.Product != "" {
			fmt.Printf("  %s %s (%s)\n", label.Sprint("Thuốc:"), d.Product, d.ActiveIngredient)
			if d.Dosage != "" {
				fmt.Printf("    Liều lượng: %s\n", d.Dosage)
			}
			if d.Usage != "" {
				fmt.Printf("    Cách dùng: %s\n", d.Usage)
			}
		}
		for _, action := range t.AdditionalActions {
			fmt.Printf("  • %s\n", action)
		}
		if t.IsActionable {
			fmt.Println("  " + color.GreenString("Kế hoạch có thể thực thi (/execute)"))
		} else {
			fmt.Println("  " + color.YellowString("Không cần hành động"))
		}
	}

	if f := p.FertilizerAdvice; f != nil && f.Recommendation != "" {
		section.Println("🌱 Tư vấn bón phân")
		fmt.Printf("  %s\n", f.Recommendation)
		if f.Reason != "" {
			fmt.Printf("  (%s)\n", f.Reason)
		}
	}

	if p.Prognosis != "" {
		section.Println("🔮 Dự báo")
		fmt.Printf("  %s\n", p.Prognosis)
	}
}

// printMessage renders one chat entry.
func printMessage(m conversation.Message) {
	if m.Sender == conversation.SenderUser {
		fmt.Printf("%s %s\n", color.CyanString("Bác:"), m.Text)
		return
	}
	fmt.Printf("%s %s\n", color.GreenString("Trợ lý:"), m.Text)
}

// printThread renders a whole chat thread.
func printThread(msgs []conversation.Message) {
	for _, m := range msgs {
		printMessage(m)
	}
}
