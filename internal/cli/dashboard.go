package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show farm profile and latest IoT readings",
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
		farm, err := rt.client.MyFarm(ctx)
		if err != nil {
			fmt.Printf("Không thể tải dữ liệu nông trại: %v\n", err)
			os.Exit(1)
		}

		printHeader("🌾 Nông trại " + farm.Name)
		fmt.Printf("Chào mừng trở lại, %s!\n\n", farm.FarmerName)

		label := color.New(color.Bold)
		fmt.Printf("%s %s\n", label.Sprint("Tỉnh:"), farm.Province)
		fmt.Printf("%s %.2f ha\n", label.Sprint("Diện tích:"), farm.AreaHa)
		if farm.PlantingDate != "" {
			fmt.Printf("%s %s\n", label.Sprint("Ngày gieo sạ:"), farm.PlantingDate)
		}

		// IoT data renders separately so a sensor outage never hides the
		// farm profile.
		iot, err := rt.client.IoTData(ctx)
		if err != nil {
			fmt.Println(color.YellowString("\nKhông thể tải dữ liệu cảm biến: %v", err))
			return
		}
		fmt.Println()
		fmt.Printf("%s %.1f°C\n", label.Sprint("Nhiệt độ:"), iot.Temperature)
		fmt.Printf("%s %.1f%%\n", label.Sprint("Độ ẩm không khí:"), iot.Humidity)
		fmt.Printf("%s %.1f%%\n", label.Sprint("Độ ẩm đất:"), iot.SoilMoisture)
		fmt.Printf("%s %.1f\n", label.Sprint("Độ pH đất:"), iot.SoilPH)
		fmt.Printf("%s %.1f cm\n", label.Sprint("Mực nước:"), iot.WaterLevel)
	},
}
