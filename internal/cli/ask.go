package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the advisor a question about your farm",
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

		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			fmt.Println("Cách dùng: paddyguard ask \"câu hỏi của bác\"")
			os.Exit(1)
		}

		answer, err := rt.client.Ask(context.Background(), id.ID, question)
		if err != nil {
			color.Red("Xin lỗi, tôi không thể trả lời câu hỏi này ngay bây giờ. (%v)", err)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", color.CyanString("Trợ lý:"), answer)
	},
}
