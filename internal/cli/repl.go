package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/PaddyGuard/paddyguard/internal/conversation"
	"github.com/PaddyGuard/paddyguard/internal/plan"
)

// fetchFunc fetches a fresh notification for the session loop, used both
// for the initial load and for /reset.
type fetchFunc func(ctx context.Context) (*plan.Notification, error)

// conversationLoop runs the interactive plan session against stdin.
// Plain lines refine the plan; slash commands switch modes. The seq
// counter is local because only this loop ingests into the controller.
func conversationLoop(ctx context.Context, ctrl *conversation.Controller, fetch fetchFunc) {
	var seq uint64

	load := func() bool {
		ctrl.BeginLoading()
		n, err := fetch(ctx)
		if err != nil {
			ctrl.Fail(err)
			color.Red("Không thể tải kết quả phân tích: %v", err)
			return false
		}
		seq++
		if !ctrl.Ingest(seq, n) && ctrl.SessionID() == "" {
			fmt.Println("Chưa có kết quả phân tích nào.")
			return false
		}
		return true
	}

	if !load() {
		return
	}

	renderPlan(ctrl.Plan())
	fmt.Println()
	printThread(ctrl.PlanThread())
	printREPLHelp()

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.Bold).Sprint("> ")
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/help":
			printREPLHelp()

		case line == "/plan":
			renderPlan(ctrl.Plan())

		case line == "/reset":
			ctrl.Reset()
			fmt.Println("Đang tải lại kết quả phân tích...")
			if !load() {
				return
			}
			renderPlan(ctrl.Plan())
			printThread(ctrl.PlanThread())

		case line == "/execute":
			err := ctrl.Execute(ctx)
			switch {
			case err == nil:
				color.Green("✅ Kế hoạch đã được thực thi.")
			case errors.Is(err, conversation.ErrNotActionable):
				color.Yellow("Kế hoạch hiện tại không cần hành động nào.")
			case errors.Is(err, conversation.ErrExecuted):
				color.Yellow("Kế hoạch này đã được thực thi rồi.")
			case errors.Is(err, conversation.ErrExecuteInFlight):
				color.Yellow("Đang thực thi, bác chờ một chút.")
			default:
				color.Red("Thực thi thất bại: %v. Bác thử lại với /execute.", err)
			}

		case strings.HasPrefix(line, "/ask"):
			question := strings.TrimSpace(strings.TrimPrefix(line, "/ask"))
			if question == "" {
				fmt.Println("Cách dùng: /ask <câu hỏi>")
				continue
			}
			if err := ctrl.Ask(ctx, question); err != nil {
				color.Red("%v", err)
				continue
			}
			printLastMessage(ctrl.QAThread())

		case strings.HasPrefix(line, "/"):
			fmt.Println("Lệnh không hợp lệ. Gõ /help để xem các lệnh.")

		default:
			if err := ctrl.UpdatePlan(ctx, line); err != nil {
				color.Red("%v", err)
				continue
			}
			printLastMessage(ctrl.PlanThread())
		}
	}
}

func printLastMessage(msgs []conversation.Message) {
	if len(msgs) == 0 {
		return
	}
	printMessage(msgs[len(msgs)-1])
}

func printREPLHelp() {
	fmt.Println()
	fmt.Println("Gõ tin nhắn để chỉnh sửa kế hoạch, hoặc dùng:")
	fmt.Println("  /plan      xem lại kế hoạch hiện tại")
	fmt.Println("  /ask <câu hỏi>   hỏi đáp về nông hộ")
	fmt.Println("  /execute   thực thi kế hoạch")
	fmt.Println("  /reset     tải lại từ đầu")
	fmt.Println("  /quit      thoát")
	fmt.Println()
}
