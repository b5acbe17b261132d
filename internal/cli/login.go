package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the advisory platform",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		username := strings.TrimSpace(loginUsername)
		reader := bufio.NewReader(os.Stdin)
		if username == "" {
			fmt.Print("Tên đăng nhập: ")
			line, _ := reader.ReadString('\n')
			username = strings.TrimSpace(line)
		}
		if username == "" {
			fmt.Println("Thiếu tên đăng nhập.")
			os.Exit(1)
		}

		fmt.Print("Mật khẩu: ")
		passBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fmt.Printf("Không đọc được mật khẩu: %v\n", err)
			os.Exit(1)
		}

		id, err := rt.identity.Login(context.Background(), username, string(passBytes))
		if err != nil {
			// Bad credentials are an inline message, not a stack trace.
			fmt.Println(color.RedString("Đăng nhập thất bại: %v", err))
			os.Exit(1)
		}

		fmt.Println(color.GreenString("Đăng nhập thành công."))
		fmt.Printf("Xin chào %s (vai trò: %s)\n", id.DisplayName, id.Role)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored credential",
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := rt.identity.Logout(); err != nil {
			fmt.Printf("Logout error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Đã đăng xuất.")
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username to log in with")
}
