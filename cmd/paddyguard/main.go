// Package main is the entry point for the paddyguard CLI.
package main

import (
	"os"

	"github.com/PaddyGuard/paddyguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
