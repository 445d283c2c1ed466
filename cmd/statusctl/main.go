// Package main is the entry point for the statusctl CLI tool.
package main

import (
	"os"

	"github.com/bissquit/statusdash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
