// Package main provides the sidecar CLI for inspecting and maintaining
// per-session swap storage and workflow state outside of hook invocations.
package main

import (
	"fmt"
	"os"

	"github.com/claudekit/sidecar/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cwd, _ := os.Getwd()
	cfg := config.Load(cwd)

	app := newCLIApp(cfg)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
