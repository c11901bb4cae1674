// Package main provides the statusline hook. It prints a single plain line
// (no JSON wrapping) summarizing the session's workflow progress and swap
// usage, and must stay fast: it reads the two state documents directly and
// never takes the session lock.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/paths"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
)

// Input is the statusline payload from the host.
type Input struct {
	HookEventName string `json:"hook_event_name"`
	SessionID     string `json:"session_id"`
	CWD           string `json:"cwd"`
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

func main() {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Println(offline())
		return
	}
	var input Input
	if err := json.Unmarshal(data, &input); err != nil || input.SessionID == "" {
		fmt.Println(offline())
		return
	}

	cfg := config.Load(input.CWD)
	resolver := paths.NewResolver(cfg.ScratchRoot)

	var parts []string
	state := wstate.New(resolver, cfg).Load(input.SessionID)
	if state.Active() {
		parts = append(parts, fmt.Sprintf("%s%s %d/%d %s%s",
			colorCyan, state.WorkflowType,
			state.CurrentStepIndex+1, len(state.StepSequence),
			state.CurrentStep(), colorReset))
	}

	idx := swap.New(resolver, cfg).Index(input.SessionID)
	if idx.TotalEntries > 0 {
		parts = append(parts, fmt.Sprintf("%sswap %d (%s)%s",
			colorGray, idx.TotalEntries, humanBytes(idx.TotalBytes), colorReset))
	}

	if len(parts) == 0 {
		fmt.Println(offline())
		return
	}
	fmt.Println("ck " + strings.Join(parts, " | "))
}

func offline() string {
	return colorGray + "ck idle" + colorReset
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
