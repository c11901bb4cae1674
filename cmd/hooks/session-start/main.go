// Package main provides the session-start hook entry point: recovery
// injection after a resume or compaction.
package main

import (
	"github.com/claudekit/sidecar/internal/recovery"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/hooks"
)

// Event is the hook input at session start.
type Event struct {
	hooks.BaseEvent
	Source string `json:"source"` // "startup", "resume", "clear", "compact"
}

func main() {
	hooks.Run("SessionStart", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	states := wstate.New(ctx.Paths, ctx.Config)

	// The marker is consumed regardless of source so a subsequent plain
	// startup does not re-inject stale context.
	markerPresent := states.ConsumeCompactionMarker(ctx.SessionID)
	if event.Source != "resume" && event.Source != "compact" && !markerPresent {
		return hooks.Result{}, nil
	}

	injector := recovery.New(swap.New(ctx.Paths, ctx.Config), states)
	summary := injector.Build(ctx.SessionID)
	if summary == "" {
		return hooks.Result{}, nil
	}
	return hooks.Result{
		Inject:  summary,
		Message: "restored workflow state and externalized outputs from before compaction",
	}, nil
}
