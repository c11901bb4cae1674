// Package main provides the pre-compact hook entry point. It runs
// immediately before the host compacts the conversation and drops the
// marker the next session start uses to decide whether to inject recovery
// context. The process may be torn down before the write lands; recovery
// tolerates a missing marker.
package main

import (
	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/hooks"
)

// Event is the hook input before compaction.
type Event struct {
	hooks.BaseEvent
	Trigger string `json:"trigger"` // "manual" or "auto"
}

func main() {
	hooks.Run("PreCompact", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	wstate.New(ctx.Paths, ctx.Config).MarkCompaction(ctx.SessionID)
	ctx.Notifier.Notify(notify.Event{
		Name:      "compaction",
		SessionID: ctx.SessionID,
		Detail:    event.Trigger,
	})
	return hooks.Result{}, nil
}
