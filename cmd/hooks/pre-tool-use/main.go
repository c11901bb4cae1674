// Package main provides the pre-tool-use hook entry point: todo capture
// and the enforcement gate.
package main

import (
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/gate"
	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/hooks"
	"github.com/claudekit/sidecar/pkg/models"
)

// Event is the hook input before a tool call runs.
type Event struct {
	hooks.BaseEvent
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// todoWriteInput is the shape of TodoWrite's tool_input.
type todoWriteInput struct {
	Todos []models.Todo `json:"todos"`
}

func main() {
	hooks.Run("PreToolUse", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	states := wstate.New(ctx.Paths, ctx.Config)

	// Capture planning state before the gate looks at it, so the very
	// first TodoWrite already unlocks the implementation actions that
	// follow in the same turn.
	if event.ToolName == "TodoWrite" {
		var input todoWriteInput
		if err := json.Unmarshal(event.ToolInput, &input); err == nil {
			if _, err := states.RecordTodos(ctx.SessionID, input.Todos); err != nil {
				log.Debug().Err(err).Msg("todo capture skipped")
			}
		}
	}

	decision := gate.Check(states.Load(ctx.SessionID), event.ToolName)
	if decision.Allowed {
		return hooks.Result{}, nil
	}
	ctx.Notifier.Notify(notify.Event{
		Name:      "action-blocked",
		SessionID: ctx.SessionID,
		Tool:      event.ToolName,
		Detail:    decision.Reason,
	})
	return hooks.Result{Block: true, Message: decision.Reason}, nil
}
