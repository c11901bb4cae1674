// Package main provides the post-tool-use hook entry point: oversized tool
// outputs are externalized into the swap store and replaced by pointers.
package main

import (
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/hooks"
	"github.com/claudekit/sidecar/pkg/models"
)

// Event is the hook input after a tool call completes.
type Event struct {
	hooks.BaseEvent
	ToolName     string          `json:"tool_name"`
	ToolInput    json.RawMessage `json:"tool_input"`
	ToolResponse json.RawMessage `json:"tool_response"`
	ToolUseID    string          `json:"tool_use_id"`
}

func main() {
	hooks.Run("PostToolUse", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	if event.ToolName == "TodoWrite" {
		return handleTodoWrite(ctx, event)
	}

	content := hooks.ToolResponseText(event.ToolResponse)
	if content == "" {
		return hooks.Result{}, nil
	}

	store := swap.New(ctx.Paths, ctx.Config)
	entry, err := store.Externalize(ctx.SessionID, event.ToolName, hooks.ToolInputText(event.ToolInput), content)
	if err != nil {
		if swap.Skippable(err) {
			return hooks.Result{}, nil
		}
		// Storage faults also degrade to pass-through; the content simply
		// stays inline.
		log.Debug().Err(err).Str("tool", event.ToolName).Msg("externalization failed")
		return hooks.Result{}, nil
	}

	ctx.Notifier.Notify(notify.Event{
		Name:      "externalized",
		SessionID: ctx.SessionID,
		Tool:      event.ToolName,
		Detail:    entry.ID,
	})
	return hooks.Result{Inject: swap.Pointer(entry)}, nil
}

// handleTodoWrite advances the active workflow when the todo list it just
// wrote is fully completed.
func handleTodoWrite(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	var input struct {
		Todos []models.Todo `json:"todos"`
	}
	if err := json.Unmarshal(event.ToolInput, &input); err != nil {
		return hooks.Result{}, nil
	}

	states := wstate.New(ctx.Paths, ctx.Config)
	state := states.Load(ctx.SessionID)
	if !state.Active() || len(input.Todos) == 0 {
		return hooks.Result{}, nil
	}
	for _, t := range input.Todos {
		if t.Status != models.TodoCompleted {
			return hooks.Result{}, nil
		}
	}

	state, err := states.AdvanceStep(ctx.SessionID)
	if err != nil {
		return hooks.Result{}, err
	}
	if state.Active() {
		return hooks.Result{Message: "workflow step complete; next: " + state.CurrentStep()}, nil
	}
	return hooks.Result{Message: "workflow complete"}, nil
}
