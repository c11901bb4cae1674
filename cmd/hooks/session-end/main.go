// Package main provides the session-end hook entry point: swap storage
// eviction. An explicit clear tears the whole session down; any other end
// runs the age-based prune. Both are best-effort.
package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/pkg/hooks"
)

// Event is the hook input at session end.
type Event struct {
	hooks.BaseEvent
	Reason string `json:"reason"` // "clear", "logout", "exit", "prompt_input_exit"
}

func main() {
	hooks.Run("SessionEnd", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	store := swap.New(ctx.Paths, ctx.Config)

	if event.Reason == "clear" {
		if err := store.Teardown(ctx.SessionID); err != nil {
			log.Debug().Err(err).Str("session", ctx.SessionID).Msg("teardown failed")
		}
		ctx.Notifier.Notify(notify.Event{Name: "session-cleared", SessionID: ctx.SessionID})
		return hooks.Result{}, nil
	}

	if removed, err := store.Prune(ctx.SessionID, time.Now()); err != nil {
		log.Debug().Err(err).Str("session", ctx.SessionID).Msg("prune skipped")
	} else if removed > 0 {
		log.Debug().Int("removed", removed).Str("session", ctx.SessionID).Msg("pruned at session end")
	}
	return hooks.Result{}, nil
}
