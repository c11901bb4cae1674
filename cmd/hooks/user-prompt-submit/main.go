// Package main provides the user-prompt-submit hook entry point: workflow
// detection on each user utterance.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/detect"
	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/hooks"
)

// Event is the hook input for a submitted prompt.
type Event struct {
	hooks.BaseEvent
	Prompt string `json:"prompt"`
}

func main() {
	hooks.Run("UserPromptSubmit", handle)
}

func handle(ctx *hooks.Context, event *Event) (hooks.Result, error) {
	detector := detect.New(loadCatalog(ctx.CWD), ctx.Config.Detect.MinConfidence)
	match := detector.Detect(event.Prompt)
	if match == nil {
		return hooks.Result{}, nil
	}

	states := wstate.New(ctx.Paths, ctx.Config)
	state := states.Load(ctx.SessionID)
	if state.Active() && state.WorkflowType == match.WorkflowType {
		// Same workflow still in flight; don't reset progress.
		return hooks.Result{}, nil
	}

	state, err := states.StartWorkflow(ctx.SessionID, match.WorkflowType, match.Steps)
	if err != nil {
		return hooks.Result{}, err
	}
	ctx.Notifier.Notify(notify.Event{
		Name:      "workflow-detected",
		SessionID: ctx.SessionID,
		Detail:    match.WorkflowType,
	})

	inject := fmt.Sprintf(
		"Detected a %s workflow (confidence %.2f). Suggested steps: %s. Start with %q.",
		match.WorkflowType, match.Confidence,
		strings.Join(match.Steps, " → "), state.CurrentStep(),
	)
	return hooks.Result{Inject: inject}, nil
}

// loadCatalog prefers a project-local workflows.yaml over the built-ins.
func loadCatalog(cwd string) []detect.Workflow {
	if cwd == "" {
		return detect.BuiltinCatalog()
	}
	path := filepath.Join(cwd, ".claude", detect.CatalogFile)
	catalog, err := detect.LoadCatalog(path)
	if err != nil || len(catalog) == 0 {
		return detect.BuiltinCatalog()
	}
	log.Debug().Str("path", path).Int("workflows", len(catalog)).Msg("using project workflow catalog")
	return catalog
}
