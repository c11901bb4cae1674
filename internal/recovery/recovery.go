// Package recovery reconstructs a post-compaction summary from the swap
// index and the workflow state and renders it for injection into the
// assistant's context. Recovery is opportunistic: when there is nothing
// worth recovering it produces nothing.
package recovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/models"
)

// MaxEntries caps how many swap summaries a recovery block renders.
const MaxEntries = 10

// Injector builds recovery summaries.
type Injector struct {
	swaps *swap.Store
	state *wstate.Store
}

// New creates a recovery injector over the two stores.
func New(swaps *swap.Store, state *wstate.Store) *Injector {
	return &Injector{swaps: swaps, state: state}
}

// Build renders the recovery summary for a session, or "" when there is
// nothing to recover.
func (i *Injector) Build(sessionID string) string {
	var b strings.Builder

	state := i.state.Load(sessionID)
	renderWorkflow(&b, state)
	renderTodos(&b, state)
	i.renderSwapEntries(&b, sessionID)

	if b.Len() == 0 {
		return ""
	}
	return "<ck-sidecar-recovery>\n" +
		"# Recovered session state (survived context compaction)\n\n" +
		b.String() +
		"</ck-sidecar-recovery>"
}

func renderWorkflow(b *strings.Builder, state *models.WorkflowState) {
	if !state.Active() {
		return
	}
	fmt.Fprintf(b, "## Active workflow: %s\n", state.WorkflowType)
	fmt.Fprintf(b, "current step: %s (%d/%d)\n", state.CurrentStep(),
		state.CurrentStepIndex+1, len(state.StepSequence))
	if len(state.CompletedSteps) > 0 {
		fmt.Fprintf(b, "completed: %s\n", strings.Join(state.CompletedSteps, ", "))
	}
	if remaining := state.RemainingSteps(); len(remaining) > 0 {
		fmt.Fprintf(b, "remaining: %s\n", strings.Join(remaining, ", "))
	}
	b.WriteByte('\n')
}

func renderTodos(b *strings.Builder, state *models.WorkflowState) {
	todos := state.Todos
	header := "## Todos"
	if len(todos) == 0 {
		// The live list was lost or cleared; fall back to the retained
		// history so todo content stays recoverable.
		todos = state.LastTodos
		header = "## Todos (recovered from last known list)"
	}
	if len(todos) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, t := range todos {
		fmt.Fprintf(b, "- [%s] %s\n", t.Status, t.Content)
	}
	b.WriteByte('\n')
}

func (i *Injector) renderSwapEntries(b *strings.Builder, sessionID string) {
	idx := i.swaps.Index(sessionID)
	if idx.TotalEntries == 0 {
		return
	}

	entries := make([]*models.SwapEntry, 0, len(idx.Entries))
	for id := range idx.Entries {
		if entry, err := i.swaps.Entry(sessionID, id); err == nil {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return
	}
	// Most relevant first: what has been asked for again, then what is
	// most recent.
	sort.Slice(entries, func(a, z int) bool {
		if entries[a].AccessCount != entries[z].AccessCount {
			return entries[a].AccessCount > entries[z].AccessCount
		}
		return entries[a].CapturedAt.After(entries[z].CapturedAt)
	})
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	fmt.Fprintf(b, "## Externalized tool outputs (%d stored)\n", idx.TotalEntries)
	b.WriteString("These were moved out of context before compaction; the files hold the exact original content.\n")
	for _, e := range entries {
		fmt.Fprintf(b, "- %s from %s (%d chars): %s\n  read %s for the exact content\n",
			e.ID, e.SourceTool, e.Metrics.CharCount, e.Summary, e.ContentPath)
	}
	b.WriteByte('\n')
}
