// Package gate is the enforcement guard evaluated before state-mutating
// tool calls: implementation-class actions are blocked until planning
// state (a todo list) exists for the session. The gate is the only part of
// the system allowed to be fatal to a pending action, and even then it
// fails with an instruction, never an exception.
package gate

import (
	"fmt"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/pkg/models"
)

// Decision is the gate's verdict on a pending action.
type Decision struct {
	Allowed bool
	Reason  string
}

// allow is the zero-friction verdict.
var allow = Decision{Allowed: true}

// alwaysAllowed are investigation, planning and read-only actions.
var alwaysAllowed = map[string]bool{
	"Read":         true,
	"Grep":         true,
	"Glob":         true,
	"LS":           true,
	"WebFetch":     true,
	"WebSearch":    true,
	"Task":         true,
	"NotebookRead": true,
	"TodoWrite":    true,
	"BashOutput":   true,
}

// requiresTodos are implementation-class actions gated on planning state.
var requiresTodos = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
	"Bash":         true,
}

// Check evaluates an action against the session's workflow state.
// Unlisted actions are allowed: the system is non-blocking by design and
// only enforces the planning rule it actually knows about.
func Check(state *models.WorkflowState, action string) Decision {
	if config.Bypass() {
		return allow
	}
	if alwaysAllowed[action] || !requiresTodos[action] {
		return allow
	}
	if state != nil && state.HasTodos {
		return allow
	}
	return Decision{
		Allowed: false,
		Reason: fmt.Sprintf(
			"%s is an implementation action but no todo list exists for this session yet. "+
				"Create a todo list (TodoWrite) describing the planned steps, then retry.",
			action),
	}
}
