// Package wstate is the session state store: the small per-session JSON
// record tracking workflow type, step progress and todos. All mutation is
// read-merge-write under the same per-session lock as the swap store, so
// overlapping hook invocations cannot tear the record.
package wstate

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/fsutil"
	"github.com/claudekit/sidecar/internal/lockfile"
	"github.com/claudekit/sidecar/internal/paths"
	"github.com/claudekit/sidecar/pkg/models"
)

// Store reads and mutates workflow state documents.
type Store struct {
	paths *paths.Resolver
	cfg   *config.Config
}

// New creates a session state store.
func New(resolver *paths.Resolver, cfg *config.Config) *Store {
	return &Store{paths: resolver, cfg: cfg}
}

// Patch describes a partial state update. Nil fields are left untouched;
// slice fields, when set, replace the stored value wholesale.
type Patch struct {
	WorkflowType     *string
	StepSequence     []string
	CurrentStepIndex *int
	CompletedSteps   []string
	Todos            *[]models.Todo
}

// Load returns the current state, or a fresh idle state when none exists.
// Load never takes the lock; readers tolerate racing a writer because the
// document is replaced atomically.
func (s *Store) Load(sessionID string) *models.WorkflowState {
	state := models.NewWorkflowState(sessionID)
	if err := fsutil.ReadJSON(s.paths.StatePath(sessionID), state); err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("session", sessionID).Msg("state read failed, starting fresh")
		}
		return models.NewWorkflowState(sessionID)
	}
	return state
}

// Update applies patch atomically and returns the merged state.
func (s *Store) Update(sessionID string, patch Patch) (*models.WorkflowState, error) {
	return s.mutate(sessionID, func(state *models.WorkflowState) {
		if patch.WorkflowType != nil {
			state.WorkflowType = *patch.WorkflowType
		}
		if patch.StepSequence != nil {
			state.StepSequence = patch.StepSequence
		}
		if patch.CurrentStepIndex != nil {
			state.CurrentStepIndex = *patch.CurrentStepIndex
		}
		if patch.CompletedSteps != nil {
			state.CompletedSteps = patch.CompletedSteps
		}
		if patch.Todos != nil {
			applyTodos(state, *patch.Todos)
		}
	})
}

// RecordTodos replaces the live todo list. Non-empty lists are also pushed
// into LastTodos (bounded to the most recent entries), which survives the
// live list being cleared; that history is the recovery fallback. An empty
// list never resets HasTodos: once planning happened, only Clear revokes it.
func (s *Store) RecordTodos(sessionID string, todos []models.Todo) (*models.WorkflowState, error) {
	return s.mutate(sessionID, func(state *models.WorkflowState) {
		applyTodos(state, todos)
	})
}

// AdvanceStep marks the current step finished and moves to the next one.
// No-op when idle or already past the end of the sequence.
func (s *Store) AdvanceStep(sessionID string) (*models.WorkflowState, error) {
	return s.mutate(sessionID, func(state *models.WorkflowState) {
		if !state.Active() {
			return
		}
		state.CompletedSteps = append(state.CompletedSteps, state.StepSequence[state.CurrentStepIndex])
		state.CurrentStepIndex++
		if state.CurrentStepIndex >= len(state.StepSequence) {
			// Terminal: the workflow ran to completion.
			state.CurrentStepIndex = models.NoActiveStep
		}
	})
}

// StartWorkflow resets progress and begins a new workflow at step 0.
func (s *Store) StartWorkflow(sessionID, workflowType string, steps []string) (*models.WorkflowState, error) {
	return s.mutate(sessionID, func(state *models.WorkflowState) {
		state.WorkflowType = workflowType
		state.StepSequence = steps
		state.CurrentStepIndex = 0
		if len(steps) == 0 {
			state.CurrentStepIndex = models.NoActiveStep
		}
		state.CompletedSteps = nil
		state.StartedAt = nowFunc()
	})
}

// Clear returns the session to idle. LastTodos is deliberately preserved:
// it is the fallback the recovery injector reads.
func (s *Store) Clear(sessionID string) (*models.WorkflowState, error) {
	return s.mutate(sessionID, func(state *models.WorkflowState) {
		state.WorkflowType = ""
		state.StepSequence = nil
		state.CurrentStepIndex = models.NoActiveStep
		state.CompletedSteps = nil
		state.Todos = nil
		state.HasTodos = false
	})
}

// mutate runs the read-merge-write cycle under the session lock.
func (s *Store) mutate(sessionID string, apply func(*models.WorkflowState)) (*models.WorkflowState, error) {
	if err := s.paths.EnsureSession(sessionID); err != nil {
		return nil, fmt.Errorf("wstate: ensure session dir: %w", err)
	}
	lock, err := lockfile.Acquire(s.paths.LockPath(sessionID), lockfile.Options{
		Timeout:    s.cfg.LockTimeout(),
		StaleAfter: s.cfg.LockStaleAfter(),
	})
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	state := s.Load(sessionID)
	apply(state)
	state.LastUpdatedAt = nowFunc()
	if err := fsutil.WriteJSONAtomic(s.paths.StatePath(sessionID), state, 0o600); err != nil {
		return nil, fmt.Errorf("wstate: write state: %w", err)
	}
	return state, nil
}

func applyTodos(state *models.WorkflowState, todos []models.Todo) {
	state.Todos = todos
	if len(todos) == 0 {
		// An empty write clears the live list but revokes nothing: the
		// planning flag and the retained history stay until Clear.
		return
	}
	state.HasTodos = true
	history := make([]models.Todo, len(todos))
	copy(history, todos)
	if len(history) > models.LastTodosMax {
		history = history[len(history)-models.LastTodosMax:]
	}
	state.LastTodos = history
}

// nowFunc is swapped in tests.
var nowFunc = time.Now
