package models

import "time"

// TodoStatus is the lifecycle state of a single todo item.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// Todo is one planned unit of work tracked for a session.
type Todo struct {
	Content    string     `json:"content"`
	Status     TodoStatus `json:"status"`
	ActiveForm string     `json:"activeForm,omitempty"`
}

// LastTodosMax bounds the retained todo history used for recovery.
const LastTodosMax = 10

// NoActiveStep is the CurrentStepIndex value when no workflow is active.
const NoActiveStep = -1

// WorkflowState is the live workflow record for a session. It persists
// untouched across context compaction and is the source of truth for the
// enforcement gate and the recovery injector.
type WorkflowState struct {
	SessionID        string    `json:"session_id"`
	WorkflowType     string    `json:"workflow_type,omitempty"`
	StepSequence     []string  `json:"step_sequence,omitempty"`
	CurrentStepIndex int       `json:"current_step_index"`
	CompletedSteps   []string  `json:"completed_steps,omitempty"`
	Todos            []Todo    `json:"todos,omitempty"`
	LastTodos        []Todo    `json:"last_todos,omitempty"`
	// HasTodos is sticky: set when the first non-empty todo list is
	// recorded and reset only by an explicit clear, never by an empty
	// todo write.
	HasTodos      bool      `json:"has_todos"`
	StartedAt     time.Time `json:"started_at,omitempty"`
	LastUpdatedAt time.Time `json:"last_updated_at,omitempty"`
}

// NewWorkflowState returns an idle state for a session.
func NewWorkflowState(sessionID string) *WorkflowState {
	return &WorkflowState{
		SessionID:        sessionID,
		CurrentStepIndex: NoActiveStep,
	}
}

// Active reports whether a workflow is in progress.
func (s *WorkflowState) Active() bool {
	return s.CurrentStepIndex != NoActiveStep && s.CurrentStepIndex < len(s.StepSequence)
}

// CurrentStep returns the name of the step in progress, or "" when idle.
func (s *WorkflowState) CurrentStep() string {
	if !s.Active() {
		return ""
	}
	return s.StepSequence[s.CurrentStepIndex]
}

// RemainingSteps returns the steps after the current one, in order.
func (s *WorkflowState) RemainingSteps() []string {
	if !s.Active() || s.CurrentStepIndex+1 >= len(s.StepSequence) {
		return nil
	}
	return s.StepSequence[s.CurrentStepIndex+1:]
}

// AllTodosCompleted reports whether the live list is non-empty and every
// item on it is completed.
func (s *WorkflowState) AllTodosCompleted() bool {
	if len(s.Todos) == 0 {
		return false
	}
	for _, t := range s.Todos {
		if t.Status != TodoCompleted {
			return false
		}
	}
	return true
}
