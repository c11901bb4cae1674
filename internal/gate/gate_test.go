package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/paths"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/models"
)

func stateWithTodos(todos ...models.Todo) *models.WorkflowState {
	state := models.NewWorkflowState("sess1")
	state.Todos = todos
	state.HasTodos = len(todos) > 0
	return state
}

func TestCheck_TableDriven(t *testing.T) {
	planned := stateWithTodos(models.Todo{Content: "plan", Status: models.TodoPending})
	unplanned := models.NewWorkflowState("sess1")

	tests := []struct {
		name      string
		state     *models.WorkflowState
		action    string
		wantAllow bool
	}{
		{"read-only always allowed", unplanned, "Read", true},
		{"search always allowed", unplanned, "Grep", true},
		{"todo writes always allowed", unplanned, "TodoWrite", true},
		{"write blocked without todos", unplanned, "Write", false},
		{"edit blocked without todos", unplanned, "Edit", false},
		{"bash blocked without todos", unplanned, "Bash", false},
		{"write allowed with todos", planned, "Write", true},
		{"bash allowed with todos", planned, "Bash", true},
		{"unlisted action defaults to allow", unplanned, "SomeNewTool", true},
		{"nil state fails closed for gated actions", nil, "Write", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.state, tt.action)
			assert.Equal(t, tt.wantAllow, got.Allowed)
			if !tt.wantAllow {
				assert.Contains(t, got.Reason, tt.action)
				assert.Contains(t, got.Reason, "todo")
			}
		})
	}
}

func TestCheck_Monotonic(t *testing.T) {
	state := stateWithTodos(models.Todo{Content: "x", Status: models.TodoPending})
	for range 5 {
		require.True(t, Check(state, "Write").Allowed)
	}
}

func TestCheck_AllowSurvivesEmptyTodoWrite(t *testing.T) {
	cfg := config.Default()
	cfg.ScratchRoot = t.TempDir()
	states := wstate.New(paths.NewResolver(cfg.ScratchRoot), cfg)

	state, err := states.RecordTodos("sess1", []models.Todo{
		{Content: "plan the change", Status: models.TodoPending},
	})
	require.NoError(t, err)
	require.True(t, Check(state, "Write").Allowed)

	// Assistants routinely write an empty list when every item is done;
	// that must not re-lock implementation actions.
	state, err = states.RecordTodos("sess1", nil)
	require.NoError(t, err)
	assert.True(t, Check(state, "Write").Allowed,
		"emptying the todo list does not revoke planning state")

	state, err = states.Clear("sess1")
	require.NoError(t, err)
	assert.False(t, Check(state, "Write").Allowed,
		"an explicit clear does")
}

func TestCheck_Bypass(t *testing.T) {
	t.Setenv(config.EnvBypass, "1")
	got := Check(nil, "Write")
	assert.True(t, got.Allowed, "bypass forces allow regardless of state")
}
