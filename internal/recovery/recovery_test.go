package recovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/paths"
	"github.com/claudekit/sidecar/internal/swap"
	"github.com/claudekit/sidecar/internal/wstate"
	"github.com/claudekit/sidecar/pkg/models"
)

// RecoverySuite is a test suite for the recovery injector.
type RecoverySuite struct {
	suite.Suite
	swaps    *swap.Store
	states   *wstate.Store
	injector *Injector
}

func (s *RecoverySuite) SetupTest() {
	cfg := config.Default()
	cfg.ScratchRoot = s.T().TempDir()
	cfg.Swap.DefaultThreshold = 50
	cfg.Swap.ToolThresholds = nil
	resolver := paths.NewResolver(cfg.ScratchRoot)
	s.swaps = swap.New(resolver, cfg)
	s.states = wstate.New(resolver, cfg)
	s.injector = New(s.swaps, s.states)
}

func TestRecoverySuite(t *testing.T) {
	suite.Run(t, new(RecoverySuite))
}

func (s *RecoverySuite) TestNothingToRecover() {
	s.Empty(s.injector.Build("sess1"), "recovery is opportunistic, not mandatory")
}

func (s *RecoverySuite) TestRendersWorkflowProgress() {
	_, err := s.states.StartWorkflow("sess1", "bugfix", []string{"reproduce", "diagnose", "fix", "test"})
	s.Require().NoError(err)
	_, err = s.states.AdvanceStep("sess1")
	s.Require().NoError(err)

	got := s.injector.Build("sess1")
	s.Contains(got, "bugfix")
	s.Contains(got, "diagnose (2/4)")
	s.Contains(got, "completed: reproduce")
	s.Contains(got, "remaining: fix, test")
}

func (s *RecoverySuite) TestRendersSwapEntriesWithRetrievalInstructions() {
	entry, err := s.swaps.Externalize("sess1", "Bash", "make test", strings.Repeat("build output\n", 50))
	s.Require().NoError(err)

	got := s.injector.Build("sess1")
	s.Contains(got, entry.ID)
	s.Contains(got, entry.ContentPath)
	s.Contains(got, entry.Summary)
}

func (s *RecoverySuite) TestCapsRenderedEntries() {
	for i := range 14 {
		content := strings.Repeat("x", 60+i)
		_, err := s.swaps.Externalize("sess1", "Read", string(rune('a'+i)), content)
		s.Require().NoError(err)
	}

	got := s.injector.Build("sess1")
	s.Contains(got, "(14 stored)")
	s.Equal(MaxEntries, strings.Count(got, "exact content"), "renders at most 10 entries")
}

func (s *RecoverySuite) TestAccessedEntriesRankFirst() {
	cold, err := s.swaps.Externalize("sess1", "Read", "cold", strings.Repeat("c", 60))
	s.Require().NoError(err)
	hot, err := s.swaps.Externalize("sess1", "Read", "hot", strings.Repeat("h", 60))
	s.Require().NoError(err)
	_, err = s.swaps.Retrieve("sess1", hot.ID)
	s.Require().NoError(err)

	got := s.injector.Build("sess1")
	s.Less(strings.Index(got, hot.ID), strings.Index(got, cold.ID),
		"retrieved entries are more relevant")
}

func (s *RecoverySuite) TestLastTodosFallback() {
	_, err := s.states.RecordTodos("sess1", []models.Todo{
		{Content: "wire the handler", Status: models.TodoInProgress},
	})
	s.Require().NoError(err)
	_, err = s.states.RecordTodos("sess1", nil)
	s.Require().NoError(err)

	got := s.injector.Build("sess1")
	s.Contains(got, "recovered from last known list")
	s.Contains(got, "wire the handler")
}

func (s *RecoverySuite) TestLiveTodosPreferred() {
	_, err := s.states.RecordTodos("sess1", []models.Todo{
		{Content: "current item", Status: models.TodoPending},
	})
	s.Require().NoError(err)

	got := s.injector.Build("sess1")
	s.Contains(got, "current item")
	s.NotContains(got, "recovered from last known list")
}
