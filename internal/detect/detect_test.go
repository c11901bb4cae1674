package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *Detector {
	return New(BuiltinCatalog(), 0.34)
}

func TestDetect_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		wantType  string // "" means no detection
	}{
		{"plain bugfix", "fix the login crash", "bugfix"},
		{"bugfix wins over feature on mixed wording", "add a fix for the signup error", "bugfix"},
		{"feature", "implement a new export feature", "feature"},
		{"refactor", "refactor the payment module", "refactor"},
		{"docs", "update the readme and documentation", "docs"},
		{"testing", "add unit test coverage for parser", "test"},
		{"review", "review the auth changes for quality", "review"},
		{"no signal", "what time is it", ""},
		{"weak signal below floor", "make it", ""},
		{"explicit command bypasses detection", "/fix the login crash", ""},
		{"empty", "", ""},
		{"substring does not match", "prefix the string", ""},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.utterance)
			if tt.wantType == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.WorkflowType)
			assert.Greater(t, got.Confidence, 0.0)
			assert.Less(t, got.Confidence, 1.0)
			assert.NotEmpty(t, got.Steps)
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := newTestDetector()
	first := d.Detect("fix the broken build error")
	for range 10 {
		again := d.Detect("fix the broken build error")
		require.NotNil(t, again)
		assert.Equal(t, first.WorkflowType, again.WorkflowType)
		assert.Equal(t, first.Confidence, again.Confidence)
	}
}

func TestDetect_TieYieldsNothing(t *testing.T) {
	catalog := []Workflow{
		{Type: "alpha", Triggers: []Pattern{{Match: "deploy", Weight: 2}}, Steps: []string{"a"}},
		{Type: "beta", Triggers: []Pattern{{Match: "deploy", Weight: 2}}, Steps: []string{"b"}},
	}
	d := New(catalog, 0.1)
	assert.Nil(t, d.Detect("deploy the service"), "equal scores must not guess a winner")
}

func TestDetect_ExcludesSubtract(t *testing.T) {
	d := newTestDetector()
	got := d.Detect("add a fix")
	require.NotNil(t, got)
	assert.Equal(t, "bugfix", got.WorkflowType, "feature's fix-exclude must push it below bugfix")
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, containsPhrase("please fix this", "fix"))
	assert.True(t, containsPhrase("it is not working today", "not working"))
	assert.False(t, containsPhrase("prefix this", "fix"))
	assert.False(t, containsPhrase("fixing things", "fix"))
	assert.True(t, containsPhrase("fix.", "fix"))
	assert.True(t, containsPhrase("fix", "fix"))
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CatalogFile)
	doc := `workflows:
  - type: deploy
    triggers:
      - match: deploy
        weight: 2
      - match: release
        weight: 1.5
    excludes:
      - match: rollback
        weight: 2
    steps: [stage, ship, verify]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "deploy", catalog[0].Type)
	assert.Equal(t, []string{"stage", "ship", "verify"}, catalog[0].Steps)

	d := New(catalog, 0.34)
	got := d.Detect("deploy the new release")
	require.NotNil(t, got)
	assert.Equal(t, "deploy", got.WorkflowType)

	_, err = LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
