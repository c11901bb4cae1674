package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverLayout(t *testing.T) {
	r := NewResolver("/scratch")

	assert.Equal(t, "/scratch/sess-1", r.SessionDir("sess-1"))
	assert.Equal(t, "/scratch/sess-1/swap", r.SwapDir("sess-1"))
	assert.Equal(t, "/scratch/sess-1/index.json", r.IndexPath("sess-1"))
	assert.Equal(t, "/scratch/sess-1/state.json", r.StatePath("sess-1"))
	assert.Equal(t, "/scratch/sess-1/.lock", r.LockPath("sess-1"))
	assert.Equal(t, "/scratch/sess-1/compaction.marker", r.CompactMarkerPath("sess-1"))
	assert.Equal(t, "/scratch/sess-1/swap/abc123.out", r.ContentPath("sess-1", "abc123"))
	assert.Equal(t, "/scratch/sess-1/swap/abc123.json", r.MetaPath("sess-1", "abc123"))
}

func TestSanitize(t *testing.T) {
	r := NewResolver("/scratch")

	assert.Equal(t, "/scratch/a_b_c", r.SessionDir("a/b\x00c"))
	assert.Equal(t, "/scratch/_unknown", r.SessionDir(""))
	assert.NotContains(t, filepath.Base(r.SessionDir("../../etc")), "/")
}

func TestEnsureSession(t *testing.T) {
	r := NewResolver(t.TempDir())
	require.NoError(t, r.EnsureSession("sess-1"))

	info, err := os.Stat(r.SwapDir("sess-1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, r.EnsureSession("sess-1"), "idempotent")
}
