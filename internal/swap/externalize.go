package swap

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/fsutil"
	"github.com/claudekit/sidecar/internal/lockfile"
	"github.com/claudekit/sidecar/pkg/models"
)

// Externalize stores an oversized tool output and returns its entry.
//
// Preconditions are checked before any I/O: content must exceed the tool's
// threshold, stay under the per-entry cap, and must not itself be a read of
// previously swapped content. Under the session lock, the write order is
// content file, metadata, index: a crash mid-sequence leaves at worst
// an orphaned content file, never an index entry pointing at nothing.
func (s *Store) Externalize(sessionID, tool, input, content string) (*models.SwapEntry, error) {
	threshold := s.cfg.ThresholdFor(tool)
	if len(content) <= threshold {
		return nil, ErrBelowThreshold
	}
	if len(content) > s.cfg.Swap.MaxEntryBytes {
		return nil, ErrTooLarge
	}
	if s.isSwapRetrieval(sessionID, input) {
		return nil, ErrRecursive
	}

	if err := s.paths.EnsureSession(sessionID); err != nil {
		return nil, fmt.Errorf("swap: ensure session dir: %w", err)
	}

	lock, err := lockfile.Acquire(s.paths.LockPath(sessionID), s.lockOptions())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Debug().Err(err).Str("session", sessionID).Msg("lock release failed")
		}
	}()

	idx := s.loadIndex(sessionID)
	id := EntryID(sessionID, tool, input, content)
	if _, seen := idx.Entries[id]; seen {
		// Same triple already stored; content addressing makes this a
		// lookup, not a second write, so quotas do not apply.
		return s.Entry(sessionID, id)
	}
	if idx.TotalEntries >= s.cfg.Swap.MaxEntries ||
		idx.TotalBytes+int64(len(content)) > s.cfg.Swap.MaxBytes {
		return nil, ErrQuotaExceeded
	}

	now := s.now()
	entry := &models.SwapEntry{
		ID:          id,
		SessionID:   sessionID,
		SourceTool:  tool,
		SourceInput: truncate(input, 300),
		Summary:     summarize(tool, content),
		Metrics:     computeMetrics(content),
		ContentPath: s.paths.ContentPath(sessionID, id),
		CapturedAt:  now,
		ExpiresAt:   now.Add(s.cfg.Retention()),
	}

	if err := os.WriteFile(entry.ContentPath, []byte(content), 0o600); err != nil {
		return nil, fmt.Errorf("swap: write content: %w", err)
	}
	if err := fsutil.WriteJSONAtomic(s.paths.MetaPath(sessionID, id), entry, 0o600); err != nil {
		return nil, fmt.Errorf("swap: write metadata: %w", err)
	}

	idx.Put(id, models.IndexEntry{
		Tool:          tool,
		SummaryPrefix: truncate(entry.Summary, 80),
		Size:          int64(len(content)),
	})
	if err := s.saveIndex(sessionID, idx); err != nil {
		return nil, fmt.Errorf("swap: update index: %w", err)
	}

	log.Debug().Str("session", sessionID).Str("id", id).Str("tool", tool).
		Int("chars", entry.Metrics.CharCount).Msg("externalized tool output")
	return entry, nil
}

// isSwapRetrieval reports whether a tool invocation was itself a read of
// this session's swap storage. Re-externalizing such content would loop.
func (s *Store) isSwapRetrieval(sessionID, input string) bool {
	return input != "" && strings.Contains(input, s.paths.SwapDir(sessionID))
}
