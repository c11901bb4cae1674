package swap

import (
	"os"

	"github.com/claudekit/sidecar/internal/fsutil"
	"github.com/claudekit/sidecar/pkg/models"
)

// loadIndex reads the session manifest. A missing or unreadable manifest
// yields an empty one: the index is a cache of entry existence, and
// entries it has forgotten are simply re-stored on next sight.
func (s *Store) loadIndex(sessionID string) *models.SessionIndex {
	idx := models.NewSessionIndex(sessionID)
	if err := fsutil.ReadJSON(s.paths.IndexPath(sessionID), idx); err != nil {
		return models.NewSessionIndex(sessionID)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]models.IndexEntry)
	}
	return idx
}

func (s *Store) saveIndex(sessionID string, idx *models.SessionIndex) error {
	return fsutil.WriteJSONAtomic(s.paths.IndexPath(sessionID), idx, 0o600)
}

// Index returns a copy of the session manifest. Callers must hold no
// assumptions about entries whose files have been evicted underneath it.
func (s *Store) Index(sessionID string) *models.SessionIndex {
	return s.loadIndex(sessionID)
}

// Entry loads the metadata record for one swap entry.
func (s *Store) Entry(sessionID, id string) (*models.SwapEntry, error) {
	var entry models.SwapEntry
	if err := fsutil.ReadJSON(s.paths.MetaPath(sessionID, id), &entry); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
