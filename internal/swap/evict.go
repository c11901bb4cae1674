package swap

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/claudekit/sidecar/internal/fsutil"
	"github.com/claudekit/sidecar/internal/lockfile"
)

// Teardown removes the entire swap storage for a session, index included.
// Irreversible; used on explicit clear or session exit.
func (s *Store) Teardown(sessionID string) error {
	if err := os.RemoveAll(s.paths.SessionDir(sessionID)); err != nil {
		return err
	}
	log.Debug().Str("session", sessionID).Msg("session swap storage torn down")
	return nil
}

// Prune deletes entries past their expiry and returns how many were
// removed. Entries never retrieved have their expiry shortened to half the
// configured retention window first (persisted, so the next pass honors it
// too; the target is fixed relative to capture time, so repeated passes
// never shorten further). An entry is only ever deleted once "now" is past
// its stored expiry.
//
// Prune is advisory: individual delete failures are logged and skipped,
// and lock contention aborts the whole pass quietly.
func (s *Store) Prune(sessionID string, now time.Time) (int, error) {
	lock, err := lockfile.Acquire(s.paths.LockPath(sessionID), s.lockOptions())
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	idx := s.loadIndex(sessionID)
	var expired []string
	for id := range idx.Entries {
		entry, err := s.Entry(sessionID, id)
		if err != nil {
			// Metadata gone but index remembers it: drop the reference.
			expired = append(expired, id)
			continue
		}
		if !entry.Accessed() {
			shortened := entry.CapturedAt.Add(s.cfg.Retention() / 2)
			if shortened.Before(entry.ExpiresAt) {
				entry.ExpiresAt = shortened
				if err := fsutil.WriteJSONAtomic(s.paths.MetaPath(sessionID, id), entry, 0o600); err != nil {
					log.Debug().Err(err).Str("id", id).Msg("prune: expiry shorten failed")
				}
			}
		}
		if now.After(entry.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	var g errgroup.Group
	for _, id := range expired {
		g.Go(func() error {
			if err := os.Remove(s.paths.ContentPath(sessionID, id)); err != nil && !os.IsNotExist(err) {
				log.Debug().Err(err).Str("id", id).Msg("prune: content delete failed")
			}
			if err := os.Remove(s.paths.MetaPath(sessionID, id)); err != nil && !os.IsNotExist(err) {
				log.Debug().Err(err).Str("id", id).Msg("prune: metadata delete failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, id := range expired {
		idx.Remove(id)
	}
	if err := s.saveIndex(sessionID, idx); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("prune: index write failed")
	}
	log.Debug().Str("session", sessionID).Int("removed", len(expired)).Msg("pruned swap entries")
	return len(expired), nil
}
