package swap

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/fsutil"
	"github.com/claudekit/sidecar/internal/lockfile"
)

// Retrieve returns the exact bytes stored for an entry. The access
// bookkeeping on the metadata record is best-effort: a failed metadata
// update never fails the read.
func (s *Store) Retrieve(sessionID, id string) ([]byte, error) {
	content, err := os.ReadFile(s.paths.ContentPath(sessionID, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.touch(sessionID, id)
	return content, nil
}

// touch bumps AccessCount and LastAccessedAt under the session lock,
// swallowing every failure.
func (s *Store) touch(sessionID, id string) {
	opts := s.lockOptions()
	opts.Timeout = opts.Timeout / 4 // reads should not queue behind writers for long
	lock, err := lockfile.Acquire(s.paths.LockPath(sessionID), opts)
	if err != nil {
		log.Debug().Err(err).Str("id", id).Msg("skipping access bookkeeping")
		return
	}
	defer lock.Release()

	entry, err := s.Entry(sessionID, id)
	if err != nil {
		return
	}
	now := s.now()
	entry.AccessCount++
	entry.LastAccessedAt = now
	// Retrieved content is assumed more valuable: push the expiry out.
	if extended := now.Add(s.cfg.Retention() * 2); extended.After(entry.ExpiresAt) {
		entry.ExpiresAt = extended
	}
	if err := fsutil.WriteJSONAtomic(s.paths.MetaPath(sessionID, id), entry, 0o600); err != nil {
		log.Debug().Err(err).Str("id", id).Msg("access bookkeeping write failed")
	}
}
