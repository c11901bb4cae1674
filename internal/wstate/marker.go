package wstate

import (
	"os"

	"github.com/rs/zerolog/log"
)

// MarkCompaction drops the marker consulted on the next session start.
// The marker hook runs immediately before compaction but the process may
// be torn down mid-write, so everything here is best-effort and readers
// must tolerate a missing marker.
func (s *Store) MarkCompaction(sessionID string) {
	if err := s.paths.EnsureSession(sessionID); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("compaction marker: ensure dir failed")
		return
	}
	if err := os.WriteFile(s.paths.CompactMarkerPath(sessionID), []byte(nowFunc().Format("2006-01-02T15:04:05Z07:00")), 0o600); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("compaction marker write failed")
	}
}

// ConsumeCompactionMarker reports whether a marker is present and removes
// it so one compaction triggers at most one recovery injection.
func (s *Store) ConsumeCompactionMarker(sessionID string) bool {
	path := s.paths.CompactMarkerPath(sessionID)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		log.Debug().Err(err).Str("session", sessionID).Msg("compaction marker remove failed")
	}
	return true
}
