// Package swap implements the externalized-memory store: threshold-based
// externalization of oversized tool outputs into content-addressed files,
// with summaries for browsing, exact retrieval by id, and age-based
// eviction.
//
// Externalization is an optimization, never a correctness requirement.
// Every failure short of a policy decision degrades to "leave the content
// inline": callers treat any error from Externalize as a skip.
package swap

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/lockfile"
	"github.com/claudekit/sidecar/internal/paths"
)

// Skip reasons. Callers use errors.Is to distinguish "not stored, keep the
// content inline" from real storage faults; all of them are non-fatal.
var (
	ErrBelowThreshold = errors.New("swap: content at or below threshold")
	ErrTooLarge       = errors.New("swap: content exceeds per-entry cap")
	ErrQuotaExceeded  = errors.New("swap: session quota exceeded")
	ErrRecursive      = errors.New("swap: content is a retrieval of swapped content")
	ErrNotFound       = errors.New("swap: entry not found")
)

// Skippable reports whether err is an expected skip reason rather than a
// storage fault.
func Skippable(err error) bool {
	return errors.Is(err, ErrBelowThreshold) ||
		errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrRecursive) ||
		errors.Is(err, lockfile.ErrTimeout)
}

// Store is the swap store for all sessions under one scratch root.
type Store struct {
	paths *paths.Resolver
	cfg   *config.Config
	now   func() time.Time
}

// New creates a swap store.
func New(resolver *paths.Resolver, cfg *config.Config) *Store {
	return &Store{paths: resolver, cfg: cfg, now: time.Now}
}

// Paths exposes the resolver, mainly for pointer rendering and tests.
func (s *Store) Paths() *paths.Resolver { return s.paths }

func (s *Store) lockOptions() lockfile.Options {
	return lockfile.Options{
		Timeout:    s.cfg.LockTimeout(),
		StaleAfter: s.cfg.LockStaleAfter(),
	}
}

// EntryID derives the content-addressed identifier for a tool output.
// Identical (tool, input, content) triples within a session always map to
// the same id.
func EntryID(sessionID, tool, input, content string) string {
	h := sha256.New()
	for _, part := range []string{sessionID, tool, input, content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
