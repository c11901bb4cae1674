// Package paths resolves per-session storage locations under the shared
// scratch root. It is pure path composition; nothing here touches state
// beyond directory creation.
package paths

import (
	"os"
	"path/filepath"
)

// File names inside a session directory.
const (
	indexFile  = "index.json"
	stateFile  = "state.json"
	lockFile   = ".lock"
	markerFile = "compaction.marker"
	debugFile  = "debug.log"
	swapSubdir = "swap"
)

// Resolver computes storage locations for sessions under a scratch root.
type Resolver struct {
	Root string
}

// NewResolver returns a resolver rooted at root.
func NewResolver(root string) *Resolver {
	return &Resolver{Root: root}
}

// SessionDir is the directory holding everything for one session.
func (r *Resolver) SessionDir(sessionID string) string {
	return filepath.Join(r.Root, sanitize(sessionID))
}

// SwapDir holds the content and metadata files of externalized artifacts.
func (r *Resolver) SwapDir(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), swapSubdir)
}

// IndexPath is the session manifest document.
func (r *Resolver) IndexPath(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), indexFile)
}

// StatePath is the workflow state document.
func (r *Resolver) StatePath(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), stateFile)
}

// LockPath is the per-session advisory lock file.
func (r *Resolver) LockPath(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), lockFile)
}

// CompactMarkerPath is the marker written immediately before compaction.
func (r *Resolver) CompactMarkerPath(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), markerFile)
}

// DebugLogPath is where debug-mode logs for a session accumulate.
func (r *Resolver) DebugLogPath(sessionID string) string {
	return filepath.Join(r.SessionDir(sessionID), debugFile)
}

// ContentPath is the verbatim content file for a swap entry.
func (r *Resolver) ContentPath(sessionID, id string) string {
	return filepath.Join(r.SwapDir(sessionID), id+".out")
}

// MetaPath is the metadata document for a swap entry.
func (r *Resolver) MetaPath(sessionID, id string) string {
	return filepath.Join(r.SwapDir(sessionID), id+".json")
}

// EnsureSession creates the session and swap directories.
func (r *Resolver) EnsureSession(sessionID string) error {
	return os.MkdirAll(r.SwapDir(sessionID), 0o700)
}

// sanitize keeps session ids path-safe. Claude session ids are UUIDs, but
// nothing stops a caller handing us something stranger.
func sanitize(sessionID string) string {
	if sessionID == "" {
		return "_unknown"
	}
	clean := make([]rune, 0, len(sessionID))
	for _, c := range sessionID {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			clean = append(clean, c)
		default:
			clean = append(clean, '_')
		}
	}
	out := string(clean)
	if out == "." || out == ".." {
		return "_unknown"
	}
	return out
}
