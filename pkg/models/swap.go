// Package models contains domain models for ck-sidecar.
package models

import "time"

// SwapMetrics describes the size of an externalized artifact.
type SwapMetrics struct {
	CharCount  int `json:"char_count"`
	LineCount  int `json:"line_count"`
	TokenCount int `json:"token_count"` // approximate, cl100k_base
}

// SwapEntry is the metadata record for one externalized tool output.
// The content itself lives in a sibling file and is immutable once written;
// only LastAccessedAt and AccessCount mutate after creation.
type SwapEntry struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"session_id"`
	SourceTool     string      `json:"source_tool"`
	SourceInput    string      `json:"source_input,omitempty"`
	Summary        string      `json:"summary"`
	Metrics        SwapMetrics `json:"metrics"`
	ContentPath    string      `json:"content_path"`
	CapturedAt     time.Time   `json:"captured_at"`
	ExpiresAt      time.Time   `json:"expires_at"`
	LastAccessedAt time.Time   `json:"last_accessed_at,omitempty"`
	AccessCount    int         `json:"access_count"`
}

// Accessed reports whether the entry was ever retrieved.
func (e *SwapEntry) Accessed() bool {
	return e.AccessCount > 0
}

// IndexEntry is the per-entry slice of the session manifest. It caches the
// existence of a SwapEntry, never its content.
type IndexEntry struct {
	Tool          string `json:"tool"`
	SummaryPrefix string `json:"summary_prefix"`
	Size          int64  `json:"size"`
}

// SessionIndex is the per-session manifest of externalized artifacts.
type SessionIndex struct {
	SessionID    string                `json:"session_id"`
	Entries      map[string]IndexEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	TotalBytes   int64                 `json:"total_bytes"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// NewSessionIndex creates an empty manifest for a session.
func NewSessionIndex(sessionID string) *SessionIndex {
	return &SessionIndex{
		SessionID: sessionID,
		Entries:   make(map[string]IndexEntry),
	}
}

// Put inserts or replaces an index entry and recomputes the aggregates.
func (idx *SessionIndex) Put(id string, entry IndexEntry) {
	if idx.Entries == nil {
		idx.Entries = make(map[string]IndexEntry)
	}
	if prev, ok := idx.Entries[id]; ok {
		idx.TotalBytes -= prev.Size
		idx.TotalEntries--
	}
	idx.Entries[id] = entry
	idx.TotalEntries++
	idx.TotalBytes += entry.Size
	idx.UpdatedAt = time.Now()
}

// Remove drops an index entry and adjusts the aggregates. Unknown ids are a no-op.
func (idx *SessionIndex) Remove(id string) {
	entry, ok := idx.Entries[id]
	if !ok {
		return
	}
	delete(idx.Entries, id)
	idx.TotalEntries--
	idx.TotalBytes -= entry.Size
	idx.UpdatedAt = time.Now()
}
