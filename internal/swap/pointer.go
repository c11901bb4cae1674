package swap

import (
	"fmt"
	"strings"

	"github.com/claudekit/sidecar/pkg/models"
)

// Pointer renders the compact reference left in the conversation in place
// of externalized content. Pure formatting; no I/O.
func Pointer(entry *models.SwapEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[swapped output %s]\n", entry.ID)
	fmt.Fprintf(&b, "source: %s", entry.SourceTool)
	if entry.SourceInput != "" {
		fmt.Fprintf(&b, " (%s)", entry.SourceInput)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "size: %d chars, %d lines, ~%d tokens\n",
		entry.Metrics.CharCount, entry.Metrics.LineCount, entry.Metrics.TokenCount)
	if entry.Summary != "" {
		fmt.Fprintf(&b, "summary: %s\n", entry.Summary)
	}
	fmt.Fprintf(&b, "exact content: read %s", entry.ContentPath)
	return b.String()
}
