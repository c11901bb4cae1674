package swap

import (
	"fmt"
	"regexp"
	"strings"
)

// SummaryMaxChars bounds every derived summary. Summaries exist for
// browsing; exact recovery always goes through Retrieve.
const SummaryMaxChars = 500

// Declaration-shaped lines across the languages tool output usually
// contains. Deliberately loose: a summary is a digest, not a parse.
var signatureRe = regexp.MustCompile(`^\s*(func |def |class |type \w+ (struct|interface)|public |private |protected |fn |impl |interface |const \w+ =|export (default )?(function|class|const))`)

// searchTools produce match listings rather than prose or source.
var searchTools = map[string]bool{
	"Grep": true,
	"Glob": true,
	"LS":   true,
}

// summarize derives a bounded browsing digest for content produced by tool.
func summarize(tool, content string) string {
	var s string
	switch {
	case searchTools[tool]:
		s = summarizeSearch(content)
	default:
		if sig := summarizeSignatures(content); sig != "" {
			s = sig
		} else {
			s = strings.TrimSpace(content)
		}
	}
	return truncate(collapseSpace(s), SummaryMaxChars)
}

// summarizeSearch reports match/line counts plus the leading matches.
func summarizeSearch(content string) string {
	lines := nonEmptyLines(content)
	head := lines
	if len(head) > 5 {
		head = head[:5]
	}
	return fmt.Sprintf("%d matches; first: %s", len(lines), strings.Join(head, " | "))
}

// summarizeSignatures extracts declaration lines from source-like text.
// Returns "" when the text does not look structural.
func summarizeSignatures(content string) string {
	var sigs []string
	for _, line := range strings.Split(content, "\n") {
		if signatureRe.MatchString(line) {
			sigs = append(sigs, strings.TrimSpace(line))
			if len(sigs) >= 12 {
				break
			}
		}
	}
	if len(sigs) < 2 {
		return ""
	}
	return fmt.Sprintf("%d declarations: %s", len(sigs), strings.Join(sigs, "; "))
}

func nonEmptyLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max-3]
	// Do not split a multi-byte rune.
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut + "…"
}
