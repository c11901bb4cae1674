// Package detect scores user utterances against weighted trigger and
// exclude pattern sets to infer a development workflow. The scoring is
// deterministic on purpose: identical utterance and catalog always yield
// the identical result, so detection behavior is auditable and testable.
package detect

import (
	"strings"
	"unicode"
)

// CommandMarker prefixes explicit direct commands, which always bypass
// inference.
const CommandMarker = "/"

// Match is a successful detection.
type Match struct {
	WorkflowType string
	Confidence   float64
	Steps        []string
}

// Detector scores utterances against a workflow catalog.
type Detector struct {
	catalog       []Workflow
	minConfidence float64
}

// New creates a detector over catalog. Scores are mapped to a (0,1)
// confidence; detections below minConfidence are discarded.
func New(catalog []Workflow, minConfidence float64) *Detector {
	return &Detector{catalog: catalog, minConfidence: minConfidence}
}

// Detect returns the best-scoring workflow for an utterance, or nil when
// nothing clears the confidence floor. Explicit commands bypass detection,
// and a tie between two types is treated as no detection: guessing a
// priority order would silently override user intent.
func (d *Detector) Detect(utterance string) *Match {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" || strings.HasPrefix(trimmed, CommandMarker) {
		return nil
	}
	lowered := strings.ToLower(trimmed)

	var (
		best      *Match
		bestScore float64
		tied      bool
	)
	for _, wf := range d.catalog {
		score := scoreWorkflow(lowered, wf)
		if score <= 0 {
			continue
		}
		switch {
		case best == nil || score > bestScore:
			best = &Match{WorkflowType: wf.Type, Confidence: confidence(score), Steps: wf.Steps}
			bestScore = score
			tied = false
		case score == bestScore:
			tied = true
		}
	}
	if best == nil || tied || best.Confidence < d.minConfidence {
		return nil
	}
	return best
}

func scoreWorkflow(lowered string, wf Workflow) float64 {
	var score float64
	for _, p := range wf.Triggers {
		if containsPhrase(lowered, p.Match) {
			score += p.Weight
		}
	}
	for _, p := range wf.Excludes {
		if containsPhrase(lowered, p.Match) {
			score -= p.Weight
		}
	}
	return score
}

// confidence maps an unbounded score into (0,1), monotonically.
func confidence(score float64) float64 {
	return score / (score + 2)
}

// containsPhrase reports a whole-word occurrence of phrase in s. Both are
// expected lowercase; phrase may span multiple words.
func containsPhrase(s, phrase string) bool {
	phrase = strings.ToLower(phrase)
	for from := 0; ; {
		i := strings.Index(s[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		if boundary(s, start-1) && boundary(s, end) {
			return true
		}
		from = start + 1
	}
}

// boundary reports whether position i (possibly out of range) does not
// continue a word.
func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := rune(s[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}
