package swap

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"

	"github.com/claudekit/sidecar/pkg/models"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// computeMetrics fills char/line counts and an approximate token count.
// CharCount is a rune count; thresholds and quotas use byte lengths and are
// computed by the caller. Token counting uses cl100k_base; if the codec
// cannot be loaded the count falls back to the chars/4 heuristic.
func computeMetrics(content string) models.SwapMetrics {
	m := models.SwapMetrics{
		CharCount: utf8.RuneCountInString(content),
		LineCount: strings.Count(content, "\n") + 1,
	}
	if content == "" {
		m.LineCount = 0
		return m
	}

	codecOnce.Do(func() {
		c, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = c
		}
	})
	if codec != nil {
		if n, err := codec.Count(content); err == nil {
			m.TokenCount = n
			return m
		}
	}
	m.TokenCount = len(content) / 4
	return m
}
