package highlighter

import (
	"sort"

	"github.com/bethropolis/tidemark/internal/types"
)

// claims records which runes of one line already carry a style.
type claims struct {
	taken []bool
	spans []types.Span
}

func newClaims(runeCount int) *claims {
	return &claims{taken: make([]bool, runeCount)}
}

// claim styles the unclaimed runes of [start, end), skipping runes an earlier
// claim owns. Out-of-range bounds are clipped.
func (c *claims) claim(start, end int, style types.StyleTag) {
	if start < 0 {
		start = 0
	}
	if end > len(c.taken) {
		end = len(c.taken)
	}
	runStart := -1
	for i := start; i < end; i++ {
		if c.taken[i] {
			if runStart >= 0 {
				c.spans = append(c.spans, types.Span{Start: runStart, Length: i - runStart, Style: style})
				runStart = -1
			}
			continue
		}
		c.taken[i] = true
		if runStart < 0 {
			runStart = i
		}
	}
	if runStart >= 0 {
		c.spans = append(c.spans, types.Span{Start: runStart, Length: end - runStart, Style: style})
	}
}

// result returns the spans ordered by start offset.
func (c *claims) result() []types.Span {
	if len(c.spans) == 0 {
		return nil
	}
	sort.Slice(c.spans, func(i, j int) bool { return c.spans[i].Start < c.spans[j].Start })
	return c.spans
}
