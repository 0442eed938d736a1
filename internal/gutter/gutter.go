// Package gutter computes the line-number margin shown left of the text.
//
// A Renderer is immutable: it derives widths and entries purely from its
// arguments, so one value can serve any number of views.
package gutter

import (
	"strconv"
	"strings"

	"github.com/bethropolis/tidemark/internal/types"
)

// Config holds gutter configuration.
type Config struct {
	// Padding is the number of blank cells after the widest label.
	Padding int `toml:"padding"`

	// MinDigits is the minimum number of digit cells, regardless of line count.
	MinDigits int `toml:"min_digits"`

	// Relative labels every line but the current one with its distance to the
	// current line.
	Relative bool `toml:"relative"`
}

// DefaultConfig returns the default gutter configuration.
func DefaultConfig() Config {
	return Config{
		Padding:   1,
		MinDigits: 1,
	}
}

// Renderer produces gutter widths and entries.
type Renderer struct {
	config Config
}

// New creates a renderer. Negative values are treated as zero.
func New(config Config) *Renderer {
	if config.Padding < 0 {
		config.Padding = 0
	}
	if config.MinDigits < 0 {
		config.MinDigits = 0
	}
	return &Renderer{config: config}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Width returns the number of cells needed for lineCount lines: the digits of
// the largest 1-based line number plus padding. Non-decreasing in lineCount.
func (r *Renderer) Width(lineCount int) int {
	digits := countDigits(max(lineCount, 1))
	if digits < r.config.MinDigits {
		digits = r.config.MinDigits
	}
	return digits + r.config.Padding
}

// Entries returns one entry per line in [first, last] that exists in a buffer
// of lineCount lines. Only the entry for current is flagged, and only when it
// lies in the produced range.
func (r *Renderer) Entries(first, last, current, lineCount int) []types.GutterEntry {
	if first < 0 {
		first = 0
	}
	if last >= lineCount {
		last = lineCount - 1
	}
	if last < first {
		return nil
	}

	entries := make([]types.GutterEntry, 0, last-first+1)
	for line := first; line <= last; line++ {
		entries = append(entries, types.GutterEntry{
			Line:    line,
			Label:   r.label(line, current, lineCount),
			Current: line == current,
		})
	}
	return entries
}

func (r *Renderer) label(line, current, lineCount int) string {
	if r.config.Relative && line != current && current >= 0 && current < lineCount {
		return strconv.Itoa(abs(line - current))
	}
	return strconv.Itoa(line + 1)
}

// FormatLabel right-aligns the entry label in the digit cells of a gutter of
// the given width and appends the padding. Labels wider than the digit cells
// are returned unpadded on the left.
func (r *Renderer) FormatLabel(entry types.GutterEntry, width int) string {
	digits := width - r.config.Padding
	var sb strings.Builder
	if n := digits - len(entry.Label); n > 0 {
		sb.WriteString(strings.Repeat(" ", n))
	}
	sb.WriteString(entry.Label)
	if r.config.Padding > 0 {
		sb.WriteString(strings.Repeat(" ", r.config.Padding))
	}
	return sb.String()
}

// countDigits returns the number of decimal digits in n.
func countDigits(n int) int {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		n /= 10
		count++
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
