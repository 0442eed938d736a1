// internal/types/position.go
package types

// Position represents a cursor position within the line store.
// Line is the 0-based line index.
// Col is the 0-based column (rune) index within the line.
type Position struct {
	Line int
	Col  int // Rune index
}

// LineRange is a half-open range of line indices [Start, End).
type LineRange struct {
	Start int
	End   int
}

// Len returns the number of lines covered by the range.
func (r LineRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether line lies inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line < r.End
}
