// internal/types/span.go
package types

// StyleTag names a highlight category. The style sheet maps tags to colours.
type StyleTag string

// Recognized categories. Rule files may use any other tag; unknown tags fall
// back to the theme's Default style when drawn.
const (
	Keyword  StyleTag = "keyword"
	Comment  StyleTag = "comment"
	String   StyleTag = "string"
	Number   StyleTag = "number"
	Function StyleTag = "function"
	Type     StyleTag = "type"
	Constant StyleTag = "constant"
	Operator StyleTag = "operator"
)

// Span is a styled character range within a single line.
// Start and Length are measured in runes, not bytes.
type Span struct {
	Start  int
	Length int
	Style  StyleTag
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Covers reports whether the rune at col belongs to the span.
func (s Span) Covers(col int) bool {
	return col >= s.Start && col < s.End()
}

// GutterEntry is one line-number label of the visible range.
type GutterEntry struct {
	Line    int    // 0-based line index in the store
	Label   string // text drawn in the gutter
	Current bool   // true for the cursor line
}

// StyleRule pairs a regular expression with the style applied to its matches.
// Rules are ordered: a character claimed by an earlier rule is never restyled.
type StyleRule struct {
	Pattern string   `toml:"pattern"`
	Style   StyleTag `toml:"style"`
}
