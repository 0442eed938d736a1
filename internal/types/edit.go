// internal/types/edit.go
package types

import sitter "github.com/smacker/go-tree-sitter"

// LineChange is the payload of a line store change notification.
type LineChange struct {
	// Range covers the lines that now hold new content: [start, start+len(newLines)).
	Range LineRange
	// Removed is the number of old lines that were replaced.
	Removed int
	// Full is set when the whole buffer was replaced.
	Full bool
	// Edit describes the same change in bytes/points for incremental parsers.
	Edit EditInfo
}

// Delta returns how many lines were added (negative when lines were removed).
func (c LineChange) Delta() int {
	return c.Range.Len() - c.Removed
}

// EditInfo encapsulates the information needed for tree-sitter's Edit function.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the old text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}
