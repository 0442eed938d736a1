// internal/buffer/buffer.go
package buffer

import (
	"errors"

	"github.com/bethropolis/tidemark/internal/types"
)

// ErrIndexOutOfRange is returned when a line index or range lies outside the store.
// It always indicates a caller bug.
var ErrIndexOutOfRange = errors.New("line index out of range")

// ErrNoFilePath is returned by Save when the buffer has no file to go to.
var ErrNoFilePath = errors.New("no file path")

// ChangeFunc receives change notifications from a LineStore.
type ChangeFunc func(change types.LineChange)

// LineStore is the single source of truth for text content, addressed by line index.
type LineStore interface {
	Line(index int) (string, error)
	LineCount() int
	Lines() []string
	Text() string

	SetText(text string)
	ReplaceRange(startLine, endLine int, newLines []string) error

	DirtyLines() []int
	IsDirty(index int) bool
	ClearDirty()

	Modified() bool
	MarkSaved()
	Subscribe(fn ChangeFunc)
}
