// internal/buffer/slice_store.go
package buffer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// SliceStore keeps lines in a slice. Edits cost O(lines after the edit) for the
// splice and O(touched lines) for notification.
type SliceStore struct {
	lines       []string
	dirty       map[int]struct{}
	modified    bool
	subscribers []ChangeFunc
	events      *event.Manager
}

// NewSliceStore creates a store holding a single empty line.
func NewSliceStore() *SliceStore {
	return &SliceStore{
		lines: []string{""},
		dirty: make(map[int]struct{}),
	}
}

// SetEventManager makes the store dispatch TypeLinesChanged after every change.
func (s *SliceStore) SetEventManager(mgr *event.Manager) {
	s.events = mgr
}

// Subscribe registers a callback invoked synchronously after every change.
func (s *SliceStore) Subscribe(fn ChangeFunc) {
	s.subscribers = append(s.subscribers, fn)
}

// LineCount returns the number of lines (always at least 1).
func (s *SliceStore) LineCount() int {
	return len(s.lines)
}

// Line returns the text of line index.
func (s *SliceStore) Line(index int) (string, error) {
	if index < 0 || index >= len(s.lines) {
		return "", fmt.Errorf("line %d not in [0, %d): %w", index, len(s.lines), ErrIndexOutOfRange)
	}
	return s.lines[index], nil
}

// Lines returns a copy of all lines.
func (s *SliceStore) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Text returns the buffer joined with newlines.
func (s *SliceStore) Text() string {
	return strings.Join(s.lines, "\n")
}

// Modified reports whether ReplaceRange ran since the last SetText or MarkSaved.
func (s *SliceStore) Modified() bool {
	return s.modified
}

// MarkSaved clears the modified flag.
func (s *SliceStore) MarkSaved() {
	s.modified = false
}

// SetText replaces the entire buffer. A trailing carriage return is dropped from
// every line so CRLF input yields the same lines as LF input.
func (s *SliceStore) SetText(text string) {
	oldText := s.Text()
	oldCount := len(s.lines)

	s.lines = splitLines(text)
	s.modified = false
	s.dirty = make(map[int]struct{}, len(s.lines))
	for i := range s.lines {
		s.dirty[i] = struct{}{}
	}

	newText := s.Text()
	change := types.LineChange{
		Range:   types.LineRange{Start: 0, End: len(s.lines)},
		Removed: oldCount,
		Full:    true,
		Edit: types.EditInfo{
			StartIndex:     0,
			OldEndIndex:    uint32(len(oldText)),
			NewEndIndex:    uint32(len(newText)),
			OldEndPosition: endPoint(oldText),
			NewEndPosition: endPoint(newText),
		},
	}
	logger.DebugTagf("store", "SetText: %d lines (was %d)", len(s.lines), oldCount)
	s.notify(change)
}

// ReplaceRange replaces lines [startLine, endLine) with newLines. Elements of
// newLines that contain newlines are split. Removing every line leaves a single
// empty line, reported as a one-line change.
func (s *SliceStore) ReplaceRange(startLine, endLine int, newLines []string) error {
	count := len(s.lines)
	if startLine < 0 || endLine < startLine || endLine > count {
		return fmt.Errorf("replace range [%d, %d) not within [0, %d]: %w", startLine, endLine, count, ErrIndexOutOfRange)
	}

	inserted := normalizeLines(newLines)
	if startLine == 0 && endLine == count && len(inserted) == 0 {
		inserted = []string{""}
	}
	edit := editInfoFor(s.lines, startLine, endLine, inserted)

	tail := s.lines[endLine:]
	merged := make([]string, 0, startLine+len(inserted)+len(tail))
	merged = append(merged, s.lines[:startLine]...)
	merged = append(merged, inserted...)
	merged = append(merged, tail...)
	s.lines = merged
	s.modified = true

	change := types.LineChange{
		Range:   types.LineRange{Start: startLine, End: startLine + len(inserted)},
		Removed: endLine - startLine,
		Edit:    edit,
	}
	s.shiftDirty(change)
	logger.DebugTagf("store", "ReplaceRange [%d,%d) -> %d lines", startLine, endLine, len(inserted))
	s.notify(change)
	return nil
}

// shiftDirty drops marks of replaced lines, moves marks below the edit by the
// line delta and marks the new lines.
func (s *SliceStore) shiftDirty(change types.LineChange) {
	oldEnd := change.Range.Start + change.Removed
	delta := change.Delta()
	next := make(map[int]struct{}, len(s.dirty)+change.Range.Len())
	for line := range s.dirty {
		switch {
		case line < change.Range.Start:
			next[line] = struct{}{}
		case line >= oldEnd:
			next[line+delta] = struct{}{}
		}
	}
	for line := change.Range.Start; line < change.Range.End; line++ {
		next[line] = struct{}{}
	}
	s.dirty = next
}

// DirtyLines returns the sorted indices of lines changed since the last ClearDirty.
func (s *SliceStore) DirtyLines() []int {
	out := make([]int, 0, len(s.dirty))
	for line := range s.dirty {
		out = append(out, line)
	}
	sort.Ints(out)
	return out
}

// IsDirty reports whether line index changed since the last ClearDirty.
func (s *SliceStore) IsDirty(index int) bool {
	_, ok := s.dirty[index]
	return ok
}

// ClearDirty forgets all dirty marks, typically after a highlight pass.
func (s *SliceStore) ClearDirty() {
	if len(s.dirty) > 0 {
		s.dirty = make(map[int]struct{})
	}
}

func (s *SliceStore) notify(change types.LineChange) {
	for _, fn := range s.subscribers {
		fn(change)
	}
	if s.events != nil {
		s.events.Dispatch(event.TypeLinesChanged, event.LinesChangedData{
			Change:    change,
			LineCount: len(s.lines),
		})
	}
}

// splitLines splits text on newline boundaries; the result is never empty.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func normalizeLines(in []string) []string {
	out := make([]string, 0, len(in))
	for _, line := range in {
		if strings.ContainsRune(line, '\n') {
			out = append(out, splitLines(line)...)
			continue
		}
		out = append(out, line)
	}
	return out
}

// endPoint returns the point just past the last byte of text.
func endPoint(text string) sitter.Point {
	row := strings.Count(text, "\n")
	col := len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		col = len(text) - i - 1
	}
	return sitter.Point{Row: uint32(row), Column: uint32(col)}
}

// editInfoFor describes replacing lines [start, end) of old with inserted as a
// byte edit of the newline-joined text. Must be called before the splice.
func editInfoFor(old []string, start, end int, inserted []string) types.EditInfo {
	offset := 0
	for _, line := range old[:start] {
		offset += len(line) + 1
	}
	oldLen := offset
	for _, line := range old[start:] {
		oldLen += len(line) + 1
	}
	oldLen-- // no newline after the last line

	blockLen := func(lines []string) int {
		n := 0
		for _, line := range lines {
			n += len(line) + 1
		}
		return n
	}
	pt := func(row, col int) sitter.Point {
		return sitter.Point{Row: uint32(row), Column: uint32(col)}
	}
	info := func(startIdx, oldEnd, newEnd int, sp, op, np sitter.Point) types.EditInfo {
		return types.EditInfo{
			StartIndex:     uint32(startIdx),
			OldEndIndex:    uint32(oldEnd),
			NewEndIndex:    uint32(newEnd),
			StartPosition:  sp,
			OldEndPosition: op,
			NewEndPosition: np,
		}
	}

	count := len(old)
	last := count - 1
	n := len(inserted)

	switch {
	case end < count:
		// Every touched line keeps its trailing newline because line `end` survives.
		oldEnd := offset + blockLen(old[start:end])
		newEnd := offset + blockLen(inserted)
		return info(offset, oldEnd, newEnd, pt(start, 0), pt(end, 0), pt(start+n, 0))
	case start == count:
		// Append after the last line: each new line is preceded by a newline.
		newEnd := oldLen + blockLen(inserted)
		sp := pt(last, len(old[last]))
		endPt := sp
		if n > 0 {
			endPt = pt(last+n, len(inserted[n-1]))
		}
		return info(oldLen, oldLen, newEnd, sp, sp, endPt)
	case n > 0:
		// Replace through the end of the buffer.
		newEnd := offset + blockLen(inserted) - 1
		return info(offset, oldLen, newEnd, pt(start, 0), pt(last, len(old[last])), pt(start+n-1, len(inserted[n-1])))
	default:
		// Truncate: the newline ending line start-1 disappears too. start > 0 here,
		// since removing everything is normalized to a single empty line.
		at := offset - 1
		sp := pt(start-1, len(old[start-1]))
		return info(at, oldLen, at, sp, pt(last, len(old[last])), sp)
	}
}
