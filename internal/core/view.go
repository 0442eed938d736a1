package core

import (
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/rivo/uniseg"
)

// viewState is what cursor and viewport events report on.
type viewState struct {
	cursor types.Position
	top    int
	height int
}

func (s *Session) snapshot() viewState {
	return viewState{cursor: s.Cursor, top: s.ViewportY, height: s.viewHeight}
}

// publish dispatches cursor and viewport events for whatever changed since before.
func (s *Session) publish(before viewState) {
	if before.cursor != s.Cursor {
		s.dispatch(event.TypeCursorMoved, event.CursorMovedData{OldPosition: before.cursor, NewPosition: s.Cursor})
	}
	if before.top != s.ViewportY || before.height != s.viewHeight {
		s.dispatch(event.TypeViewportChanged, event.ViewportChangedData{Top: s.ViewportY, Height: s.viewHeight})
	}
}

// ViewSize returns the text area size in cells.
func (s *Session) ViewSize() (width, height int) {
	return s.viewWidth, s.viewHeight
}

// SetViewSize updates the text area dimensions: width is the full view width
// (the gutter is subtracted here), height the number of text rows.
func (s *Session) SetViewSize(width, height int) {
	before := s.snapshot()
	s.fullWidth = width
	s.resizeText()
	if height < 0 {
		height = 0
	}
	s.viewHeight = height
	s.ScrollToCursor()
	s.publish(before)
}

// resizeText recomputes the text area width after the gutter width may have
// changed.
func (s *Session) resizeText() {
	s.viewWidth = s.fullWidth - s.GutterWidth()
	if s.viewWidth < 0 {
		s.viewWidth = 0
	}
}

// SetCursor moves the cursor to pos, clamped to the store.
func (s *Session) SetCursor(pos types.Position) {
	before := s.snapshot()
	s.Cursor = pos
	s.clampCursor()
	s.ScrollToCursor()
	s.publish(before)
}

// MoveCursor moves the cursor AND adjusts the viewport. Moving left from the
// start of a line or right from its end wraps to the neighbouring line.
func (s *Session) MoveCursor(deltaLine, deltaCol int) {
	before := s.snapshot()
	lineCount := s.store.LineCount()

	if deltaLine == 0 && deltaCol > 0 && s.Cursor.Col >= s.lineRunes(s.Cursor.Line) && s.Cursor.Line < lineCount-1 {
		s.Cursor = types.Position{Line: s.Cursor.Line + 1, Col: 0}
	} else if deltaLine == 0 && deltaCol < 0 && s.Cursor.Col <= 0 && s.Cursor.Line > 0 {
		s.Cursor.Line--
		s.Cursor.Col = s.lineRunes(s.Cursor.Line)
	} else {
		s.Cursor.Line += deltaLine
		s.Cursor.Col += deltaCol
		s.clampCursor()
	}

	s.ScrollToCursor()
	s.publish(before)
}

// PageMove moves the cursor and viewport by whole pages; deltaPages is
// typically +1 (PageDown) or -1 (PageUp).
func (s *Session) PageMove(deltaPages int) {
	if s.viewHeight <= 0 {
		return
	}
	before := s.snapshot()

	s.Cursor.Line += s.viewHeight * deltaPages
	s.clampCursor()

	s.ViewportY += s.viewHeight * deltaPages
	s.clampViewport()
	s.ScrollToCursor()
	s.publish(before)
}

// Home moves the cursor to the beginning of the current line.
func (s *Session) Home() {
	before := s.snapshot()
	s.Cursor.Col = 0
	s.ScrollToCursor()
	s.publish(before)
}

// End moves the cursor past the last rune of the current line.
func (s *Session) End() {
	before := s.snapshot()
	s.Cursor.Col = s.lineRunes(s.Cursor.Line)
	s.ScrollToCursor()
	s.publish(before)
}

// ScrollBy scrolls the viewport by delta lines, dragging the cursor along when
// it would leave the view.
func (s *Session) ScrollBy(delta int) {
	if s.viewHeight <= 0 {
		return
	}
	before := s.snapshot()
	s.ViewportY += delta
	s.clampViewport()

	if s.Cursor.Line < s.ViewportY {
		s.Cursor.Line = s.ViewportY
	} else if bottom := s.ViewportY + s.viewHeight - 1; s.Cursor.Line > bottom {
		s.Cursor.Line = bottom
	}
	s.clampCursor()
	s.publish(before)
}

// ScrollToCursor adjusts the viewport incorporating ScrollOff and visual width.
// It does not dispatch events; callers do.
func (s *Session) ScrollToCursor() {
	if s.viewHeight <= 0 {
		return
	}

	// Effective scrolloff (cannot be larger than half the view height)
	scrollOff := s.ScrollOff
	if scrollOff*2 >= s.viewHeight {
		scrollOff = (s.viewHeight - 1) / 2
	}

	if s.Cursor.Line < s.ViewportY+scrollOff {
		s.ViewportY = s.Cursor.Line - scrollOff
	} else if s.Cursor.Line >= s.ViewportY+s.viewHeight-scrollOff {
		s.ViewportY = s.Cursor.Line - s.viewHeight + 1 + scrollOff
	}
	s.clampViewport()

	if s.viewWidth <= 0 {
		return
	}
	text, err := s.store.Line(s.Cursor.Line)
	if err != nil {
		logger.Debugf("ScrollToCursor: Error getting line %d: %v", s.Cursor.Line, err)
		return
	}
	visualCol := VisualColumn(text, s.Cursor.Col, s.TabWidth)
	if visualCol < s.ViewportX {
		s.ViewportX = visualCol
	} else if visualCol >= s.ViewportX+s.viewWidth {
		s.ViewportX = visualCol - s.viewWidth + 1
	}
	if s.ViewportX < 0 {
		s.ViewportX = 0
	}
}

// clampViewport keeps the top line within [0, lineCount-viewHeight].
func (s *Session) clampViewport() {
	maxTop := s.store.LineCount() - s.viewHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if s.ViewportY > maxTop {
		s.ViewportY = maxTop
	}
	if s.ViewportY < 0 {
		s.ViewportY = 0
	}
}

// clampCursor keeps the cursor on an existing line and at most one past its last rune.
func (s *Session) clampCursor() {
	lineCount := s.store.LineCount()
	if s.Cursor.Line >= lineCount {
		s.Cursor.Line = lineCount - 1
	}
	if s.Cursor.Line < 0 {
		s.Cursor.Line = 0
	}
	if s.Cursor.Col < 0 {
		s.Cursor.Col = 0
	}
	if maxCol := s.lineRunes(s.Cursor.Line); s.Cursor.Col > maxCol {
		s.Cursor.Col = maxCol
	}
}

func (s *Session) lineRunes(line int) int {
	text, err := s.store.Line(line)
	if err != nil {
		return 0
	}
	return utf8.RuneCountInString(text)
}

// VisualColumn computes the screen column of rune index runeIndex, counting
// grapheme cluster widths and expanding tabs to the next multiple of tabWidth.
func VisualColumn(text string, runeIndex, tabWidth int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += ClusterWidth(gr.Str(), gr.Width(), visualWidth, tabWidth)
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// ClusterWidth returns the cells a grapheme cluster occupies when drawn at
// column col. Tabs advance to the next tab stop; zero-width clusters such as
// control characters take one cell.
func ClusterWidth(cluster string, width, col, tabWidth int) int {
	if cluster == "\t" {
		if tabWidth <= 0 {
			return 1
		}
		return tabWidth - col%tabWidth
	}
	if width <= 0 {
		return 1
	}
	return width
}
