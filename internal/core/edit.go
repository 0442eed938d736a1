package core

import (
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
)

// Editing goes through the store's ReplaceRange, so only the touched lines
// are marked dirty and highlighted again.

// cursorLine returns the cursor line as runes with the cursor column clamped to it.
func (s *Session) cursorLine() (line, col int, runes []rune, err error) {
	s.clampCursor()
	line, col = s.Cursor.Line, s.Cursor.Col
	text, err := s.store.Line(line)
	if err != nil {
		return 0, 0, nil, err
	}
	runes = []rune(text)
	if col > len(runes) {
		col = len(runes)
	}
	return line, col, runes, nil
}

// applyEdit runs fn against the store and then places the cursor, publishing a
// single set of view events for the whole edit.
func (s *Session) applyEdit(cursor types.Position, fn func() error) error {
	before := s.snapshot()
	s.editing = true
	err := fn()
	s.editing = false
	if err != nil {
		logger.Warnf("Session: edit failed: %v", err)
		s.clampCursor()
		s.publish(before)
		return err
	}
	s.Cursor = cursor
	s.clampCursor()
	s.ScrollToCursor()
	s.publish(before)
	return nil
}

// InsertRune inserts r at the cursor and moves the cursor past it.
// A newline splits the line.
func (s *Session) InsertRune(r rune) error {
	if r == '\n' {
		return s.InsertNewline()
	}
	line, col, runes, err := s.cursorLine()
	if err != nil {
		return err
	}
	updated := string(runes[:col]) + string(r) + string(runes[col:])
	return s.applyEdit(types.Position{Line: line, Col: col + 1}, func() error {
		return s.store.ReplaceRange(line, line+1, []string{updated})
	})
}

// InsertNewline splits the cursor line in two at the cursor.
func (s *Session) InsertNewline() error {
	line, col, runes, err := s.cursorLine()
	if err != nil {
		return err
	}
	parts := []string{string(runes[:col]), string(runes[col:])}
	return s.applyEdit(types.Position{Line: line + 1, Col: 0}, func() error {
		return s.store.ReplaceRange(line, line+1, parts)
	})
}

// DeleteBackward removes the rune before the cursor. At the start of a line
// it joins the line onto the previous one.
func (s *Session) DeleteBackward() error {
	line, col, runes, err := s.cursorLine()
	if err != nil {
		return err
	}
	if col > 0 {
		updated := string(runes[:col-1]) + string(runes[col:])
		return s.applyEdit(types.Position{Line: line, Col: col - 1}, func() error {
			return s.store.ReplaceRange(line, line+1, []string{updated})
		})
	}
	if line == 0 {
		return nil
	}
	prev, err := s.store.Line(line - 1)
	if err != nil {
		return err
	}
	joinAt := len([]rune(prev))
	return s.applyEdit(types.Position{Line: line - 1, Col: joinAt}, func() error {
		return s.store.ReplaceRange(line-1, line+1, []string{prev + string(runes)})
	})
}

// DeleteForward removes the rune under the cursor. At the end of a line it
// joins the next line onto this one.
func (s *Session) DeleteForward() error {
	line, col, runes, err := s.cursorLine()
	if err != nil {
		return err
	}
	if col < len(runes) {
		updated := string(runes[:col]) + string(runes[col+1:])
		return s.applyEdit(types.Position{Line: line, Col: col}, func() error {
			return s.store.ReplaceRange(line, line+1, []string{updated})
		})
	}
	if line >= s.store.LineCount()-1 {
		return nil
	}
	next, err := s.store.Line(line + 1)
	if err != nil {
		return err
	}
	return s.applyEdit(types.Position{Line: line, Col: col}, func() error {
		return s.store.ReplaceRange(line, line+2, []string{string(runes) + next})
	})
}

// DeleteLine removes the cursor line. The cursor stays on the same index,
// moved to column 0.
func (s *Session) DeleteLine() error {
	line := s.Cursor.Line
	return s.applyEdit(types.Position{Line: line, Col: 0}, func() error {
		return s.store.ReplaceRange(line, line+1, nil)
	})
}
