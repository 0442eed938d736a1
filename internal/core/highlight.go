package core

import (
	"context"

	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
)

// Spans returns the cached spans of line, or nil for lines without spans or
// outside the store.
func (s *Session) Spans(line int) []types.Span {
	if line < 0 || line >= len(s.spans) {
		return nil
	}
	return s.spans[line]
}

// SetHighlighter swaps the line highlighter and highlights every line again.
// It also leaves tree-sitter mode.
func (s *Session) SetHighlighter(hl LineHighlighter, language string) {
	s.hl = hl
	s.closeTreeSitter()
	s.rehighlightAll()
	s.dispatch(event.TypeEngineChanged, event.EngineChangedData{Language: language})
}

// SetTreeSitter switches to whole-buffer highlighting with ts. The session
// owns ts from now on. A nil ts returns to line highlighting.
func (s *Session) SetTreeSitter(ts *highlighter.TreeSitterEngine) {
	if ts == s.ts {
		return
	}
	s.closeTreeSitter()
	s.ts = ts
	s.rehighlightAll()
	language := ""
	if ts != nil {
		language = ts.Language().Name
	}
	s.dispatch(event.TypeEngineChanged, event.EngineChangedData{Language: language})
}

// UsingTreeSitter reports whether spans come from a syntax tree.
func (s *Session) UsingTreeSitter() bool {
	return s.ts != nil
}

// Close releases the tree-sitter engine, if any.
func (s *Session) Close() {
	s.closeTreeSitter()
}

func (s *Session) closeTreeSitter() {
	if s.ts != nil {
		s.ts.Close()
		s.ts = nil
	}
}

// onChange keeps the span cache parallel to the store and refreshes the
// dirty lines, then brings the view state in line with the new text.
func (s *Session) onChange(change types.LineChange) {
	before := s.snapshot()
	s.splice(change)

	s.resizeText()
	s.clampCursor()
	s.clampViewport()
	s.ScrollToCursor()
	if !s.editing {
		s.publish(before)
	}
}

// splice updates the span cache for one store change.
func (s *Session) splice(change types.LineChange) {
	if s.ts != nil {
		if change.Full {
			s.ts.Reset()
		} else {
			s.ts.Edit(change.Edit)
		}
		s.rehighlightTree()
		return
	}

	if change.Full {
		s.rehighlightAll()
		return
	}

	start := change.Range.Start
	oldEnd := start + change.Removed
	if oldEnd > len(s.spans) || len(s.spans)+change.Delta() != s.store.LineCount() {
		logger.Warnf("Session: span cache out of step with store (%d lines cached, %d in store), rebuilding",
			len(s.spans), s.store.LineCount())
		s.rehighlightAll()
		return
	}

	spliced := make([][]types.Span, 0, s.store.LineCount())
	spliced = append(spliced, s.spans[:start]...)
	spliced = append(spliced, make([][]types.Span, change.Range.Len())...)
	spliced = append(spliced, s.spans[oldEnd:]...)
	s.spans = spliced

	s.rehighlightDirty()
}

// rehighlightDirty highlights exactly the lines the store marks dirty.
func (s *Session) rehighlightDirty() {
	dirty := s.store.DirtyLines()
	for _, line := range dirty {
		s.highlightLine(line)
	}
	s.store.ClearDirty()
	logger.DebugTagf("highlight", "Session: rehighlighted %d dirty lines", len(dirty))
}

func (s *Session) highlightLine(line int) {
	text, err := s.store.Line(line)
	if err != nil {
		logger.Errorf("Session: highlighting line %d: %v", line, err)
		return
	}
	s.spans[line] = s.hl.HighlightLine(text)
}

func (s *Session) rehighlightAll() {
	if s.ts != nil {
		s.ts.Reset()
		s.rehighlightTree()
		return
	}
	s.spans = make([][]types.Span, s.store.LineCount())
	for line := range s.spans {
		s.highlightLine(line)
	}
	s.store.ClearDirty()
	logger.DebugTagf("highlight", "Session: highlighted all %d lines", len(s.spans))
}

// rehighlightTree reparses the buffer and replaces every line's spans. A parse
// failure falls back to line highlighting.
func (s *Session) rehighlightTree() {
	result, err := s.ts.Highlight(context.Background(), []byte(s.store.Text()))
	if err != nil {
		logger.Errorf("Session: tree-sitter highlight failed, falling back to rules: %v", err)
		s.closeTreeSitter()
		s.rehighlightAll()
		return
	}
	s.spans = make([][]types.Span, s.store.LineCount())
	for line, spans := range result {
		if line < len(s.spans) {
			s.spans[line] = spans
		}
	}
	s.store.ClearDirty()
}
