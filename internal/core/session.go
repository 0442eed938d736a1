// internal/core/session.go
package core

import (
	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/gutter"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
)

// LineHighlighter maps one line of text to styled spans.
type LineHighlighter interface {
	HighlightLine(text string) []types.Span
}

// Session ties a line store to a highlighter and a gutter renderer and keeps
// the view state (cursor and viewport) of one editing session.
//
// Every store change is handled synchronously: the span cache is spliced and
// only the dirty lines are highlighted again before the store's other
// subscribers and event handlers run.
type Session struct {
	store  buffer.LineStore
	hl     LineHighlighter
	ts     *highlighter.TreeSitterEngine
	gutter *gutter.Renderer
	events *event.Manager

	spans [][]types.Span // per line, parallel to the store

	Cursor     types.Position
	ViewportY  int // Top visible line index (0-based)
	ViewportX  int // Leftmost visible visual column
	fullWidth  int // Width passed to SetViewSize, gutter included
	viewWidth  int // Text area width, excluding the gutter
	viewHeight int // Text rows
	ScrollOff  int // Number of lines to keep visible above/below cursor
	TabWidth   int

	editing bool // an edit method publishes view events itself
}

// NewSession highlights the whole store and subscribes to its changes.
// events may be nil.
func NewSession(store buffer.LineStore, hl LineHighlighter, g *gutter.Renderer, events *event.Manager) *Session {
	if hl == nil {
		hl = highlighter.MustEngine(nil)
	}
	if g == nil {
		g = gutter.New(gutter.DefaultConfig())
	}
	s := &Session{
		store:     store,
		hl:        hl,
		gutter:    g,
		events:    events,
		ScrollOff: config.DefaultScrollOff,
		TabWidth:  config.DefaultTabWidth,
	}
	s.rehighlightAll()
	store.Subscribe(s.onChange)
	logger.Debugf("Session: created with %d lines", store.LineCount())
	return s
}

// Store returns the session's line store.
func (s *Session) Store() buffer.LineStore {
	return s.store
}

// Gutter returns the gutter renderer.
func (s *Session) Gutter() *gutter.Renderer {
	return s.gutter
}

// dispatch sends an event when an event manager is attached.
func (s *Session) dispatch(eventType event.Type, data interface{}) {
	if s.events != nil {
		s.events.Dispatch(eventType, data)
	}
}

// GutterWidth returns the gutter width for the current line count.
func (s *Session) GutterWidth() int {
	return s.gutter.Width(s.store.LineCount())
}

// GutterEntries returns the entries of the visible lines, computed from the
// store as it is now.
func (s *Session) GutterEntries() []types.GutterEntry {
	last := s.ViewportY + s.viewHeight - 1
	return s.gutter.Entries(s.ViewportY, last, s.Cursor.Line, s.store.LineCount())
}
