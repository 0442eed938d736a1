// internal/tui/drawing.go
package tui

import (
	"github.com/bethropolis/tidemark/internal/core"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// withBackground keeps style's foreground and attributes on a new background.
func withBackground(style, bg tcell.Style) tcell.Style {
	_, color, _ := bg.Decompose()
	return style.Background(color)
}

// spanCursor walks the sorted spans of one line alongside increasing rune offsets.
type spanCursor struct {
	spans []types.Span
	next  int
}

// at returns the span covering rune offset r, if any. Offsets must not decrease.
func (c *spanCursor) at(r int) (types.Span, bool) {
	for c.next < len(c.spans) && c.spans[c.next].End() <= r {
		c.next++
	}
	if c.next < len(c.spans) && c.spans[c.next].Covers(r) {
		return c.spans[c.next], true
	}
	return types.Span{}, false
}

// DrawBuffer draws the visible lines of the session into the top viewHeight
// rows of the screen: gutter labels first, then text styled by its spans.
// The current line gets the theme's current-line background across the row.
func DrawBuffer(t *TUI, session *core.Session, activeTheme *theme.Theme) {
	if activeTheme == nil {
		logger.Warnf("DrawBuffer called with nil theme, using package default.")
		activeTheme = theme.DevComfortDark
	}

	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	currentLineStyle := activeTheme.GetStyle(theme.StyleCurrentLine)
	lineNumberStyle := activeTheme.GetStyle(theme.StyleLineNumber)
	lineNumberCurrentStyle := activeTheme.GetStyle(theme.StyleLineNumberCurrent)

	width, _ := t.Size()
	_, viewHeight := session.ViewSize()
	if viewHeight <= 0 || width <= 0 {
		return
	}

	gutterWidth := session.GutterWidth()
	if gutterWidth >= width { // Not enough space for gutter and text
		gutterWidth = 0
	}
	textAreaWidth := width - gutterWidth
	store := session.Store()
	cursorLine := session.Cursor.Line

	entries := make(map[int]types.GutterEntry, viewHeight)
	for _, entry := range session.GutterEntries() {
		entries[entry.Line] = entry
	}

	for screenY := 0; screenY < viewHeight; screenY++ {
		lineIdx := screenY + session.ViewportY
		rowStyle := defaultStyle
		if lineIdx == cursorLine {
			rowStyle = currentLineStyle
		}

		// --- A: Fill the entire row ---
		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, rowStyle)
		}

		// --- B: Gutter ---
		if entry, ok := entries[lineIdx]; ok && gutterWidth > 0 {
			style := lineNumberStyle
			if entry.Current {
				style = withBackground(lineNumberCurrentStyle, currentLineStyle)
			}
			label := session.Gutter().FormatLabel(entry, gutterWidth)
			for i, r := range label {
				if i < gutterWidth {
					t.screen.SetContent(i, screenY, r, nil, style)
				}
			}
		}

		text, err := store.Line(lineIdx)
		if err != nil {
			continue // Below the last line
		}

		// --- C: Text ---
		spans := spanCursor{spans: session.Spans(lineIdx)}
		viewX := session.ViewportX
		visualX := 0
		runeIndex := 0
		gr := uniseg.NewGraphemes(text)
		for gr.Next() {
			clusterRunes := gr.Runes()
			clusterWidth := core.ClusterWidth(gr.Str(), gr.Width(), visualX, session.TabWidth)

			style := rowStyle
			if span, ok := spans.at(runeIndex); ok {
				style = withBackground(activeTheme.SpanStyle(span.Style), rowStyle)
			}

			screenX := visualX - viewX + gutterWidth
			if visualX >= viewX && screenX+clusterWidth <= width {
				mainRune := clusterRunes[0]
				if mainRune == '\t' || gr.Width() == 0 {
					for i := 0; i < clusterWidth; i++ {
						t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
					}
				} else {
					t.screen.SetContent(screenX, screenY, mainRune, clusterRunes[1:], style)
					for cw := 1; cw < clusterWidth; cw++ {
						t.screen.SetContent(screenX+cw, screenY, ' ', nil, style)
					}
				}
			}

			visualX += clusterWidth
			runeIndex += len(clusterRunes)
			if visualX >= viewX+textAreaWidth {
				break
			}
		}
	}
}

// DrawCursor positions the terminal cursor, hiding it when it is off screen.
func DrawCursor(t *TUI, session *core.Session) {
	width, _ := t.Size()
	_, viewHeight := session.ViewSize()
	gutterWidth := session.GutterWidth()
	if gutterWidth >= width {
		gutterWidth = 0
	}

	cursor := session.Cursor
	cursorVisualCol := 0
	if text, err := session.Store().Line(cursor.Line); err == nil {
		cursorVisualCol = core.VisualColumn(text, cursor.Col, session.TabWidth)
	} else {
		logger.Debugf("DrawCursor: Error getting line %d: %v", cursor.Line, err)
	}

	screenX := cursorVisualCol - session.ViewportX + gutterWidth
	screenY := cursor.Line - session.ViewportY
	if screenX < gutterWidth || screenX >= width || screenY < 0 || screenY >= viewHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(screenX, screenY)
}
