package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/tidemark/internal/core"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/gdamore/tcell/v2"
)

const ansiReset = "\x1b[0m"

// Dump writes every line of the session with its gutter label. With color,
// spans are wrapped in 24-bit ANSI sequences taken from th.
func Dump(w io.Writer, session *core.Session, th *theme.Theme, color bool) error {
	if th == nil {
		th = theme.DevComfortDark
	}
	bw := bufio.NewWriter(w)
	store := session.Store()
	lineCount := store.LineCount()
	gutterWidth := session.GutterWidth()
	gutterSGR := sgr(th.GetStyle(theme.StyleLineNumber))

	for _, entry := range session.Gutter().Entries(0, lineCount-1, -1, lineCount) {
		text, err := store.Line(entry.Line)
		if err != nil {
			return err
		}
		label := session.Gutter().FormatLabel(entry, gutterWidth)
		if color && gutterSGR != "" {
			label = gutterSGR + label + ansiReset
		}
		bw.WriteString(label)
		if color {
			writeStyledLine(bw, text, session, entry.Line, th)
		} else {
			bw.WriteString(text)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// writeStyledLine writes text with each span wrapped in its style's sequence.
func writeStyledLine(bw *bufio.Writer, text string, session *core.Session, line int, th *theme.Theme) {
	runes := []rune(text)
	pos := 0
	for _, span := range session.Spans(line) {
		start, end := span.Start, span.End()
		if start < pos || start >= len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		bw.WriteString(string(runes[pos:start]))
		seq := sgr(th.SpanStyle(span.Style))
		bw.WriteString(seq)
		bw.WriteString(string(runes[start:end]))
		if seq != "" {
			bw.WriteString(ansiReset)
		}
		pos = end
	}
	bw.WriteString(string(runes[pos:]))
}

// sgr returns the escape sequence selecting style's foreground and
// attributes, or "" when the style sets neither.
func sgr(style tcell.Style) string {
	fg, _, attrs := style.Decompose()
	var codes []string
	if attrs&tcell.AttrBold != 0 {
		codes = append(codes, "1")
	}
	if attrs&tcell.AttrDim != 0 {
		codes = append(codes, "2")
	}
	if attrs&tcell.AttrItalic != 0 {
		codes = append(codes, "3")
	}
	if attrs&tcell.AttrUnderline != 0 {
		codes = append(codes, "4")
	}
	if attrs&tcell.AttrReverse != 0 {
		codes = append(codes, "7")
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		codes = append(codes, "9")
	}
	if r, g, b := fg.RGB(); r >= 0 {
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", r, g, b))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}
