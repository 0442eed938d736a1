package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
)

func dumpSession(t *testing.T, text, language string) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	store := buffer.NewSliceStore()
	store.SetText(text)
	l, err := DetectLanguage("", language)
	if err != nil {
		t.Fatal(err)
	}
	session, err := BuildSession(store, l, config.NewDefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(session.Close)

	var plain, colored bytes.Buffer
	if err := Dump(&plain, session, theme.DevComfortDark, false); err != nil {
		t.Fatal(err)
	}
	if err := Dump(&colored, session, theme.DevComfortDark, true); err != nil {
		t.Fatal(err)
	}
	return &plain, &colored
}

func TestDumpPlain(t *testing.T) {
	text := strings.Repeat("x = 1\n", 9) + "# done"
	plain, _ := dumpSession(t, text, "python")

	lines := strings.Split(strings.TrimSuffix(plain.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if lines[0] != " 1 x = 1" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[9] != "10 # done" {
		t.Errorf("line 9 = %q", lines[9])
	}
}

func TestDumpColored(t *testing.T) {
	_, colored := dumpSession(t, "def f(): # hi", "python")

	kw := sgr(theme.DevComfortDark.SpanStyle(types.Keyword))
	comment := sgr(theme.DevComfortDark.SpanStyle(types.Comment))
	gutter := sgr(theme.DevComfortDark.GetStyle(theme.StyleLineNumber))
	if kw == "" || comment == "" || gutter == "" {
		t.Fatalf("theme styles produced no sequences: kw=%q comment=%q gutter=%q", kw, comment, gutter)
	}

	out := colored.String()
	if !strings.HasPrefix(out, gutter+"1 "+ansiReset+kw+"def"+ansiReset) {
		t.Errorf("output does not start with styled gutter and keyword: %q", out)
	}
	if !strings.HasSuffix(out, comment+"# hi"+ansiReset+"\n") {
		t.Errorf("output does not end with styled comment: %q", out)
	}
}

func TestDumpPlainTextHasNoSpans(t *testing.T) {
	highlighter.RegisterLanguages()
	_, colored := dumpSession(t, "def", "text")
	gutter := sgr(theme.DevComfortDark.GetStyle(theme.StyleLineNumber))
	if got, want := colored.String(), gutter+"1 "+ansiReset+"def\n"; got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}

func TestSGR(t *testing.T) {
	tests := []struct {
		name  string
		style tcell.Style
		want  string
	}{
		{"default", tcell.StyleDefault, ""},
		{"rgb", tcell.StyleDefault.Foreground(tcell.NewRGBColor(1, 2, 3)), "\x1b[38;2;1;2;3m"},
		{"bold italic", tcell.StyleDefault.Bold(true).Italic(true), "\x1b[1;3m"},
		{"bold rgb", tcell.StyleDefault.Bold(true).Foreground(tcell.NewRGBColor(255, 0, 16)), "\x1b[1;38;2;255;0;16m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sgr(tt.style); got != tt.want {
				t.Errorf("sgr = %q, want %q", got, tt.want)
			}
		})
	}
}
