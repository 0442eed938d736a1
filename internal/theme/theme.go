// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Names of the UI styles a theme provides besides the syntax styles.
const (
	StyleDefault           = "Default"
	StyleCurrentLine       = "CurrentLine"
	StyleLineNumber        = "LineNumber"
	StyleLineNumberCurrent = "LineNumberCurrent"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
)

// Theme maps style names (syntax tags and UI elements) to terminal styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle looks up a style by exact name, then by the part before the first
// dot, then falls back to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	// 1. Try exact name
	if style, ok := t.Styles[name]; ok {
		return style
	}

	// 2. Try base name (part before first dot)
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	// 3. Return "Default" style
	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	// 4. Absolute fallback
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// SpanStyle returns the style for a highlight span's tag.
func (t *Theme) SpanStyle(tag types.StyleTag) tcell.Style {
	return t.GetStyle(string(tag))
}

// finalize fills in the gutter and current-line styles a theme did not set,
// deriving them from the Default style.
func (t *Theme) finalize() {
	if t.Styles == nil {
		t.Styles = make(map[string]tcell.Style)
	}
	base, ok := t.Styles[StyleDefault]
	if !ok {
		base = tcell.StyleDefault
		t.Styles[StyleDefault] = base
	}
	fg, bg, _ := base.Decompose()

	if _, ok := t.Styles[StyleCurrentLine]; !ok {
		t.Styles[StyleCurrentLine] = base.Background(currentLineColor(bg, t.IsDark))
	}
	if _, ok := t.Styles[StyleLineNumber]; !ok {
		t.Styles[StyleLineNumber] = base.Foreground(dimColor(fg, bg, t.IsDark))
	}
	if _, ok := t.Styles[StyleLineNumberCurrent]; !ok {
		lineBg := t.Styles[StyleCurrentLine]
		_, curBg, _ := lineBg.Decompose()
		t.Styles[StyleLineNumberCurrent] = base.Background(curBg).Foreground(fg).Bold(true)
	}
	for _, name := range []string{StyleStatusBar, StyleStatusBarModified, StyleStatusBarMessage} {
		if _, ok := t.Styles[name]; !ok {
			t.Styles[name] = base.Reverse(true)
		}
	}
}

// --- DevComfort Dark Theme Definition ---

// DevComfortDark is the default theme.
var DevComfortDark = newDevComfortDark()

func newDevComfortDark() *Theme {
	// --- Palette for DevComfort Dark ---
	dcBackground := tcell.NewHexColor(0x2a2f38) // Slightly muted dark blue/grey (StatusBar BG)
	dcForeground := tcell.NewHexColor(0xc5cdd9) // Soft off-white (Default Text)
	dcComment := tcell.NewHexColor(0x5c6370)    // Muted Grey (Comments, Line numbers)
	dcOrange := tcell.NewHexColor(0xd19a66)     // Muted Orange (Numbers, Constants)
	dcYellow := tcell.NewHexColor(0xe5c07b)     // Soft Yellow (Functions)
	dcGreen := tcell.NewHexColor(0x98c379)      // Soft Green (Strings)
	dcCyan := tcell.NewHexColor(0x56b6c2)       // Soft Cyan (Types)
	dcBlue := tcell.NewHexColor(0x61afef)       // Soft Blue (Keywords)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	t := &Theme{
		Name:   "DevComfort Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			// --- UI Elements ---
			StyleDefault:           baseStyle,
			StyleLineNumber:        baseStyle.Foreground(dcComment),
			StyleLineNumberCurrent: baseStyle.Foreground(dcYellow).Bold(true),
			StyleStatusBar:         tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground),
			StyleStatusBarModified: tcell.StyleDefault.Background(dcBackground).Foreground(dcYellow),
			StyleStatusBarMessage:  tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground).Bold(true),

			// --- Syntax Highlighting ---
			string(types.Keyword):  baseStyle.Foreground(dcBlue).Bold(true),
			string(types.String):   baseStyle.Foreground(dcGreen),
			string(types.Comment):  baseStyle.Foreground(dcComment).Italic(true),
			string(types.Number):   baseStyle.Foreground(dcOrange),
			string(types.Type):     baseStyle.Foreground(dcCyan),
			string(types.Function): baseStyle.Foreground(dcYellow),
			string(types.Constant): baseStyle.Foreground(dcOrange),
			string(types.Operator): baseStyle.Foreground(dcForeground),
			"type.builtin":         baseStyle.Foreground(dcCyan).Bold(true),
		},
	}
	t.finalize()
	return t
}

// --- Paper Light Theme Definition ---

// PaperLight is a light theme whose current line is a pale yellow, like the
// classic desktop editors.
var PaperLight = newPaperLight()

func newPaperLight() *Theme {
	plBackground := tcell.NewHexColor(0xfafafa)
	plForeground := tcell.NewHexColor(0x383a42)
	plComment := tcell.NewHexColor(0xa0a1a7)
	plRed := tcell.NewHexColor(0xa626a4)
	plGreen := tcell.NewHexColor(0x50a14f)
	plOrange := tcell.NewHexColor(0x986801)
	plBlue := tcell.NewHexColor(0x4078f2)
	plTeal := tcell.NewHexColor(0x0184bc)

	baseStyle := tcell.StyleDefault.Background(plBackground).Foreground(plForeground)

	t := &Theme{
		Name:   "Paper Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:     baseStyle,
			StyleCurrentLine: baseStyle.Background(lighten(tcell.ColorYellow, 0.8)),

			string(types.Keyword):  baseStyle.Foreground(plRed).Bold(true),
			string(types.String):   baseStyle.Foreground(plGreen),
			string(types.Comment):  baseStyle.Foreground(plComment).Italic(true),
			string(types.Number):   baseStyle.Foreground(plOrange),
			string(types.Type):     baseStyle.Foreground(plTeal),
			string(types.Function): baseStyle.Foreground(plBlue),
			string(types.Constant): baseStyle.Foreground(plOrange),
		},
	}
	t.finalize()
	return t
}

// Builtins returns the themes compiled into the binary.
func Builtins() []*Theme {
	return []*Theme{DevComfortDark, PaperLight}
}
