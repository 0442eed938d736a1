package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/tidemark/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"
)

func TestGetStyleFallback(t *testing.T) {
	th := &Theme{
		Name: "fallback",
		Styles: map[string]tcell.Style{
			StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorWhite),
			"keyword":      tcell.StyleDefault.Foreground(tcell.ColorBlue),
			"type.builtin": tcell.StyleDefault.Foreground(tcell.ColorAqua),
		},
	}

	tests := []struct {
		name string
		want tcell.Style
	}{
		{"keyword", th.Styles["keyword"]},
		{"keyword.control", th.Styles["keyword"]},
		{"type.builtin", th.Styles["type.builtin"]},
		{"type", th.Styles[StyleDefault]},
		{"nothing.at.all", th.Styles[StyleDefault]},
	}
	for _, tt := range tests {
		if got := th.GetStyle(tt.name); got != tt.want {
			t.Errorf("GetStyle(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if got := th.SpanStyle(types.Keyword); got != th.Styles["keyword"] {
		t.Errorf("SpanStyle(keyword) = %v", got)
	}

	empty := &Theme{Name: "empty"}
	if got := empty.GetStyle("keyword"); got != tcell.StyleDefault {
		t.Errorf("GetStyle without Default = %v, want tcell default", got)
	}
}

func TestBuiltinsHaveUIStyles(t *testing.T) {
	for _, th := range Builtins() {
		for _, name := range []string{StyleDefault, StyleCurrentLine, StyleLineNumber, StyleLineNumberCurrent, StyleStatusBar} {
			if _, ok := th.Styles[name]; !ok {
				t.Errorf("theme %q lacks %s", th.Name, name)
			}
		}
		for _, tag := range []types.StyleTag{types.Keyword, types.Comment, types.String} {
			if _, ok := th.Styles[string(tag)]; !ok {
				t.Errorf("theme %q lacks syntax style %s", th.Name, tag)
			}
		}
	}
}

func lightness(t *testing.T, c tcell.Color) float64 {
	t.Helper()
	cc, ok := toColorful(c)
	if !ok {
		t.Fatalf("colour %v has no RGB value", c)
	}
	_, _, l := cc.Hcl()
	return l
}

func TestDerivedCurrentLine(t *testing.T) {
	dark := &Theme{
		Name:   "dark",
		IsDark: true,
		Styles: map[string]tcell.Style{StyleDefault: tcell.StyleDefault.Background(tcell.NewHexColor(0x202020))},
	}
	dark.finalize()
	_, bg, _ := dark.Styles[StyleCurrentLine].Decompose()
	if lightness(t, bg) <= lightness(t, tcell.NewHexColor(0x202020)) {
		t.Errorf("dark current line %v is not lighter than the background", bg)
	}

	light := &Theme{
		Name:   "light",
		Styles: map[string]tcell.Style{StyleDefault: tcell.StyleDefault.Background(tcell.NewHexColor(0xf0f0f0))},
	}
	light.finalize()
	_, bg, _ = light.Styles[StyleCurrentLine].Decompose()
	if lightness(t, bg) >= lightness(t, tcell.NewHexColor(0xf0f0f0)) {
		t.Errorf("light current line %v is not darker than the background", bg)
	}

	// Terminal background: derived from an assumed colour.
	reset := &Theme{Name: "reset", IsDark: true, Styles: map[string]tcell.Style{}}
	reset.finalize()
	_, bg, _ = reset.Styles[StyleCurrentLine].Decompose()
	if _, ok := toColorful(bg); !ok {
		t.Errorf("current line on terminal background = %v, want a concrete colour", bg)
	}
}

func TestPaperLightCurrentLineIsPaleYellow(t *testing.T) {
	_, bg, _ := PaperLight.Styles[StyleCurrentLine].Decompose()
	r, g, b := bg.RGB()
	if r < 200 || g < 200 || b >= r {
		t.Errorf("current line = #%02x%02x%02x, want a pale yellow", r, g, b)
	}
}

func TestParseColorString(t *testing.T) {
	tests := []struct {
		in      string
		want    tcell.Color
		wantErr bool
	}{
		{"#ff0000", tcell.NewHexColor(0xff0000), false},
		{" #00FF00 ", tcell.NewHexColor(0x00ff00), false},
		{"reset", tcell.ColorReset, false},
		{"Default", tcell.ColorDefault, false},
		{"yellow", tcell.ColorYellow, false},
		{"#fff", tcell.NewRGBColor(255, 255, 255), false},
		{"#ffff", tcell.ColorDefault, true},
		{"#gggggg", tcell.ColorDefault, true},
		{"notacolor", tcell.ColorDefault, true},
	}
	for _, tt := range tests {
		got, err := parseColorString(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseColorString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColorString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

const oceanTheme = `
name = "Ocean"
is_dark = true

[styles.Default]
fg = "#c0c5ce"
bg = "#2b303b"

[styles.keyword]
fg = "#b48ead"
bold = true

[styles.comment]
fg = "#65737e"
italic = true

[styles.string]
fg = "not-a-colour"
`

func TestLoadThemeFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.toml")
	if err := os.WriteFile(path, []byte(oceanTheme), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFromFile: %v", err)
	}
	if th.Name != "Ocean" || !th.IsDark {
		t.Errorf("theme = %q dark=%v", th.Name, th.IsDark)
	}

	fg, bg, attr := th.GetStyle("keyword").Decompose()
	if fg != tcell.NewHexColor(0xb48ead) || bg != tcell.NewHexColor(0x2b303b) || attr&tcell.AttrBold == 0 {
		t.Errorf("keyword = fg %v bg %v attr %v; want inherited background and bold", fg, bg, attr)
	}
	if _, ok := th.Styles["string"]; ok {
		t.Error("style with an invalid colour should be skipped")
	}
	if got := th.GetStyle("string"); got != th.Styles[StyleDefault] {
		t.Errorf("skipped style should fall back to Default, got %v", got)
	}
	if _, ok := th.Styles[StyleCurrentLine]; !ok {
		t.Error("loaded theme lacks a derived current line style")
	}
}

func TestLoadThemeFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadThemeFromFile(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("name = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThemeFromFile(bad); err == nil {
		t.Error("broken TOML loaded without error")
	}
}

func TestManager(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ocean.toml"), []byte(oceanTheme), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir)
	if diff := cmp.Diff([]string{"DevComfort Dark", "Ocean", "Paper Light"}, m.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
	if m.Current() != DevComfortDark {
		t.Errorf("initial theme = %q", m.Current().Name)
	}

	if err := m.SetTheme("ocean"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if m.Current().Name != "Ocean" {
		t.Errorf("Current = %q after SetTheme", m.Current().Name)
	}
	if err := m.SetTheme("nope"); !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("SetTheme(nope) = %v, want ErrThemeNotFound", err)
	}

	if got := m.Next().Name; got != "Paper Light" {
		t.Errorf("Next = %q, want Paper Light", got)
	}
	if got := m.Next().Name; got != "DevComfort Dark" {
		t.Errorf("Next wraps to %q, want DevComfort Dark", got)
	}

	if _, ok := m.GetTheme("PAPER LIGHT"); !ok {
		t.Error("GetTheme is not case-insensitive")
	}
}

func TestManagerWithoutDir(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing"))
	if got := len(m.List()); got != len(Builtins()) {
		t.Errorf("List has %d themes, want built-ins only", got)
	}
	if NewManager("").Current() == nil {
		t.Error("manager without a directory has no active theme")
	}
}

func TestLoadThemeExtendsBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dusk.toml")
	content := `
extends = "devcomfort dark"

[styles.keyword]
fg = "#f0a"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFromFile: %v", err)
	}
	if th.Name != "dusk" || !th.IsDark {
		t.Errorf("theme = %q dark=%v, want dusk inheriting dark", th.Name, th.IsDark)
	}
	if fg, _, _ := th.GetStyle("keyword").Decompose(); fg != tcell.NewRGBColor(255, 0, 170) {
		t.Errorf("keyword fg = %v, want #ff00aa", fg)
	}
	if got, want := th.GetStyle("comment"), DevComfortDark.GetStyle("comment"); got != want {
		t.Errorf("comment not inherited: %v, want %v", got, want)
	}
	if got, want := th.GetStyle(StyleCurrentLine), DevComfortDark.GetStyle(StyleCurrentLine); got != want {
		t.Errorf("current line not inherited: %v, want %v", got, want)
	}
}

func TestLoadThemeExtendsWithNewDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper-dark.toml")
	content := `
name = "Paper Dark"
extends = "Paper Light"
is_dark = true

[styles.Default]
bg = "#101010"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := LoadThemeFromFile(path)
	if err != nil {
		t.Fatalf("LoadThemeFromFile: %v", err)
	}
	if !th.IsDark {
		t.Error("is_dark should override the parent")
	}
	_, curBg, _ := th.GetStyle(StyleCurrentLine).Decompose()
	r, g, b := curBg.RGB()
	if r <= 0x10 || r > 0x40 || g > 0x40 || b > 0x40 {
		t.Errorf("current line = #%02x%02x%02x, want one derived from the new dark background", r, g, b)
	}
}

func TestLoadThemeExtendsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.toml")
	if err := os.WriteFile(path, []byte(`extends = "Nope"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadThemeFromFile(path); !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("err = %v, want ErrThemeNotFound", err)
	}
}
