// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// TomlStyleDef is one entry of a theme file's [styles] table. Unset fields
// are inherited from the theme's Default style.
type TomlStyleDef struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// TomlTheme is the layout of a theme file.
type TomlTheme struct {
	Name string `toml:"name"`
	// Extends names a built-in theme whose styles this file starts from.
	Extends string                  `toml:"extends"`
	IsDark  *bool                   `toml:"is_dark"`
	Styles  map[string]TomlStyleDef `toml:"styles"`
}

// derivedStyles are recomputed by finalize when a theme changes its Default
// style without setting them.
var derivedStyles = []string{
	StyleCurrentLine, StyleLineNumber, StyleLineNumberCurrent,
	StyleStatusBar, StyleStatusBarModified, StyleStatusBarMessage,
}

// LoadThemeFromFile parses a TOML theme file. A theme without a name takes
// the file name; gutter and current-line styles it leaves out are derived.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}

	var def TomlTheme
	metadata, err := toml.Decode(string(data), &def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme file '%s': unrecognized keys %v", filePath, undecoded)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}

	theme, err := buildTheme(def)
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", filePath, err)
	}
	logger.Debugf("Loaded theme '%s' from '%s'", theme.Name, filePath)
	return theme, nil
}

// buildTheme turns a decoded file into a finalized Theme.
func buildTheme(def TomlTheme) (*Theme, error) {
	theme := &Theme{
		Name:   def.Name,
		IsDark: true,
		Styles: make(map[string]tcell.Style),
	}

	if def.Extends != "" {
		parent := builtinByName(def.Extends)
		if parent == nil {
			return nil, fmt.Errorf("extends '%s': %w", def.Extends, ErrThemeNotFound)
		}
		theme.IsDark = parent.IsDark
		for name, style := range parent.Styles {
			theme.Styles[name] = style
		}
	}
	if def.IsDark != nil {
		theme.IsDark = *def.IsDark
	}

	base := theme.GetStyle(StyleDefault)
	if defaultDef, ok := def.Styles[StyleDefault]; ok {
		style, err := convertTomlStyle(defaultDef, base)
		if err != nil {
			logger.Warnf("Theme '%s': bad Default style, keeping the inherited one: %v", theme.Name, err)
		} else {
			base = style
			for _, name := range derivedStyles {
				delete(theme.Styles, name)
			}
		}
	}
	theme.Styles[StyleDefault] = base

	for name, styleDef := range def.Styles {
		if name == StyleDefault {
			continue
		}
		style, err := convertTomlStyle(styleDef, base)
		if err != nil {
			logger.Warnf("Theme '%s': skipping style '%s': %v", theme.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}
	theme.finalize()
	return theme, nil
}

// builtinByName finds a built-in theme by case-insensitive name.
func builtinByName(name string) *Theme {
	for _, t := range Builtins() {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// convertTomlStyle applies the set fields of def on top of base.
func convertTomlStyle(def TomlStyleDef, base tcell.Style) (tcell.Style, error) {
	style := base
	if def.Fg != nil {
		color, err := parseColorString(*def.Fg)
		if err != nil {
			return base, fmt.Errorf("foreground: %w", err)
		}
		style = style.Foreground(color)
	}
	if def.Bg != nil {
		color, err := parseColorString(*def.Bg)
		if err != nil {
			return base, fmt.Errorf("background: %w", err)
		}
		style = style.Background(color)
	}
	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Reverse != nil {
		style = style.Reverse(*def.Reverse)
	}
	return style, nil
}

// parseColorString accepts #RGB, #RRGGBB, "reset", "default" and tcell color names.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s': %w", s, err)
		}
		return fromColorful(c), nil
	}

	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
