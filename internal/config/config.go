// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidemark/internal/gutter"
	"github.com/bethropolis/tidemark/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger      logger.Config     `toml:"logger"`
	Editor      EditorConfig      `toml:"editor"`
	Gutter      gutter.Config     `toml:"gutter"`
	Highlighter HighlighterConfig `toml:"highlighter"`
	Theme       string            `toml:"theme"`      // Name of the initial theme
	ThemesDir   string            `toml:"themes_dir"` // Empty means <config dir>/tidemark/themes
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	TabWidth        int  `toml:"tab_width"`
	ScrollOff       int  `toml:"scroll_off"`
	SystemClipboard bool `toml:"system_clipboard"`
	StatusBarHeight int  `toml:"status_bar_height"`
}

// HighlighterConfig selects the highlighting engine and extra rule files.
type HighlighterConfig struct {
	// Engine is "regex" or "treesitter". Tree-sitter falls back to regex rules
	// for languages without a grammar.
	Engine string `toml:"engine"`
	// RulesDir holds *.toml rule files. Empty means <config dir>/tidemark/syntax.
	RulesDir string `toml:"rules_dir"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty discards log output
		},
		Editor: EditorConfig{
			TabWidth:        DefaultTabWidth,
			ScrollOff:       DefaultScrollOff,
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
		},
		Gutter: gutter.DefaultConfig(),
		Highlighter: HighlighterConfig{
			Engine: EngineRegex,
		},
	}
}

// DefaultConfigPath returns <user config dir>/tidemark/config.toml, or "" when
// the user config directory is unknown.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// loadFromFile decodes a TOML file on top of cfg, so keys the file omits keep
// their current values. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string, verbose bool) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		if verbose {
			logger.Debugf("Config file not found: %s", filePath)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 && verbose {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if verbose {
		logger.Infof("Successfully loaded configuration from: %s", filePath)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Editor.ScrollOff < 0 { // Allow 0
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}

	if c.Gutter.Padding < 0 {
		c.Gutter.Padding = defaults.Gutter.Padding
	}
	if c.Gutter.MinDigits < 1 {
		c.Gutter.MinDigits = defaults.Gutter.MinDigits
	}

	c.Highlighter.Engine = strings.ToLower(strings.TrimSpace(c.Highlighter.Engine))
	if c.Highlighter.Engine != EngineRegex && c.Highlighter.Engine != EngineTreeSitter {
		c.Highlighter.Engine = defaults.Highlighter.Engine
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// Load builds a configuration from defaults, the TOML file at configFilePath
// (or the default location when empty) and flag overrides, then validates it.
// The logger is usually not initialized yet, so nothing is logged.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultConfigPath()
	}

	var err error
	if effectivePath != "" {
		// Keep going with whatever decoded; the caller reports the error.
		err = loadFromFile(cfg, effectivePath, false)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg, false)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the configuration once for the process; see Load.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}

// ResolveThemesDir returns the configured themes directory or the default one.
func (c *Config) ResolveThemesDir() string {
	if c.ThemesDir != "" {
		return c.ThemesDir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, ThemesDirName)
}

// ResolveRulesDir returns the configured rule file directory or the default one.
func (c *Config) ResolveRulesDir() string {
	if c.Highlighter.RulesDir != "" {
		return c.Highlighter.RulesDir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, RulesDirName)
}
