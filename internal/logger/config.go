// Package logger provides configurable logging capabilities
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds all settings for the logger.
type Config struct {
	// LogLevel specifies the minimum level to log (e.g., "debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// LogFilePath is the path to the output log file. Empty discards output, "-" means stderr.
	LogFilePath string `toml:"log_file"`

	// Tag filters. Disabled entries win over enabled ones; a non-empty
	// enabled list drops everything not on it, including untagged records.
	EnabledTags  []string `toml:"enabled_tags"`
	DisabledTags []string `toml:"disabled_tags"`

	// Package filters match the caller's directory name, e.g. "core" or "highlighter".
	EnabledPackages  []string `toml:"enabled_packages"`
	DisabledPackages []string `toml:"disabled_packages"`

	// File filters match the caller's base file name, e.g. "session.go".
	EnabledFiles  []string `toml:"enabled_files"`
	DisabledFiles []string `toml:"disabled_files"`

	level    slog.Level
	tags     filterSet
	packages filterSet
	files    filterSet
}

// filterSet is one enabled/disabled pair in lowercase lookup form.
type filterSet struct {
	what     string // "tag", "package" or "file", for filter diagnostics
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

func newFilterSet(what string, enabled, disabled []string) filterSet {
	return filterSet{what: what, enabled: sliceToSet(enabled), disabled: sliceToSet(disabled)}
}

// allows applies the disabled-overrides-enabled rule to one key.
// An empty key is only rejected when an enabled list exists.
func (f filterSet) allows(key string) bool {
	key = strings.ToLower(key)
	if _, off := f.disabled[key]; key != "" && off {
		if debugFilter {
			fmt.Fprintf(os.Stderr, "[FILTER] dropped: disabled %s '%s'\n", f.what, key)
		}
		return false
	}
	if f.enabled == nil {
		return true
	}
	if _, on := f.enabled[key]; !on {
		if debugFilter {
			fmt.Fprintf(os.Stderr, "[FILTER] dropped: %s '%s' not enabled\n", f.what, key)
		}
		return false
	}
	return true
}

// NewConfig creates a new Config with default values
func NewConfig() Config {
	return Config{LogLevel: "info"}
}

// parseLevel maps a level name to slog; unknown names mean info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// process parses the level name and filter lists into lookup form.
func (c *Config) process() {
	c.level = parseLevel(c.LogLevel)
	c.tags = newFilterSet("tag", c.EnabledTags, c.DisabledTags)
	c.packages = newFilterSet("package", c.EnabledPackages, c.DisabledPackages)
	c.files = newFilterSet("file", c.EnabledFiles, c.DisabledFiles)
	if debugFilter {
		fmt.Fprintf(os.Stderr, "[CONFIG] level=%v tags=%+v packages=%+v files=%+v\n", c.level, c.tags, c.packages, c.files)
	}
}

// Level returns the minimum level parsed from LogLevel.
func (c *Config) Level() slog.Level {
	return parseLevel(c.LogLevel)
}

// sliceToSet lowercases items into a set; nil when nothing remains.
func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}
