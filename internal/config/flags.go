// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/tidemark/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	TabWidth       *int
	ScrollOff      *int
	// Logger filters
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	DebugLog        *bool
	SystemClipboard *bool
	// Highlighting and display
	Engine   *string
	RulesDir *string
	Theme    *string
	Relative *bool
	// Run mode
	Language *string
	Dump     *bool
}

// DefineFlags registers the flags on fs and associates them with the Flags struct fields.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.TabWidth = fs.Int("tabwidth", 0, "Number of columns per tab - Overrides config file")               // Use 0 to indicate unset
	f.ScrollOff = fs.Int("scrolloff", -1, "Lines of context above/below cursor - Overrides config file") // Use -1 to indicate unset
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Copy lines to the system clipboard")
	f.Engine = fs.String("engine", "", "Highlighting engine (regex, treesitter) - Overrides config file")
	f.RulesDir = fs.String("rules", "", "Directory of TOML syntax rule files - Overrides config file")
	f.Theme = fs.String("theme", "", "Initial theme name - Overrides config file")
	f.Relative = fs.Bool("relative", false, "Show relative line numbers - Overrides config file")
	f.Language = fs.String("lang", "", "Highlight as this language instead of detecting it from the file name")
	f.Dump = fs.Bool("dump", false, "Print the highlighted file to stdout and exit")
}

// ParseFlags defines the flags on a new FlagSet named name and parses args.
// It returns the remaining non-flag arguments (e.g., the file path).
func (f *Flags) ParseFlags(name string, args []string) ([]string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config, verbose bool) {
	if f.fs == nil {
		return
	}
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		if verbose {
			logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		}
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath // Empty string is valid
		case "tabwidth":
			if *f.TabWidth > 0 {
				cfg.Editor.TabWidth = *f.TabWidth // Only override if positive
			}
		case "scrolloff":
			if *f.ScrollOff >= 0 {
				cfg.Editor.ScrollOff = *f.ScrollOff // Only override if non-negative
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "engine":
			if *f.Engine != "" {
				cfg.Highlighter.Engine = *f.Engine
			}
		case "rules":
			cfg.Highlighter.RulesDir = *f.RulesDir
		case "theme":
			if *f.Theme != "" {
				cfg.Theme = *f.Theme
			}
		case "relative":
			cfg.Gutter.Relative = *f.Relative
		case "log-tags":
			if tags := splitCommaList(*f.EnableTags); tags != nil {
				cfg.Logger.EnabledTags = tags
			}
		case "log-disable-tags":
			if tags := splitCommaList(*f.DisableTags); tags != nil {
				cfg.Logger.DisabledTags = tags
			}
		case "log-packages":
			if pkgs := splitCommaList(*f.EnablePkgs); pkgs != nil {
				cfg.Logger.EnabledPackages = pkgs
			}
		case "log-disable-packages":
			if pkgs := splitCommaList(*f.DisablePkgs); pkgs != nil {
				cfg.Logger.DisabledPackages = pkgs
			}
		case "log-files":
			if files := splitCommaList(*f.EnableFiles); files != nil {
				cfg.Logger.EnabledFiles = files
			}
		case "log-disable-files":
			if files := splitCommaList(*f.DisableFiles); files != nil {
				cfg.Logger.DisabledFiles = files
			}
		}
	})
}

// splitCommaList splits a comma-separated list, dropping empty items.
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
