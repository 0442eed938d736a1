// cmd/tidemark/main.go
package main

import (
	"errors"
	"flag"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/tidemark/internal/app"
	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/theme"
)

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args, err := flags.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *flags.Version {
		stlog.SetFlags(0)
		stlog.Printf("%s %s", config.AppName, config.Version)
		os.Exit(0)
	}

	filePath := ""
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	logger.SetDebugFilter(*flags.DebugLog)
	logCloser, err := logger.Setup(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	if cfgErr != nil {
		logger.Warnf("Configuration problem, continuing with defaults: %v", cfgErr)
	}

	logger.Infof("Starting %s %s", config.AppName, config.Version)
	logger.Debugf("Highlighter engine: %s, tab width: %d", cfg.Highlighter.Engine, cfg.Editor.TabWidth)

	// --- Languages ---
	highlighter.RegisterLanguages()
	if rulesDir := cfg.ResolveRulesDir(); rulesDir != "" {
		n, err := highlighter.LoadRulesDir(rulesDir)
		if err != nil {
			logger.Warnf("Some rule files in '%s' failed to load: %v", rulesDir, err)
		}
		logger.Debugf("Loaded %d rule file(s) from %s", n, rulesDir)
	}

	if *flags.Dump {
		if err := dump(cfg, filePath, *flags.Language); err != nil {
			logCloser.Close()
			stlog.Fatalf("%s: %v", config.AppName, err)
		}
		return
	}

	// --- Create and Run App ---
	viewer, err := app.New(cfg, app.Options{FilePath: filePath, Language: *flags.Language})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		logCloser.Close()
		stlog.Fatalf("%s: %v", config.AppName, err)
	}
	if err := viewer.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

// dump prints the highlighted file with line numbers to stdout.
func dump(cfg *config.Config, filePath, language string) error {
	if filePath == "" {
		return errors.New("-dump needs a file path")
	}
	l, err := app.DetectLanguage(filePath, language)
	if err != nil {
		return err
	}

	store := buffer.NewSliceStore()
	if err := buffer.Load(store, filePath); err != nil {
		return err
	}
	session, err := app.BuildSession(store, l, cfg, nil)
	if err != nil {
		return err
	}
	defer session.Close()

	themes := theme.NewManager(cfg.ResolveThemesDir())
	if cfg.Theme != "" {
		if err := themes.SetTheme(cfg.Theme); err != nil {
			logger.Warnf("%v, using %s", err, themes.Current().Name)
		}
	}
	return app.Dump(os.Stdout, session, themes.Current(), os.Getenv("NO_COLOR") == "")
}
