package config

import "time"

// Base application details
const AppName = "tidemark"
const Version = "0.3.0"
const ConfigDirName = "tidemark"
const ThemesDirName = "themes"
const RulesDirName = "syntax"               // User rule files, one language per file
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "tidemark.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Highlighting engines
const (
	EngineRegex      = "regex"
	EngineTreeSitter = "treesitter"
)

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultTabWidth = 4
const DefaultScrollOff = 3
const SystemClipboard = true
