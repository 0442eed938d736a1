// internal/theme/manager.go
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/tidemark/internal/logger"
)

// ErrThemeNotFound is returned when a theme name is not loaded.
var ErrThemeNotFound = errors.New("theme not found")

// Manager holds loaded themes and manages the active theme.
type Manager struct {
	themes      map[string]*Theme // lowercase name -> theme
	activeTheme *Theme
	themesDir   string
	mutex       sync.RWMutex
}

// NewManager creates a manager with the built-in themes plus every theme file
// in themesDir. An empty themesDir loads built-ins only. DevComfort Dark is
// active initially.
func NewManager(themesDir string) *Manager {
	mgr := &Manager{
		themes:    make(map[string]*Theme),
		themesDir: themesDir,
	}

	for _, t := range Builtins() {
		mgr.themes[strings.ToLower(t.Name)] = t
		logger.Debugf("Loaded built-in theme: %s", t.Name)
	}

	if themesDir != "" {
		if err := mgr.LoadThemesFromDir(); err != nil {
			logger.Errorf("Error loading themes from '%s': %v", themesDir, err)
		}
	}

	mgr.activeTheme = mgr.themes[strings.ToLower(DevComfortDark.Name)]
	logger.Infof("Initial active theme set to: %s", mgr.activeTheme.Name)
	return mgr
}

// DefaultThemesDir returns <user config dir>/tidemark/themes, or "" if the
// config directory is unknown.
func DefaultThemesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logger.Warnf("Could not find user config dir: %v. Themes cannot be loaded from default location.", err)
		return ""
	}
	return filepath.Join(configDir, "tidemark", "themes")
}

// LoadThemesFromDir scans the themes directory and loads .toml files.
// A missing directory is not an error.
func (m *Manager) LoadThemesFromDir() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.themesDir == "" {
		return errors.New("theme directory path is not set")
	}

	files, err := os.ReadDir(m.themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", m.themesDir)
			return nil
		}
		return fmt.Errorf("failed to read theme directory '%s': %w", m.themesDir, err)
	}

	logger.Infof("Loading themes from: %s", m.themesDir)
	loadedCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".toml") {
			continue
		}
		filePath := filepath.Join(m.themesDir, file.Name())
		theme, err := LoadThemeFromFile(filePath)
		if err != nil {
			logger.Warnf("Failed to load theme from '%s': %v", filePath, err)
			continue
		}

		key := strings.ToLower(theme.Name)
		if existing, ok := m.themes[key]; ok {
			logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", theme.Name, filePath, existing.Name)
			if m.activeTheme == existing {
				m.activeTheme = theme
			}
		}
		m.themes[key] = theme
		loadedCount++
	}
	logger.Infof("Loaded %d custom themes.", loadedCount)
	return nil
}

// Current returns the currently active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.activeTheme
}

// SetTheme sets the active theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	theme, ok := m.themes[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("theme '%s': %w", name, ErrThemeNotFound)
	}

	if m.activeTheme != theme {
		m.activeTheme = theme
		logger.Infof("Active theme set to: %s", theme.Name)
	} else {
		logger.Debugf("Theme '%s' already active, no change needed", name)
	}
	return nil
}

// Next activates the theme following the current one in List order, wrapping
// around, and returns it.
func (m *Manager) Next() *Theme {
	names := m.List()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	idx := 0
	for i, name := range names {
		if strings.EqualFold(name, m.activeTheme.Name) {
			idx = (i + 1) % len(names)
			break
		}
	}
	m.activeTheme = m.themes[strings.ToLower(names[idx])]
	logger.Infof("Active theme set to: %s", m.activeTheme.Name)
	return m.activeTheme
}

// List returns the names of all loaded themes, sorted.
func (m *Manager) List() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.themes))
	for _, theme := range m.themes {
		names = append(names, theme.Name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a specific theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	theme, ok := m.themes[strings.ToLower(name)]
	return theme, ok
}
