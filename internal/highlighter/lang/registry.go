package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/tidemark/internal/logger"
)

var (
	// Global language registry
	registry struct {
		sync.RWMutex
		byName        map[string]*Language
		extToLanguage map[string]*Language
	}

	// One-time initialization
	initOnce sync.Once
)

// Initialize ensures the registry is ready for use
func Initialize() {
	initOnce.Do(func() {
		registry.byName = make(map[string]*Language)
		registry.extToLanguage = make(map[string]*Language)
		logger.Debugf("Language registry initialized")
	})
}

// Register adds a language to the registry. A language registered under an
// existing name replaces it, including its extensions.
func Register(lang *Language) {
	Initialize()

	registry.Lock()
	defer registry.Unlock()

	key := strings.ToLower(lang.Name)
	if old, ok := registry.byName[key]; ok {
		logger.Infof("Language %s replaced (source %q)", lang.Name, lang.Source)
		for ext, l := range registry.extToLanguage {
			if l == old {
				delete(registry.extToLanguage, ext)
			}
		}
	}
	registry.byName[key] = lang

	for _, ext := range lang.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok && existing != lang {
			logger.Warnf("Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, lang.Name)
		}
		registry.extToLanguage[lowerExt] = lang
	}

	logger.Debugf("Registered language: %s with extensions: %v", lang.Name, lang.Extensions)
}

// GetForFile returns the language for a given file path, or nil.
func GetForFile(filePath string) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	ext := strings.ToLower(filepath.Ext(filePath))
	return registry.extToLanguage[ext]
}

// GetByName looks a language up by case-insensitive name.
func GetByName(name string) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[strings.ToLower(name)]
}

// GetAll returns all registered languages sorted by name.
func GetAll() []*Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	result := make([]*Language, 0, len(registry.byName))
	for _, l := range registry.byName {
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
