package highlighter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
)

// tomlRule is one [[rule]] table of a rule file. Exactly one of Pattern or
// Words must be set.
type tomlRule struct {
	Style      string   `toml:"style"`
	Pattern    string   `toml:"pattern"`
	Words      []string `toml:"words"`
	IgnoreCase bool     `toml:"ignore_case"`
}

// tomlRuleFile is the layout of a language rule file.
type tomlRuleFile struct {
	Name       string     `toml:"name"`
	Extensions []string   `toml:"extensions"`
	Rules      []tomlRule `toml:"rule"`
}

// LoadRulesFile parses a TOML rule file into a language. Every rule is
// compiled during the load so a broken file is rejected as a whole.
func LoadRulesFile(filePath string) (*lang.Language, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file '%s': %w", filePath, err)
	}
	return parseRules(string(data), filePath)
}

func parseRules(data, filePath string) (*lang.Language, error) {
	var file tomlRuleFile
	metadata, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("Rule file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Rule file '%s' missing 'name', using '%s'", filePath, file.Name)
	}

	rules := make([]types.StyleRule, 0, len(file.Rules))
	for i, r := range file.Rules {
		rule, err := r.toStyleRule()
		if err != nil {
			return nil, fmt.Errorf("rule file '%s', rule %d: %w", filePath, i, err)
		}
		rules = append(rules, rule)
	}
	// Compile once to fail fast; the engine built later compiles again.
	if _, err := NewEngine(rules); err != nil {
		return nil, fmt.Errorf("rule file '%s': %w", filePath, err)
	}

	return &lang.Language{
		Name:       file.Name,
		Extensions: file.Extensions,
		Rules:      rules,
		Source:     filePath,
	}, nil
}

func (r tomlRule) toStyleRule() (types.StyleRule, error) {
	if r.Style == "" {
		return types.StyleRule{}, fmt.Errorf("missing style: %w", ErrInvalidPattern)
	}
	hasWords := len(r.Words) > 0
	if (r.Pattern == "") == !hasWords {
		return types.StyleRule{}, fmt.Errorf("style %q: set exactly one of pattern or words: %w", r.Style, ErrInvalidPattern)
	}
	pattern := r.Pattern
	if hasWords {
		pattern = wordsPattern(r.Words)
	}
	if r.IgnoreCase {
		pattern = "(?i)" + pattern
	}
	return types.StyleRule{Pattern: pattern, Style: types.StyleTag(r.Style)}, nil
}

// wordsPattern builds a whole-word alternation, quoting each word.
func wordsPattern(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return `\b(?:` + strings.Join(quoted, "|") + `)\b`
}

// LoadRulesDir registers every *.toml rule file found in dir. A missing
// directory is not an error. Broken files are logged and skipped; the number
// of registered languages is returned.
func LoadRulesDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("Rules directory '%s' does not exist", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read rules directory '%s': %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		l, err := LoadRulesFile(path)
		if err != nil {
			logger.Warnf("Skipping rule file: %v", err)
			continue
		}
		// Keep the grammar of a built-in language the file overrides.
		if existing := lang.GetByName(l.Name); existing != nil && l.TreeSitterLang == nil {
			l.TreeSitterLang = existing.TreeSitterLang
			l.QueryPath = existing.QueryPath
		}
		lang.Register(l)
		loaded++
	}
	logger.Infof("Loaded %d rule files from %s", loaded, dir)
	return loaded, nil
}
