package lang

import (
	"fmt"
	"io/fs"

	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// QueryFS is the filesystem interface for accessing embedded queries
var QueryFS fs.FS

// Language represents a programming language with its syntax highlighting configuration
type Language struct {
	// Name is the display name of the language
	Name string

	// Extensions maps file extensions to this language
	Extensions []string

	// Rules is the ordered regex rule set for the line engine
	Rules []types.StyleRule

	// TreeSitterLang is the tree-sitter grammar, nil when only regex rules exist
	TreeSitterLang *sitter.Language

	// QueryPath is the directory of the highlight query under queries/
	QueryPath string

	// Source is the rule file the language came from, empty for built-ins
	Source string
}

// HasGrammar reports whether the tree-sitter engine can serve this language.
func (l *Language) HasGrammar() bool {
	return l.TreeSitterLang != nil && l.QueryPath != ""
}

// GetQuery loads and returns the highlight query for this language
func (l *Language) GetQuery() ([]byte, error) {
	if QueryFS == nil {
		return nil, fmt.Errorf("query filesystem not set")
	}
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for language %s", l.Name)
	}

	queryPath := fmt.Sprintf("queries/%s/highlights.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load query for %s: %w", l.Name, err)
	}
	logger.Debugf("Loaded query from %s for %s (%d bytes)", queryPath, l.Name, len(query))
	return query, nil
}
