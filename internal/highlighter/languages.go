// internal/highlighter/languages.go
package highlighter

import (
	"embed"
	"sync"

	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

var registerOnce sync.Once

// Shared literal patterns.
const (
	doubleQuoted = `"(?:[^"\\]|\\.)*"`
	singleQuoted = `'(?:[^'\\]|\\.)*'`
	numberLit    = `\b(?:0[xX][0-9a-fA-F_]+|\d[\d_]*(?:\.\d+)?(?:[eE][+-]?\d+)?)\b`
)

// PythonRules are the built-in Python rules. Keywords come first, so a keyword
// inside a string literal keeps the keyword style.
var PythonRules = []types.StyleRule{
	{Pattern: wordsPattern([]string{
		"def", "class", "if", "elif", "else", "try", "except", "finally",
		"while", "for", "in", "import", "from", "as", "return", "with", "pass",
		"break", "continue", "and", "or", "not", "is", "lambda", "yield",
		"global", "nonlocal", "raise", "assert", "del", "async", "await",
	}), Style: types.Keyword},
	{Pattern: wordsPattern([]string{"True", "False", "None"}), Style: types.Constant},
	{Pattern: `#.*`, Style: types.Comment},
	{Pattern: doubleQuoted, Style: types.String},
	{Pattern: singleQuoted, Style: types.String},
	{Pattern: numberLit, Style: types.Number},
}

// GoRules are the built-in Go rules. Comments are declared first so that
// nothing inside a comment is restyled.
var GoRules = []types.StyleRule{
	{Pattern: `//.*`, Style: types.Comment},
	{Pattern: `/\*.*?\*/`, Style: types.Comment},
	{Pattern: doubleQuoted, Style: types.String},
	{Pattern: "`[^`]*`", Style: types.String},
	{Pattern: `'(?:[^'\\]|\\.)+'`, Style: types.String},
	{Pattern: wordsPattern([]string{
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
	}), Style: types.Keyword},
	{Pattern: wordsPattern([]string{
		"bool", "byte", "complex64", "complex128", "error", "float32", "float64",
		"int", "int8", "int16", "int32", "int64", "rune", "string",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "any",
	}), Style: types.Type},
	{Pattern: wordsPattern([]string{"true", "false", "nil", "iota"}), Style: types.Constant},
	{Pattern: numberLit, Style: types.Number},
}

// PlainText has no rules; every line yields no spans.
var PlainText = &lang.Language{Name: "Text", Extensions: []string{".txt"}}

// RegisterLanguages registers the built-in languages once.
func RegisterLanguages() {
	registerOnce.Do(func() {
		if lang.QueryFS == nil {
			lang.QueryFS = embeddedQueries
		}

		lang.Register(&lang.Language{
			Name:           "Go",
			Extensions:     []string{".go"},
			Rules:          GoRules,
			TreeSitterLang: gosrc.GetLanguage(),
			QueryPath:      "go",
		})

		lang.Register(&lang.Language{
			Name:           "Python",
			Extensions:     []string{".py", ".pyw"},
			Rules:          PythonRules,
			TreeSitterLang: pythonsrc.GetLanguage(),
			QueryPath:      "python",
		})

		lang.Register(PlainText)

		logger.Debugf("Registration complete. Registered %d languages.", len(lang.GetAll()))
	})
}

// EngineFor builds the regex engine of a language; nil yields an engine with no rules.
func EngineFor(l *lang.Language) (*Engine, error) {
	if l == nil {
		return NewEngine(nil)
	}
	return NewEngine(l.Rules)
}
