package highlighter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/bethropolis/tidemark/internal/utils"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrNoGrammar is returned when a language has no tree-sitter grammar or query.
var ErrNoGrammar = errors.New("language has no tree-sitter grammar")

// HighlightResult maps line number -> spans on that line.
type HighlightResult map[int][]types.Span

// TreeSitterEngine highlights a whole buffer from a syntax tree. Captures are
// composited like regex rules: the query pattern declared first owns a
// character. The previous tree is kept so edits can be reparsed incrementally.
// Not safe for concurrent use.
type TreeSitterEngine struct {
	language *lang.Language
	parser   *sitter.Parser
	query    *sitter.Query
	tree     *sitter.Tree
}

// NewTreeSitterEngine prepares a parser and compiles the language's highlight query.
func NewTreeSitterEngine(l *lang.Language) (*TreeSitterEngine, error) {
	if l == nil || !l.HasGrammar() {
		return nil, ErrNoGrammar
	}
	queryBytes, err := l.GetQuery()
	if err != nil {
		return nil, err
	}
	query, err := sitter.NewQuery(queryBytes, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("highlight query for %s: %v: %w", l.Name, err, ErrInvalidPattern)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(l.TreeSitterLang)
	return &TreeSitterEngine{language: l, parser: parser, query: query}, nil
}

// Language returns the language the engine parses.
func (t *TreeSitterEngine) Language() *lang.Language {
	return t.language
}

// Edit records a buffer edit on the retained tree so the next Highlight call
// reparses incrementally.
func (t *TreeSitterEngine) Edit(edit types.EditInfo) {
	if t.tree == nil {
		return
	}
	t.tree.Edit(sitter.EditInput{
		StartIndex:  edit.StartIndex,
		OldEndIndex: edit.OldEndIndex,
		NewEndIndex: edit.NewEndIndex,
		StartPoint:  edit.StartPosition,
		OldEndPoint: edit.OldEndPosition,
		NewEndPoint: edit.NewEndPosition,
	})
}

// Reset drops the retained tree, forcing a full parse next time.
func (t *TreeSitterEngine) Reset() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Close releases the parser, query and tree.
func (t *TreeSitterEngine) Close() {
	t.Reset()
	t.query.Close()
	t.parser.Close()
}

type capture struct {
	pattern    uint16
	style      types.StyleTag
	start, end sitter.Point
}

// Highlight parses src and returns the spans of every line that has any.
func (t *TreeSitterEngine) Highlight(ctx context.Context, src []byte) (HighlightResult, error) {
	tree, err := t.parser.ParseCtx(ctx, t.tree, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s failed: %w", t.language.Name, err)
	}
	if t.tree != nil {
		t.tree.Close()
	}
	t.tree = tree

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(t.query, tree.RootNode())

	var captures []capture
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, src)
		for _, c := range match.Captures {
			captures = append(captures, capture{
				pattern: match.PatternIndex,
				style:   captureStyle(t.query.CaptureNameForId(c.Index)),
				start:   c.Node.StartPoint(),
				end:     c.Node.EndPoint(),
			})
		}
	}
	// Pattern order is precedence; matches arrive in document order.
	sort.SliceStable(captures, func(i, j int) bool { return captures[i].pattern < captures[j].pattern })

	lines := strings.Split(string(src), "\n")
	perLine := make(map[int]*claims)
	tables := make(map[int]utils.RuneTable)
	lineClaims := func(row int) (*claims, utils.RuneTable) {
		c, ok := perLine[row]
		if !ok {
			c = newClaims(utf8.RuneCountInString(lines[row]))
			perLine[row] = c
			tables[row] = utils.NewRuneTable(lines[row])
		}
		return c, tables[row]
	}

	for _, c := range captures {
		for row := int(c.start.Row); row <= int(c.end.Row) && row < len(lines); row++ {
			startByte, endByte := 0, len(lines[row])
			if row == int(c.start.Row) {
				startByte = int(c.start.Column)
			}
			if row == int(c.end.Row) {
				endByte = int(c.end.Column)
			}
			if endByte > len(lines[row]) {
				endByte = len(lines[row])
			}
			if endByte <= startByte {
				continue
			}
			cl, table := lineClaims(row)
			cl.claim(table.RuneIndex(startByte), table.RuneIndex(endByte), c.style)
		}
	}

	result := make(HighlightResult, len(perLine))
	for row, cl := range perLine {
		if spans := cl.result(); spans != nil {
			result[row] = spans
		}
	}
	logger.DebugTagf("highlight", "TreeSitterEngine: %d captures over %d lines", len(captures), len(result))
	return result, nil
}

// captureStyle maps a capture name like "keyword.control" to its style tag.
// The full dotted name is kept; the theme falls back to the base name.
func captureStyle(name string) types.StyleTag {
	return types.StyleTag(strings.TrimPrefix(name, "@"))
}
