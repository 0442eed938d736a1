// Package highlighter turns line text into styled spans.
//
// The regex Engine is a deliberately shallow single-pass highlighter: it has no
// lexical state, so overlaps are resolved purely by rule order. A keyword spelled
// inside a quoted string is highlighted as a keyword when the keyword rule is
// declared before the string rule. That is expected behaviour.
package highlighter

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/bethropolis/tidemark/internal/utils"
)

// ErrInvalidPattern is returned by NewEngine when a rule cannot be compiled.
var ErrInvalidPattern = errors.New("invalid highlight rule")

type compiledRule struct {
	re    *regexp.Regexp
	style types.StyleTag
}

// Engine applies an ordered rule set to single lines. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	rules    []types.StyleRule
	compiled []compiledRule
}

// NewEngine compiles every rule up front. A bad rule fails construction rather
// than being skipped during a highlight pass.
func NewEngine(rules []types.StyleRule) (*Engine, error) {
	e := &Engine{
		rules:    make([]types.StyleRule, len(rules)),
		compiled: make([]compiledRule, 0, len(rules)),
	}
	copy(e.rules, rules)

	for i, rule := range rules {
		if rule.Style == "" {
			return nil, fmt.Errorf("rule %d (%q): empty style: %w", i, rule.Pattern, ErrInvalidPattern)
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %v: %w", i, rule.Style, err, ErrInvalidPattern)
		}
		e.compiled = append(e.compiled, compiledRule{re: re, style: rule.Style})
	}
	logger.DebugTagf("highlight", "NewEngine: compiled %d rules", len(e.compiled))
	return e, nil
}

// MustEngine is like NewEngine but panics on error. Meant for built-in rule sets.
func MustEngine(rules []types.StyleRule) *Engine {
	e, err := NewEngine(rules)
	if err != nil {
		panic(err)
	}
	return e
}

// Rules returns a copy of the rules in declaration order.
func (e *Engine) Rules() []types.StyleRule {
	out := make([]types.StyleRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// HighlightLine returns the styled spans of text, sorted by start offset.
// Offsets are rune indices. Spans never overlap and never leave [0, runes(text)).
func (e *Engine) HighlightLine(text string) []types.Span {
	if text == "" {
		return nil
	}
	table := utils.NewRuneTable(text)
	c := newClaims(utf8.RuneCountInString(text))

	for _, rule := range e.compiled {
		// FindAll resumes each search at the previous match end and steps one
		// rune past an empty match, so patterns matching "" cannot loop.
		for _, m := range rule.re.FindAllStringIndex(text, -1) {
			start, end := table.RuneIndex(m[0]), table.RuneIndex(m[1])
			if end <= start {
				continue
			}
			c.claim(start, end, rule.style)
		}
	}
	return c.result()
}
