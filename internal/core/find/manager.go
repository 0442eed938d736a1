package find

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/bethropolis/tidemark/internal/utils"
)

// ErrEmptyPattern is returned for an empty search or replace pattern.
var ErrEmptyPattern = errors.New("search pattern cannot be empty")

// Match is one occurrence of the search pattern. Start.Col and Length count runes.
type Match struct {
	Start  types.Position
	Length int
}

// Manager searches a line store for a regular expression.
type Manager struct {
	store     buffer.LineStore
	term      string
	re        *regexp.Regexp
	lastMatch *types.Position
}

// NewManager creates a find manager over store.
func NewManager(store buffer.LineStore) *Manager {
	return &Manager{store: store}
}

// SetTerm compiles term as the active search. An empty term clears the search.
func (m *Manager) SetTerm(term string) error {
	m.lastMatch = nil
	if term == "" {
		m.term, m.re = "", nil
		return nil
	}
	re, err := regexp.Compile(term)
	if err != nil {
		m.term, m.re = term, nil
		logger.Warnf("FindManager: invalid regex '%s': %v", term, err)
		return fmt.Errorf("invalid search pattern: %w", err)
	}
	m.term, m.re = term, re
	return nil
}

// Term returns the active search term.
func (m *Manager) Term() string {
	return m.term
}

// FindAll returns every non-empty match in document order.
func (m *Manager) FindAll() []Match {
	if m.re == nil {
		return nil
	}
	var out []Match
	for line := 0; line < m.store.LineCount(); line++ {
		out = append(out, m.lineMatches(m.re, line)...)
	}
	logger.Debugf("FindManager: %d matches for '%s'", len(out), m.term)
	return out
}

// FindNext returns the nearest match after (or, backwards, before) from,
// wrapping around the buffer. Calling it again from the match it returned
// moves on to the following one.
func (m *Manager) FindNext(from types.Position, forward bool) (Match, bool) {
	if m.re == nil {
		return Match{}, false
	}
	start := from
	if forward && m.lastMatch != nil && *m.lastMatch == from {
		start.Col++
	}

	count := m.store.LineCount()
	for i := 0; i <= count; i++ {
		line := (start.Line + i) % count
		if !forward {
			line = ((start.Line-i)%count + count) % count
		}
		matches := m.lineMatches(m.re, line)
		if forward {
			for _, match := range matches {
				if i == 0 && match.Start.Col < start.Col {
					continue
				}
				if i == count && match.Start.Col >= start.Col {
					break
				}
				return m.found(match), true
			}
			continue
		}
		for k := len(matches) - 1; k >= 0; k-- {
			match := matches[k]
			if i == 0 && match.Start.Col >= start.Col {
				continue
			}
			if i == count && match.Start.Col < start.Col {
				break
			}
			return m.found(match), true
		}
	}
	return Match{}, false
}

func (m *Manager) found(match Match) Match {
	pos := match.Start
	m.lastMatch = &pos
	return match
}

// lineMatches converts the byte matches of one line to rune positions.
// Zero-length matches are skipped.
func (m *Manager) lineMatches(re *regexp.Regexp, line int) []Match {
	text, err := m.store.Line(line)
	if err != nil {
		return nil
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	table := utils.NewRuneTable(text)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		start := table.RuneIndex(loc[0])
		out = append(out, Match{
			Start:  types.Position{Line: line, Col: start},
			Length: table.RuneIndex(loc[1]) - start,
		})
	}
	return out
}

// --- Replace Logic ---

// ParseSubstituteCommand parses a /pattern/replacement/[g] command string.
func ParseSubstituteCommand(cmdStr string) (pattern, replacement string, global bool, err error) {
	parts := strings.SplitN(cmdStr, "/", 4)
	if len(parts) < 3 || parts[0] != "" {
		err = fmt.Errorf("invalid format: use /pattern/replacement/[g]")
		return
	}
	pattern = parts[1]
	replacement = parts[2]
	if pattern == "" {
		err = ErrEmptyPattern
		return
	}
	if len(parts) > 3 && strings.Contains(parts[3], "g") {
		global = true
	}
	return
}

// Replace substitutes replacement for pattern. Without global only the first
// match at or after cursor is replaced (wrapping around the buffer); with
// global every match in the buffer is. Each changed line goes through
// ReplaceRange on its own. It returns the number of replacements and the
// position of the first one.
func (m *Manager) Replace(pattern, replacement string, global bool, cursor types.Position) (int, types.Position, error) {
	if pattern == "" {
		return 0, types.Position{}, ErrEmptyPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, types.Position{}, fmt.Errorf("invalid search pattern: %w", err)
	}
	if global {
		return m.replaceAll(re, replacement)
	}

	activeRe, lastMatch := m.re, m.lastMatch
	m.re, m.lastMatch = re, nil
	match, ok := m.FindNext(cursor, true)
	m.re, m.lastMatch = activeRe, lastMatch
	if !ok {
		return 0, types.Position{}, nil
	}
	if err := m.replaceOne(re, replacement, match); err != nil {
		return 0, types.Position{}, err
	}
	logger.Debugf("Replace: replaced match at line %d col %d", match.Start.Line, match.Start.Col)
	return 1, match.Start, nil
}

// replaceOne rewrites the line holding match with that single match expanded.
func (m *Manager) replaceOne(re *regexp.Regexp, replacement string, match Match) error {
	line := match.Start.Line
	text, err := m.store.Line(line)
	if err != nil {
		return fmt.Errorf("cannot get line %d: %w", line, err)
	}
	table := utils.NewRuneTable(text)
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if table.RuneIndex(loc[0]) != match.Start.Col || loc[0] == loc[1] {
			continue
		}
		expanded := re.ExpandString(nil, replacement, text, loc)
		updated := text[:loc[0]] + string(expanded) + text[loc[1]:]
		return m.store.ReplaceRange(line, line+1, []string{updated})
	}
	return nil
}

// replaceAll walks the buffer bottom-up so replacements that add lines do not
// shift lines still to be visited.
func (m *Manager) replaceAll(re *regexp.Regexp, replacement string) (int, types.Position, error) {
	total := 0
	var first types.Position
	for line := m.store.LineCount() - 1; line >= 0; line-- {
		text, err := m.store.Line(line)
		if err != nil {
			return total, first, fmt.Errorf("cannot get line %d: %w", line, err)
		}
		n := len(re.FindAllStringIndex(text, -1))
		if n == 0 {
			continue
		}
		updated := re.ReplaceAllString(text, replacement)
		if updated == text {
			continue
		}
		if err := m.store.ReplaceRange(line, line+1, []string{updated}); err != nil {
			return total, first, err
		}
		total += n
		loc := re.FindStringIndex(text)
		first = types.Position{Line: line, Col: utils.NewRuneTable(text).RuneIndex(loc[0])}
	}
	logger.Debugf("Replace: replaced %d occurrences of '%s'", total, re.String())
	return total, first, nil
}
