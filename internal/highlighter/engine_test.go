package highlighter

import (
	"errors"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/types"
	"github.com/bethropolis/tidemark/internal/utils"
	"github.com/google/go-cmp/cmp"
)

func span(start, length int, style types.StyleTag) types.Span {
	return types.Span{Start: start, Length: length, Style: style}
}

func TestHighlightLine(t *testing.T) {
	tests := []struct {
		name  string
		rules []types.StyleRule
		line  string
		want  []types.Span
	}{
		{
			name:  "empty line",
			rules: PythonRules,
			line:  "",
			want:  nil,
		},
		{
			name:  "no matches",
			rules: []types.StyleRule{{Pattern: `zzz`, Style: types.Keyword}},
			line:  "abc",
			want:  nil,
		},
		{
			name: "keyword declared before comment splits the comment",
			rules: []types.StyleRule{
				{Pattern: `if`, Style: types.Keyword},
				{Pattern: `#.*`, Style: types.Comment},
			},
			line: "if x: # if check",
			want: []types.Span{
				span(0, 2, types.Keyword),
				span(6, 2, types.Comment),
				span(8, 2, types.Keyword),
				span(10, 6, types.Comment),
			},
		},
		{
			name: "comment declared first owns the whole tail",
			rules: []types.StyleRule{
				{Pattern: `#.*`, Style: types.Comment},
				{Pattern: `if`, Style: types.Keyword},
			},
			line: "if x: # if check",
			want: []types.Span{
				span(0, 2, types.Keyword),
				span(6, 10, types.Comment),
			},
		},
		{
			name: "keyword inside quotes keeps keyword style",
			rules: []types.StyleRule{
				{Pattern: `def`, Style: types.Keyword},
				{Pattern: doubleQuoted, Style: types.String},
			},
			line: `"def"`,
			want: []types.Span{
				span(0, 1, types.String),
				span(1, 3, types.Keyword),
				span(4, 1, types.String),
			},
		},
		{
			name:  "pattern matching empty string",
			rules: []types.StyleRule{{Pattern: `x*`, Style: types.Keyword}},
			line:  "axxb",
			want:  []types.Span{span(1, 2, types.Keyword)},
		},
		{
			name:  "empty pattern",
			rules: []types.StyleRule{{Pattern: ``, Style: types.Keyword}},
			line:  "abc",
			want:  nil,
		},
		{
			name:  "offsets are runes",
			rules: []types.StyleRule{{Pattern: `wörld`, Style: types.Keyword}},
			line:  "héllo wörld",
			want:  []types.Span{span(6, 5, types.Keyword)},
		},
		{
			name:  "python comment hides number",
			rules: PythonRules,
			line:  "x = 'a' # 1",
			want: []types.Span{
				span(4, 3, types.String),
				span(8, 3, types.Comment),
			},
		},
		{
			name:  "go string hides keyword",
			rules: GoRules,
			line:  `x := "for" // for`,
			want: []types.Span{
				span(5, 5, types.String),
				span(11, 6, types.Comment),
			},
		},
		{
			name:  "python definition",
			rules: PythonRules,
			line:  "def f(n): return n + 10",
			want: []types.Span{
				span(0, 3, types.Keyword),
				span(10, 6, types.Keyword),
				span(21, 2, types.Number),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := MustEngine(tt.rules)
			got := e.HighlightLine(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("HighlightLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

// referenceStyles styles every rune by brute force: the first rule whose match
// covers a rune decides its style.
func referenceStyles(rules []types.StyleRule, line string) []types.StyleTag {
	e := MustEngine(rules)
	table := utils.NewRuneTable(line)
	out := make([]types.StyleTag, utf8.RuneCountInString(line))
	for _, rule := range e.compiled {
		for _, m := range rule.re.FindAllStringIndex(line, -1) {
			for r := table.RuneIndex(m[0]); r < table.RuneIndex(m[1]); r++ {
				if out[r] == "" {
					out[r] = rule.style
				}
			}
		}
	}
	return out
}

func TestHighlightLineProperties(t *testing.T) {
	lines := []string{
		"",
		"if x: # if check",
		`print("if" + 'else') # True 0x1F`,
		"def f(a, b=None): return a if b else 3.14",
		"    while True: pass  # loop 'forever'",
		`s = "unterminated`,
		"naïve = 'café' # ünïcödé if",
		"x",
		"#",
		`"a" "b" 'c'`,
	}
	ruleSets := map[string][]types.StyleRule{
		"python": PythonRules,
		"go":     GoRules,
		"overlapping": {
			{Pattern: `\w+`, Style: types.Function},
			{Pattern: `e\w*`, Style: types.Keyword},
			{Pattern: `.`, Style: types.Operator},
			{Pattern: `a*`, Style: types.Constant},
		},
	}

	for name, rules := range ruleSets {
		e := MustEngine(rules)
		for _, line := range lines {
			spans := e.HighlightLine(line)
			runes := utf8.RuneCountInString(line)

			prevEnd := 0
			for i, s := range spans {
				if s.Length <= 0 {
					t.Errorf("%s %q: span %d has length %d", name, line, i, s.Length)
				}
				if s.Start < prevEnd {
					t.Errorf("%s %q: span %d %+v overlaps or is unsorted", name, line, i, s)
				}
				if s.End() > runes {
					t.Errorf("%s %q: span %d %+v ends past %d", name, line, i, s, runes)
				}
				prevEnd = s.End()
			}

			got := make([]types.StyleTag, runes)
			for _, s := range spans {
				for r := s.Start; r < s.End(); r++ {
					got[r] = s.Style
				}
			}
			if diff := cmp.Diff(referenceStyles(rules, line), got); diff != "" {
				t.Errorf("%s %q: per-rune styles mismatch (-want +got):\n%s", name, line, diff)
			}

			if again := e.HighlightLine(line); !cmp.Equal(spans, again) {
				t.Errorf("%s %q: second call differs: %v vs %v", name, line, spans, again)
			}
		}
	}
}

func TestNewEngineRejectsBadRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []types.StyleRule
	}{
		{"unbalanced paren", []types.StyleRule{{Pattern: `\bok\b`, Style: types.Keyword}, {Pattern: `(`, Style: types.String}}},
		{"bad repetition", []types.StyleRule{{Pattern: `a**`, Style: types.Keyword}}},
		{"empty style", []types.StyleRule{{Pattern: `a`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngine(tt.rules)
			if !errors.Is(err, ErrInvalidPattern) {
				t.Fatalf("NewEngine error = %v, want ErrInvalidPattern", err)
			}
			if e != nil {
				t.Error("NewEngine returned an engine alongside the error")
			}
		})
	}
}

func TestMustEnginePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustEngine did not panic on an invalid rule")
		}
	}()
	MustEngine([]types.StyleRule{{Pattern: `[`, Style: types.Keyword}})
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := []types.StyleRule{{Pattern: `a`, Style: types.Keyword}}
	e := MustEngine(rules)
	rules[0].Pattern = `b`

	got := e.Rules()
	got[0].Style = types.Comment

	want := []types.StyleRule{{Pattern: `a`, Style: types.Keyword}}
	if diff := cmp.Diff(want, e.Rules()); diff != "" {
		t.Errorf("Rules mismatch (-want +got):\n%s", diff)
	}
	if spans := e.HighlightLine("ab"); len(spans) != 1 || spans[0].Style != types.Keyword {
		t.Errorf("engine affected by caller mutation: %v", spans)
	}
}

func TestEngineConcurrentUse(t *testing.T) {
	e := MustEngine(PythonRules)
	line := `def f(): return "if" # done`
	want := e.HighlightLine(line)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := e.HighlightLine(line); !cmp.Equal(want, got) {
					t.Errorf("concurrent HighlightLine = %v, want %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEngineFor(t *testing.T) {
	e, err := EngineFor(nil)
	if err != nil {
		t.Fatalf("EngineFor(nil): %v", err)
	}
	if spans := e.HighlightLine("def x"); spans != nil {
		t.Errorf("empty engine produced spans %v", spans)
	}

	e, err = EngineFor(PlainText)
	if err != nil || len(e.Rules()) != 0 {
		t.Errorf("EngineFor(PlainText) = %v rules, %v", len(e.Rules()), err)
	}
}
