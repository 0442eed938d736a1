package find

import (
	"errors"
	"testing"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/google/go-cmp/cmp"
)

func newManager(t *testing.T, text string) (*Manager, *buffer.SliceStore) {
	t.Helper()
	store := buffer.NewSliceStore()
	store.SetText(text)
	store.ClearDirty()
	return NewManager(store), store
}

func pos(line, col int) types.Position {
	return types.Position{Line: line, Col: col}
}

func TestFindAll(t *testing.T) {
	m, _ := newManager(t, "foo bar foo\nnone\nçfoo")
	if err := m.SetTerm("foo"); err != nil {
		t.Fatal(err)
	}
	want := []Match{
		{Start: pos(0, 0), Length: 3},
		{Start: pos(0, 8), Length: 3},
		{Start: pos(2, 1), Length: 3},
	}
	if diff := cmp.Diff(want, m.FindAll()); diff != "" {
		t.Errorf("FindAll mismatch (-want +got):\n%s", diff)
	}

	if err := m.SetTerm("x*"); err != nil {
		t.Fatal(err)
	}
	if got := m.FindAll(); len(got) != 0 {
		t.Errorf("zero-length matches should be skipped, got %v", got)
	}
}

func TestSetTermInvalid(t *testing.T) {
	m, _ := newManager(t, "a")
	if err := m.SetTerm("("); err == nil {
		t.Fatal("SetTerm with an invalid regex should fail")
	}
	if _, ok := m.FindNext(pos(0, 0), true); ok {
		t.Error("FindNext after an invalid term should find nothing")
	}
	if err := m.SetTerm(""); err != nil || m.Term() != "" {
		t.Errorf("empty term: err=%v term=%q", err, m.Term())
	}
}

func TestFindNextWraps(t *testing.T) {
	m, _ := newManager(t, "x foo\nfoo\n\nfoo x")
	if err := m.SetTerm("foo"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		from    types.Position
		forward bool
		want    types.Position
	}{
		{"forward from start", pos(0, 0), true, pos(0, 2)},
		{"forward repeats from last match", pos(0, 2), true, pos(1, 0)},
		{"forward skips empty line", pos(1, 0), true, pos(3, 0)},
		{"forward wraps to top", pos(3, 0), true, pos(0, 2)},
		{"backward from middle", pos(1, 0), false, pos(0, 2)},
		{"backward wraps to bottom", pos(0, 2), false, pos(3, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.FindNext(tt.from, tt.forward)
			if !ok {
				t.Fatalf("FindNext(%v, %v) found nothing", tt.from, tt.forward)
			}
			if got.Start != tt.want {
				t.Errorf("FindNext(%v, %v) = %v, want %v", tt.from, tt.forward, got.Start, tt.want)
			}
		})
	}
}

func TestFindNextSingleMatchReturnsItself(t *testing.T) {
	m, _ := newManager(t, "a\nfoo\nb")
	if err := m.SetTerm("foo"); err != nil {
		t.Fatal(err)
	}
	first, ok := m.FindNext(pos(0, 0), true)
	if !ok || first.Start != pos(1, 0) {
		t.Fatalf("first match = %v, %v", first, ok)
	}
	again, ok := m.FindNext(first.Start, true)
	if !ok || again.Start != pos(1, 0) {
		t.Errorf("wrapping onto the only match = %v, %v", again, ok)
	}
}

func TestParseSubstituteCommand(t *testing.T) {
	tests := []struct {
		in          string
		pattern     string
		replacement string
		global      bool
		wantErr     bool
	}{
		{"/foo/bar/", "foo", "bar", false, false},
		{"/foo/bar/g", "foo", "bar", true, false},
		{"/foo/bar", "foo", "bar", false, false},
		{"/foo//g", "foo", "", true, false},
		{"foo/bar/", "", "", false, true},
		{"//bar/", "", "bar", false, true},
		{"/foo", "", "", false, true},
	}
	for _, tt := range tests {
		pattern, replacement, global, err := ParseSubstituteCommand(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSubstituteCommand(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if pattern != tt.pattern || replacement != tt.replacement || global != tt.global {
			t.Errorf("ParseSubstituteCommand(%q) = %q, %q, %v", tt.in, pattern, replacement, global)
		}
	}
}

func TestReplaceFirstFromCursor(t *testing.T) {
	m, store := newManager(t, "foo foo\nbar\nfoo")

	n, at, err := m.Replace("foo", "baz", false, pos(0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || at != pos(0, 4) {
		t.Errorf("Replace = %d at %v, want 1 at {0 4}", n, at)
	}
	want := []string{"foo baz", "bar", "foo"}
	if diff := cmp.Diff(want, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, store.DirtyLines()); diff != "" {
		t.Errorf("only the replaced line should be dirty (-want +got):\n%s", diff)
	}
}

func TestReplaceExpandsGroups(t *testing.T) {
	m, store := newManager(t, "key=value")
	if _, _, err := m.Replace(`(\w+)=(\w+)`, "$2=$1", false, pos(0, 0)); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Line(0); got != "value=key" {
		t.Errorf("line = %q, want %q", got, "value=key")
	}
}

func TestReplaceGlobal(t *testing.T) {
	m, store := newManager(t, "a.b\nnone\na.a\nb")

	n, at, err := m.Replace(`a`, "x", true, pos(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || at != pos(0, 0) {
		t.Errorf("Replace global = %d at %v, want 3 at {0 0}", n, at)
	}
	want := []string{"x.b", "none", "x.x", "b"}
	if diff := cmp.Diff(want, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, store.DirtyLines()); diff != "" {
		t.Errorf("dirty lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceGlobalSplittingLines(t *testing.T) {
	m, store := newManager(t, "a;b\nc;d")
	n, _, err := m.Replace(";", "\n", true, pos(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("replacements = %d, want 2", n)
	}
	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceErrors(t *testing.T) {
	m, store := newManager(t, "abc")
	if _, _, err := m.Replace("", "x", false, pos(0, 0)); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("empty pattern err = %v", err)
	}
	if _, _, err := m.Replace("[", "x", true, pos(0, 0)); err == nil {
		t.Error("invalid pattern should fail")
	}
	n, _, err := m.Replace("zzz", "x", false, pos(0, 0))
	if err != nil || n != 0 {
		t.Errorf("no match: n=%d err=%v", n, err)
	}
	if store.Modified() {
		t.Error("a replace without matches should not modify the store")
	}
}
