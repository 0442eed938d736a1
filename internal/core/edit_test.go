package core

import (
	"testing"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestInsertRuneRehighlightsOneLine(t *testing.T) {
	s, store, hl := newTestSession(t, "a\nb\nc")
	s.SetViewSize(20, 5)
	s.SetCursor(types.Position{Line: 1, Col: 0})
	hl.lines = nil

	for _, r := range "if " {
		if err := s.InsertRune(r); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]string{"a", "if b", "c"}, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ib", "ifb", "if b"}, hl.lines); diff != "" {
		t.Errorf("highlighted lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(kw(0), s.Spans(1)); diff != "" {
		t.Errorf("spans of edited line (-want +got):\n%s", diff)
	}
	if s.Cursor != (types.Position{Line: 1, Col: 3}) {
		t.Errorf("cursor = %+v, want {1 3}", s.Cursor)
	}
	if !store.Modified() {
		t.Error("store should be modified after typing")
	}
}

func TestInsertNewlineSplitsLine(t *testing.T) {
	s, store, _ := newTestSession(t, "if ab\n# c")
	s.SetViewSize(20, 5)
	s.SetCursor(types.Position{Line: 0, Col: 4})

	if err := s.InsertRune('\n'); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"if a", "b", "# c"}, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if s.Cursor != (types.Position{Line: 1, Col: 0}) {
		t.Errorf("cursor = %+v, want {1 0}", s.Cursor)
	}
	want := [][]types.Span{kw(0), nil, comment(0, 3)}
	if diff := cmp.Diff(want, allSpans(s)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteBackward(t *testing.T) {
	s, store, _ := newTestSession(t, "ab\ncd")
	s.SetViewSize(20, 5)

	s.SetCursor(types.Position{Line: 1, Col: 1})
	if err := s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ab", "d"}, store.Lines()); diff != "" {
		t.Errorf("after removing a rune (-want +got):\n%s", diff)
	}

	if err := s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"abd"}, store.Lines()); diff != "" {
		t.Errorf("after joining lines (-want +got):\n%s", diff)
	}
	if s.Cursor != (types.Position{Line: 0, Col: 2}) {
		t.Errorf("cursor = %+v, want {0 2}", s.Cursor)
	}

	s.SetCursor(types.Position{})
	if err := s.DeleteBackward(); err != nil {
		t.Fatal(err)
	}
	if got := store.Text(); got != "abd" {
		t.Errorf("backspace at the start of the buffer changed text to %q", got)
	}
}

func TestDeleteForward(t *testing.T) {
	s, store, _ := newTestSession(t, "ab\ncd")
	s.SetViewSize(20, 5)

	if err := s.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	s.End()
	if err := s.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"bcd"}, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	s.End()
	if err := s.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if got := store.Text(); got != "bcd" {
		t.Errorf("delete at the end of the buffer changed text to %q", got)
	}
}

func TestDeleteLine(t *testing.T) {
	s, store, hl := newTestSession(t, "a\nif x\n# c")
	s.SetViewSize(20, 5)
	s.SetCursor(types.Position{Line: 1, Col: 3})
	hl.lines = nil

	if err := s.DeleteLine(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "# c"}, store.Lines()); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if len(hl.lines) != 0 {
		t.Errorf("deleting a line should not highlight anything, got %q", hl.lines)
	}
	if diff := cmp.Diff([][]types.Span{nil, comment(0, 3)}, allSpans(s)); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
	if s.Cursor != (types.Position{Line: 1, Col: 0}) {
		t.Errorf("cursor = %+v, want {1 0}", s.Cursor)
	}

	s.SetCursor(types.Position{Line: 1})
	if err := s.DeleteLine(); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteLine(); err != nil {
		t.Fatal(err)
	}
	if store.LineCount() != 1 || store.Text() != "" {
		t.Errorf("deleting every line should leave one empty line, got %q", store.Lines())
	}
}

func TestEditPublishesOneCursorEvent(t *testing.T) {
	store := buffer.NewSliceStore()
	store.SetText("abc\ndef")
	events := event.NewManager()
	var moved []event.CursorMovedData
	events.Subscribe(event.TypeCursorMoved, func(e event.Event) bool {
		moved = append(moved, e.Data.(event.CursorMovedData))
		return false
	})
	s := NewSession(store, nil, nil, events)
	s.SetViewSize(20, 5)
	s.SetCursor(types.Position{Line: 1, Col: 3})
	moved = nil

	if err := s.DeleteLine(); err != nil {
		t.Fatal(err)
	}
	want := []event.CursorMovedData{{
		OldPosition: types.Position{Line: 1, Col: 3},
		NewPosition: types.Position{Line: 0, Col: 0},
	}}
	if diff := cmp.Diff(want, moved); diff != "" {
		t.Errorf("cursor events mismatch (-want +got):\n%s", diff)
	}
}
