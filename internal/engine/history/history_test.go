package history

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/codepad/internal/engine/cursor"
)

func co(line, col int) Coordinates {
	return Coordinates{Line: line, Column: col}
}

// recorder is a Replayer that logs every call.
type recorder struct {
	calls    []string
	colorize [][2]int
	restored *cursor.Set
	failDel  bool
}

func (r *recorder) InsertTextAt(at Coordinates, text string) (Coordinates, int) {
	r.calls = append(r.calls, "insert "+text+" "+at.String())
	return at, 0
}

func (r *recorder) DeleteRange(start, end Coordinates) error {
	r.calls = append(r.calls, "delete "+start.String()+" "+end.String())
	if r.failDel {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) Colorize(fromLine, count int) {
	r.colorize = append(r.colorize, [2]int{fromLine, count})
}

func (r *recorder) RestoreCursors(state *cursor.Set) {
	r.restored = state
}

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	before := cursor.NewSetFrom(cursor.Span(co(0, 6), co(0, 11)))
	after := cursor.NewSetFrom(cursor.At(co(0, 11)))
	rec, err := NewRecord([]Operation{
		{Text: "world", Start: co(0, 6), End: co(0, 11), Kind: Delete},
		{Text: "", Start: co(0, 6), End: co(0, 6), Kind: Add},
		{Text: "there", Start: co(0, 6), End: co(0, 11), Kind: Add},
	}, before, after)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	return rec
}

// Operation Tests

func TestKindString(t *testing.T) {
	if Add.String() != "add" || Delete.String() != "delete" {
		t.Errorf("unexpected names %q %q", Add, Delete)
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("unexpected fallback %q", Kind(9))
	}
}

func TestNewRecordRejectsInvertedRange(t *testing.T) {
	_, err := NewRecord([]Operation{{Text: "x", Start: co(1, 0), End: co(0, 5)}}, nil, nil)
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("NewRecord() error = %v, want ErrInvalidOperation", err)
	}
}

// Replay Tests

func TestRecordUndo(t *testing.T) {
	rec := sampleRecord(t)
	r := &recorder{}
	if err := rec.Undo(r); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	wantCalls := []string{
		"delete (0:6) (0:11)",
		"insert world (0:6)",
	}
	if diff := cmp.Diff(wantCalls, r.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{-1, 2}, {-1, 2}}, r.colorize); diff != "" {
		t.Errorf("colorize mismatch (-want +got):\n%s", diff)
	}
	if r.restored != rec.Before {
		t.Error("Undo should restore the before state")
	}
}

func TestRecordRedo(t *testing.T) {
	rec := sampleRecord(t)
	r := &recorder{}
	if err := rec.Redo(r); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}

	wantCalls := []string{
		"delete (0:6) (0:11)",
		"insert there (0:6)",
	}
	if diff := cmp.Diff(wantCalls, r.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{-1, 1}, {-1, 1}}, r.colorize); diff != "" {
		t.Errorf("colorize mismatch (-want +got):\n%s", diff)
	}
	if r.restored != rec.After {
		t.Error("Redo should restore the after state")
	}
}

func TestRecordUndoJoinsErrors(t *testing.T) {
	rec := sampleRecord(t)
	r := &recorder{failDel: true}
	if err := rec.Undo(r); err == nil {
		t.Error("expected replay error")
	}
	if r.restored == nil {
		t.Error("state should be restored even when replay fails")
	}
}

// History Tests

func TestHistoryUndoRedo(t *testing.T) {
	h := New(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", h.MaxEntries(), DefaultMaxEntries)
	}

	r := &recorder{}
	if n, _ := h.Undo(r, 1); n != 0 {
		t.Errorf("Undo on empty history = %d, want 0", n)
	}

	h.Add(sampleRecord(t))
	h.Add(sampleRecord(t))
	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("expected undo only")
	}

	if n, _ := h.Undo(r, 5); n != 2 {
		t.Errorf("Undo(5) = %d, want 2", n)
	}
	if h.Index() != 0 || h.RedoCount() != 2 {
		t.Errorf("Index() = %d, RedoCount() = %d", h.Index(), h.RedoCount())
	}

	if n, _ := h.Redo(r, 1); n != 1 {
		t.Errorf("Redo(1) = %d, want 1", n)
	}
	if h.Index() != 1 {
		t.Errorf("Index() = %d, want 1", h.Index())
	}
}

func TestHistoryAddDiscardsRedoTail(t *testing.T) {
	h := New(10)
	first := sampleRecord(t)
	h.Add(first)
	h.Add(sampleRecord(t))
	h.Undo(&recorder{}, 2)

	h.Add(sampleRecord(t))
	if h.Len() != 1 || h.CanRedo() {
		t.Errorf("Len() = %d, CanRedo() = %v; redo tail not discarded", h.Len(), h.CanRedo())
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(2)
	for i := 0; i < 5; i++ {
		rec := sampleRecord(t)
		rec.Description = string(rune('a' + i))
		h.Add(rec)
	}
	if h.Len() != 2 || h.Index() != 2 {
		t.Fatalf("Len() = %d, Index() = %d, want 2, 2", h.Len(), h.Index())
	}
	info, ok := h.PeekUndo()
	if !ok || info.Description != "e" {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}

	h.SetMaxEntries(1)
	if got := h.UndoInfo(); len(got) != 1 || got[0].Description != "e" {
		t.Errorf("UndoInfo() = %+v", got)
	}
}

func TestHistoryClear(t *testing.T) {
	h := New(5)
	h.Add(sampleRecord(t))
	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.Len() != 0 {
		t.Error("Clear should drop all records")
	}
}

// Transaction Tests

func TestTransactionCommit(t *testing.T) {
	h := New(5)
	cursors := cursor.NewSetFrom(cursor.At(co(0, 0)))

	tx := h.Begin("Type", cursors)
	cursors.Put(0, cursor.At(co(0, 1)))
	tx.Add("x", co(0, 0), co(0, 1))
	rec, err := tx.Commit(cursors)
	if err != nil || rec == nil {
		t.Fatalf("Commit() = %v, %v", rec, err)
	}
	if rec.Before.Get(0) != cursor.At(co(0, 0)) {
		t.Errorf("before state = %v, want caret at origin", rec.Before.Get(0))
	}
	if rec.After.Get(0) != cursor.At(co(0, 1)) {
		t.Errorf("after state = %v", rec.After.Get(0))
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}

	if again, _ := tx.Commit(cursors); again != nil || h.Len() != 1 {
		t.Error("second Commit should be a no-op")
	}
}

func TestTransactionEmptyAndCancel(t *testing.T) {
	h := New(5)
	cursors := cursor.NewSet()

	if rec, _ := h.Begin("Nothing", cursors).Commit(cursors); rec != nil {
		t.Error("empty transaction should not be recorded")
	}

	tx := h.Begin("Cancelled", cursors)
	tx.Delete("a", co(0, 0), co(0, 1))
	tx.Cancel()
	tx.Commit(cursors)
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}

	bad := h.Begin("Bad", cursors)
	bad.Add("a", co(2, 0), co(1, 0))
	if _, err := bad.Commit(cursors); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Commit() error = %v, want ErrInvalidOperation", err)
	}
}
