package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/codepad/internal/clipboard"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/logging"
	"github.com/dshills/codepad/internal/palette"
)

func co(line, col int) Coordinates {
	return Coordinates{Line: line, Column: col}
}

func newTestEngine(t *testing.T, text string, opts ...Option) *Engine {
	t.Helper()
	base := []Option{WithLogger(logging.NullLogger), WithContent(text)}
	return New(append(base, opts...)...)
}

func assertText(t *testing.T, e *Engine, want string) {
	t.Helper()
	if got := e.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func assertCursors(t *testing.T, e *Engine, want ...Cursor) {
	t.Helper()
	if diff := cmp.Diff(want, e.Cursors()); diff != "" {
		t.Errorf("cursors mismatch (-want +got):\n%s", diff)
	}
}

// Creation Tests

func TestNew(t *testing.T) {
	e := newTestEngine(t, "")
	assertText(t, e, "")
	if e.LineCount() != 1 {
		t.Errorf("LineCount() = %d, want 1", e.LineCount())
	}
	if e.TabSize() != buffer.DefaultTabSize {
		t.Errorf("TabSize() = %d, want %d", e.TabSize(), buffer.DefaultTabSize)
	}
	if e.ReadOnly() {
		t.Error("new engine should not be read-only")
	}
	if !e.AutoIndent() {
		t.Error("auto-indent should default to on")
	}
	if e.CanUndo() || e.CanRedo() {
		t.Error("new engine should have no history")
	}
	assertCursors(t, e, cursor.At(co(0, 0)))
}

func TestNewWithOptions(t *testing.T) {
	e := newTestEngine(t, "a\tb",
		WithTabSize(2),
		WithAutoIndent(false),
		WithMaxUndoEntries(3),
	)
	if e.TabSize() != 2 {
		t.Errorf("TabSize() = %d, want 2", e.TabSize())
	}
	if e.AutoIndent() {
		t.Error("auto-indent should be off")
	}
	if got := e.LineMaxColumn(0); got != 3 {
		t.Errorf("LineMaxColumn(0) = %d, want 3", got)
	}
	if e.History().MaxEntries() != 3 {
		t.Errorf("MaxEntries() = %d, want 3", e.History().MaxEntries())
	}
}

func TestSetTextResetsState(t *testing.T) {
	e := newTestEngine(t, "one")
	e.SetCursorPosition(co(0, 3), -1, true)
	if err := e.InsertText("!"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	gen := e.Generation()

	e.SetText("a\r\nb")
	assertText(t, e, "a\nb")
	if e.CanUndo() {
		t.Error("SetText should clear the history")
	}
	if e.Generation() == gen {
		t.Error("SetText should change the generation")
	}
	assertCursors(t, e, cursor.At(co(0, 0)))

	e.SetTextLines([]string{"x\r", "y", ""})
	if diff := cmp.Diff([]string{"x", "y", ""}, e.TextLines()); diff != "" {
		t.Errorf("TextLines mismatch (-want +got):\n%s", diff)
	}
}

// Edit Primitive Tests

func TestInsertTextAtDeleteRangeInverse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		at      Coordinates
		insert  string
		want    string
		wantEnd Coordinates
		lines   int
	}{
		{"middle", "abc", co(0, 1), "XY", "aXYbc", co(0, 3), 0},
		{"line break", "abc\ndef", co(0, 1), "X\nY", "aX\nYbc\ndef", co(1, 1), 1},
		{"after tab", "\tab", co(0, 4), "zz", "\tzzab", co(0, 6), 0},
		{"multibyte", "é", co(0, 0), "日本", "日本é", co(0, 2), 0},
		{"end of text", "ab", co(0, 2), "\n\n", "ab\n\n", co(2, 0), 2},
		{"carriage return dropped", "ab", co(0, 1), "x\r\ny", "ax\nyb", co(1, 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, tt.text)
			end, lines := e.InsertTextAt(tt.at, tt.insert)
			assertText(t, e, tt.want)
			if end != tt.wantEnd {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
			if lines != tt.lines {
				t.Errorf("lines = %d, want %d", lines, tt.lines)
			}
			if err := e.DeleteRange(tt.at, end); err != nil {
				t.Fatalf("DeleteRange: %v", err)
			}
			assertText(t, e, tt.text)
		})
	}
}

func TestDeleteRangeInverted(t *testing.T) {
	e := newTestEngine(t, "abcdef")
	gen := e.Generation()
	err := e.DeleteRange(co(0, 3), co(0, 1))
	if !errors.Is(err, buffer.ErrRangeInverted) {
		t.Fatalf("DeleteRange error = %v, want ErrRangeInverted", err)
	}
	assertText(t, e, "abcdef")
	if e.Generation() != gen {
		t.Error("a rejected delete should not change the generation")
	}
}

func TestInsertTextAtMovesCaretsOnLine(t *testing.T) {
	e := newTestEngine(t, "abcd")
	e.SetCursorPosition(co(0, 3), -1, true)

	e.InsertTextAt(co(0, 1), "XY")
	assertCursors(t, e, cursor.At(co(0, 5)))

	// A line break carries the caret onto the new line.
	e.InsertTextAt(co(0, 1), "\n")
	assertText(t, e, "a\nXYbcd")
	assertCursors(t, e, cursor.At(co(1, 4)))
}

func TestDeleteRangeRebasesCarets(t *testing.T) {
	e := newTestEngine(t, "ab\ncdef\ngh")
	e.SetCursorPosition(co(1, 3), -1, true)
	e.AddCursorAt(co(2, 1))

	if err := e.DeleteRange(co(0, 1), co(1, 1)); err != nil {
		t.Fatalf("DeleteRange: %v", err)
	}
	assertText(t, e, "adef\ngh")
	assertCursors(t, e, cursor.At(co(0, 3)), cursor.At(co(1, 1)))
}

// Undo Tests

func TestReplaceSelectionUndo(t *testing.T) {
	e := newTestEngine(t, "hello world")
	e.SetSelection(co(0, 6), co(0, 11), -1)

	if err := e.InsertText("there"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	assertText(t, e, "hello there")
	assertCursors(t, e, cursor.At(co(0, 11)))

	n, err := e.Undo(1)
	if err != nil || n != 1 {
		t.Fatalf("Undo(1) = %d, %v", n, err)
	}
	assertText(t, e, "hello world")
	assertCursors(t, e, cursor.Span(co(0, 6), co(0, 11)))
	if got := e.SelectedText(-1); got != "world" {
		t.Errorf("SelectedText = %q, want %q", got, "world")
	}

	n, err = e.Redo(1)
	if err != nil || n != 1 {
		t.Fatalf("Redo(1) = %d, %v", n, err)
	}
	assertText(t, e, "hello there")
	assertCursors(t, e, cursor.At(co(0, 11)))
}

func TestTypedReplacementUndoSteps(t *testing.T) {
	e := newTestEngine(t, "hello world")
	e.SetSelection(co(0, 6), co(0, 11), -1)

	for i, ch := range "there" {
		if err := e.EnterCharacter(ch, false); err != nil {
			t.Fatalf("EnterCharacter(%q): %v", ch, err)
		}
		if got := e.UndoIndex(); got != i+1 {
			t.Errorf("after %q UndoIndex() = %d, want %d", ch, got, i+1)
		}
	}
	assertText(t, e, "hello there")
	assertCursors(t, e, cursor.At(co(0, 11)))

	for _, want := range []string{"hello ther", "hello the", "hello th", "hello t"} {
		if n, err := e.Undo(1); err != nil || n != 1 {
			t.Fatalf("Undo(1) = %d, %v", n, err)
		}
		assertText(t, e, want)
		assertCursors(t, e, cursor.At(co(0, len(want))))
	}

	if n, err := e.Undo(1); err != nil || n != 1 {
		t.Fatalf("Undo(1) = %d, %v", n, err)
	}
	assertText(t, e, "hello world")
	assertCursors(t, e, cursor.Span(co(0, 6), co(0, 11)))
	if e.CanUndo() {
		t.Error("nothing should be left to undo")
	}

	if n, _ := e.Redo(5); n != 5 {
		t.Errorf("Redo(5) = %d, want 5", n)
	}
	assertText(t, e, "hello there")
}

func TestTypingUndoSteps(t *testing.T) {
	e := newTestEngine(t, "")
	for _, ch := range "hello" {
		if err := e.EnterCharacter(ch, false); err != nil {
			t.Fatalf("EnterCharacter(%q): %v", ch, err)
		}
	}
	assertText(t, e, "hello")
	if e.UndoIndex() != 5 {
		t.Errorf("UndoIndex() = %d, want 5", e.UndoIndex())
	}

	n, err := e.Undo(5)
	if err != nil || n != 5 {
		t.Fatalf("Undo(5) = %d, %v", n, err)
	}
	assertText(t, e, "")
	assertCursors(t, e, cursor.At(co(0, 0)))
	if e.CanUndo() {
		t.Error("nothing should be left to undo")
	}

	n, _ = e.Redo(2)
	if n != 2 {
		t.Errorf("Redo(2) = %d, want 2", n)
	}
	assertText(t, e, "he")
	assertCursors(t, e, cursor.At(co(0, 2)))
}

func TestUndoStepsAreClamped(t *testing.T) {
	e := newTestEngine(t, "")
	if err := e.InsertText("x"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	n, _ := e.Undo(0)
	if n != 1 {
		t.Errorf("Undo(0) = %d, want 1", n)
	}
	n, _ = e.Undo(3)
	if n != 0 {
		t.Errorf("Undo past the start = %d, want 0", n)
	}
	n, _ = e.Redo(10)
	if n != 1 {
		t.Errorf("Redo(10) = %d, want 1", n)
	}
	assertText(t, e, "x")
}

func TestNewEditDropsRedo(t *testing.T) {
	e := newTestEngine(t, "")
	_ = e.InsertText("a")
	_ = e.InsertText("b")
	_, _ = e.Undo(1)
	if !e.CanRedo() {
		t.Fatal("expected a redo step")
	}
	_ = e.InsertText("c")
	if e.CanRedo() {
		t.Error("a new edit should drop the redo steps")
	}
	assertText(t, e, "ac")
}

func TestMultiCursorTypingUndo(t *testing.T) {
	e := newTestEngine(t, "abc\nabc")
	e.SetCursorPosition(co(0, 1), -1, true)
	if n := e.AddCursorAt(co(1, 1)); n != 2 {
		t.Fatalf("AddCursorAt = %d cursors, want 2", n)
	}

	if err := e.EnterCharacter('X', false); err != nil {
		t.Fatalf("EnterCharacter: %v", err)
	}
	assertText(t, e, "aXbc\naXbc")
	assertCursors(t, e, cursor.At(co(0, 2)), cursor.At(co(1, 2)))

	if _, err := e.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertText(t, e, "abc\nabc")
	assertCursors(t, e, cursor.At(co(0, 1)), cursor.At(co(1, 1)))
}

func TestSameLineCursorsTyping(t *testing.T) {
	e := newTestEngine(t, "abcd")
	e.SetCursorPosition(co(0, 1), -1, true)
	e.AddCursorAt(co(0, 3))

	if err := e.EnterCharacter('X', false); err != nil {
		t.Fatalf("EnterCharacter: %v", err)
	}
	assertText(t, e, "aXbcXd")
	assertCursors(t, e, cursor.At(co(0, 2)), cursor.At(co(0, 5)))

	if _, err := e.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertText(t, e, "abcd")
}

// Read-Only Tests

func TestReadOnly(t *testing.T) {
	mem := clipboard.NewMemory()
	e := newTestEngine(t, "abc\ndef", WithReadOnly(), WithClipboard(mem))
	e.SelectAll()

	commands := map[string]func() error{
		"EnterCharacter": func() error { return e.EnterCharacter('x', false) },
		"InsertText":     func() error { return e.InsertText("x") },
		"Backspace":      func() error { return e.Backspace(false) },
		"Delete":         func() error { return e.Delete(false) },
		"Paste":          func() error { return e.Paste() },
		"Cut":            func() error { return e.Cut() },
		"Indent":         func() error { return e.ChangeCurrentLinesIndentation(true) },
		"MoveLinesUp":    func() error { return e.MoveUpCurrentLines() },
		"ToggleComment":  func() error { return e.ToggleLineComment() },
		"RemoveLines":    func() error { return e.RemoveCurrentLines() },
		"Complete":       func() error { return e.AcceptCompletion("word") },
		"Undo":           func() error { _, err := e.Undo(1); return err },
		"Redo":           func() error { _, err := e.Redo(1); return err },
	}
	for name, cmd := range commands {
		t.Run(name, func(t *testing.T) {
			if err := cmd(); !errors.Is(err, ErrReadOnly) {
				t.Errorf("%s error = %v, want ErrReadOnly", name, err)
			}
			assertText(t, e, "abc\ndef")
		})
	}

	// Cut still copies.
	if got, _ := mem.Text(); got != "abc\ndef" {
		t.Errorf("clipboard = %q, want %q", got, "abc\ndef")
	}
	if e.CanUndo() {
		t.Error("read-only engine should report no undo")
	}

	e.SetReadOnly(false)
	if err := e.InsertText("x"); err != nil {
		t.Errorf("InsertText after SetReadOnly(false): %v", err)
	}
	assertText(t, e, "x")
}

// Configuration Tests

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.TabSize = 2
	cfg.Editor.ReadOnly = true
	cfg.Editor.AutoIndent = false
	cfg.Editor.Language = "c"

	registry, err := lang.NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("NewBuiltinRegistry: %v", err)
	}
	opts, err := FromConfig(cfg, registry)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	e := New(append(opts, WithLogger(logging.NullLogger))...)
	if e.TabSize() != 2 {
		t.Errorf("TabSize() = %d, want 2", e.TabSize())
	}
	if !e.ReadOnly() {
		t.Error("expected read-only")
	}
	if e.AutoIndent() {
		t.Error("expected auto-indent off")
	}
	if e.Language() == nil || e.Language().Name != "C" {
		t.Errorf("Language() = %v, want C", e.Language())
	}
}

func TestFromConfigUnknownLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Language = "klingon"

	if _, err := FromConfig(cfg, lang.NewRegistry()); !errors.Is(err, lang.ErrUnknownLanguage) {
		t.Errorf("error = %v, want ErrUnknownLanguage", err)
	}
	if _, err := FromConfig(cfg, nil); !errors.Is(err, lang.ErrUnknownLanguage) {
		t.Errorf("nil registry error = %v, want ErrUnknownLanguage", err)
	}
}

// Coloring Tests

func TestTickColorsInChunks(t *testing.T) {
	def := &lang.Definition{Name: "plain", CaseSensitive: true}
	e := newTestEngine(t, "a\nb\nc", WithLanguage(def), WithColorizeStep(1))
	if !e.Colorizing() {
		t.Fatal("expected pending coloring work")
	}
	e.Tick(time.Millisecond)
	e.Tick(time.Millisecond)
	if !e.Colorizing() {
		t.Error("two ticks should leave one line pending")
	}
	e.Tick(time.Millisecond)
	if e.Colorizing() {
		t.Error("three ticks should finish coloring")
	}
}

func TestGlyphColor(t *testing.T) {
	def, err := lang.Builtin("c")
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	e := newTestEngine(t, "a /* b\nc */ d", WithLanguage(def))
	e.FlushColors()

	if !e.Line(0)[5].MultiLineComment || !e.Line(1)[0].MultiLineComment {
		t.Error("expected glyphs inside the block comment to be flagged")
	}
	if e.Line(1)[5].MultiLineComment {
		t.Error("glyph after the block comment should not be flagged")
	}
	p := e.Palette()
	if got, want := e.GlyphColor(e.Line(0)[5]), p.Get(palette.MultiLineComment); got != want {
		t.Errorf("GlyphColor = %v, want %v", got.Hex(), want.Hex())
	}

	if err := e.SetLanguage(nil); err != nil {
		t.Fatalf("SetLanguage(nil): %v", err)
	}
	if got, want := e.GlyphColor(e.Line(0)[5]), p.Get(palette.Default); got != want {
		t.Errorf("GlyphColor without language = %v, want %v", got.Hex(), want.Hex())
	}
}

// Search Tests

func TestFindReplaceAll(t *testing.T) {
	e := newTestEngine(t, "foo bar foo")
	f := e.Find()
	f.SetPattern("foo")
	f.SetReplacement("x")

	n, err := f.ReplaceAll()
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if n != 2 {
		t.Errorf("ReplaceAll = %d, want 2", n)
	}
	assertText(t, e, "x bar x")
	if msg, _ := f.StatusMessage(); msg != "Replaced 2 matches" {
		t.Errorf("StatusMessage = %q", msg)
	}

	if _, err := e.Undo(2); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	assertText(t, e, "foo bar foo")
}

func TestFindFocusSelects(t *testing.T) {
	e := newTestEngine(t, "foo bar foo")
	f := e.Find()
	f.SetPattern("foo")
	if !f.FocusResult(1) {
		t.Fatal("FocusResult(1) found nothing")
	}
	assertCursors(t, e, cursor.Span(co(0, 8), co(0, 11)))
	if got := e.FindHighlights(0); len(got) != 2 {
		t.Errorf("FindHighlights(0) = %d segments, want 2", len(got))
	}
}

func TestFindRefreshIsDeferredAfterEdit(t *testing.T) {
	e := newTestEngine(t, "foo bar foo")
	f := e.Find()
	f.SetPattern("foo")
	f.EnsureUpToDate()
	if f.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", f.Count())
	}

	if err := e.InsertText("foo "); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	e.Tick(50 * time.Millisecond)
	if f.Count() != 2 {
		t.Errorf("Count() before the delay = %d, want stale 2", f.Count())
	}
	e.Tick(100 * time.Millisecond)
	if f.Count() != 3 {
		t.Errorf("Count() after the delay = %d, want 3", f.Count())
	}
}
