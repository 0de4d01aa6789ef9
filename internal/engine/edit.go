package engine

import (
	"fmt"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
	"github.com/dshills/codepad/internal/engine/history"
)

// markEdited invalidates the search results ahead of a text change. The
// refresh is deferred so a burst of edits searches once.
func (e *Engine) markEdited() {
	e.generation++
	e.finder.MarkDirty(true)
}

// Generation changes whenever the text changes.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// InsertTextAt inserts text at the given position and returns the position
// after the inserted text together with the number of lines it added.
// Carriage returns are dropped. Other cursors on the edited line that sit
// right of the insertion keep their place relative to the text around them.
// It does not record undo history.
func (e *Engine) InsertTextAt(at Coordinates, text string) (Coordinates, int) {
	e.markEdited()

	pos := e.doc.Sanitize(at)
	index := e.doc.ByteIndexR(pos)
	lines := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '\r':
			i++
		case '\n':
			e.splitLine(pos.Line, index)
			pos.Line++
			index = 0
			lines++
			i++
		default:
			// Batch the run up to the next line break so a long line is
			// spliced once. Glyphs are bytes, so a broken sequence never
			// swallows the break.
			j := i
			for j < len(text) && text[j] != '\n' && text[j] != '\r' {
				j++
			}
			glyphs := make([]buffer.Glyph, j-i)
			for k := range glyphs {
				glyphs[k] = buffer.NewGlyph(text[i+k])
			}
			e.doc.SpliceGlyphs(pos.Line, index, glyphs)
			index += len(glyphs)
			i = j
		}
	}
	pos.Column = e.doc.Column(pos.Line, index)
	return pos, lines
}

// splitLine moves the glyphs of line from index onward to a new line below
// it. Carets right of the split move with the text.
func (e *Engine) splitLine(line, index int) {
	column := e.doc.Column(line, index)
	type carried struct{ cursor, index int }
	var carry []carried
	for i, c := range e.cursors.All() {
		if c.End.Line == line && c.End.Column > column && !c.HasSelection() {
			carry = append(carry, carried{i, e.doc.ByteIndexR(c.End) - index})
		}
	}

	tail := e.doc.CloneGlyphs(line, index, -1)
	e.doc.InsertLine(line + 1)
	e.doc.SpliceGlyphs(line+1, 0, tail)
	for _, c := range carry {
		pos := Coordinates{Line: line + 1, Column: e.doc.Column(line+1, c.index)}
		e.cursors.SetPosition(c.cursor, pos, true)
	}
	e.doc.EraseGlyphs(line, index, -1)
}

// DeleteRange removes the text between start and end. It fails with
// buffer.ErrRangeInverted, before changing anything, if end precedes start.
// Cursors on the last line of a multi-line range are moved onto the first
// line; cursors below it move up. It does not record undo history.
func (e *Engine) DeleteRange(start, end Coordinates) error {
	if end.Before(start) {
		return fmt.Errorf("delete %s-%s: %w", start, end, buffer.ErrRangeInverted)
	}
	e.markEdited()
	if start == end {
		return nil
	}

	startIndex := e.doc.ByteIndexL(start)
	endIndex := e.doc.ByteIndexR(end)
	if startIndex < 0 || endIndex < 0 {
		return nil
	}

	if start.Line == end.Line {
		if end.Column >= e.doc.LineMaxColumn(start.Line) {
			e.doc.EraseGlyphs(start.Line, startIndex, -1)
		} else {
			e.doc.EraseGlyphs(start.Line, startIndex, endIndex)
		}
		return nil
	}

	// Positions on the end line are re-based onto the start line once the
	// two are joined. Offsets are taken before the splice moves anything.
	type rebased struct{ cursor, start, end int }
	offset := func(c Coordinates) int {
		if c.Line != end.Line {
			return -1
		}
		return startIndex + max(e.doc.ByteIndexR(c)-endIndex, 0)
	}
	deleted := Range{Start: start, End: end}
	var moves []rebased
	for i, c := range e.cursors.All() {
		if c.Selection() == deleted {
			continue
		}
		if s, en := offset(c.Start), offset(c.End); s >= 0 || en >= 0 {
			moves = append(moves, rebased{i, s, en})
		}
	}

	tail := e.doc.CloneGlyphs(end.Line, endIndex, -1)
	e.doc.EraseGlyphs(start.Line, startIndex, -1)
	e.doc.EraseGlyphs(end.Line, 0, endIndex)
	e.doc.SpliceGlyphs(start.Line, startIndex, tail)

	for _, m := range moves {
		c := e.cursors.Get(m.cursor)
		if m.start >= 0 {
			c.Start = Coordinates{Line: start.Line, Column: e.doc.Column(start.Line, m.start)}
		}
		if m.end >= 0 {
			c.End = Coordinates{Line: start.Line, Column: e.doc.Column(start.Line, m.end)}
		}
		e.cursors.Put(m.cursor, c)
	}

	e.doc.RemoveLines(start.Line+1, end.Line+1)
	return nil
}

// deleteSelection removes the text selected by cursor i and collapses the
// cursor onto the start of the selection.
func (e *Engine) deleteSelection(i int) {
	c := e.cursors.Get(i)
	if !c.HasSelection() {
		return
	}
	start, end := c.SelectionStart(), c.SelectionEnd()
	if err := e.DeleteRange(start, end); err != nil {
		e.logger.Error("delete selection: %v", err)
		return
	}
	e.cursors.Put(i, cursor.At(start))
	e.Colorize(start.Line, 1)
}

// deleteSelections removes every selection, bottom to top, recording each
// removal in tx.
func (e *Engine) deleteSelections(tx *history.Transaction) {
	for i := e.cursors.Count() - 1; i >= 0; i-- {
		c := e.cursors.Get(i)
		if !c.HasSelection() {
			continue
		}
		start, end := c.SelectionStart(), c.SelectionEnd()
		tx.Delete(e.doc.Text(start, end), start, end)
		e.deleteSelection(i)
	}
}

// Colorize schedules count lines starting at fromLine for recoloring.
func (e *Engine) Colorize(fromLine, count int) {
	e.colorizer.Invalidate(fromLine, count)
}

// RestoreCursors replaces the cursors with a saved state.
func (e *Engine) RestoreCursors(state *cursor.Set) {
	e.cursors.Restore(state)
	e.cursorsDirty = true
}

// begin starts an undoable command, or fails on a read-only engine.
func (e *Engine) begin(description string) (*history.Transaction, error) {
	if e.readOnly {
		return nil, ErrReadOnly
	}
	return e.history.Begin(description, e.cursors), nil
}

// commit normalizes the cursors and records tx.
func (e *Engine) commit(tx *history.Transaction) {
	e.cursorsChanged()
	if _, err := tx.Commit(e.cursors); err != nil {
		e.logger.Error("record undo: %v", err)
	}
}

// cursorsChanged sorts and merges the cursors and refreshes the bracket
// match.
func (e *Engine) cursorsChanged() {
	e.cursorsDirty = false
	e.cursors.Sort()
	e.cursors.Merge()

	e.bracketValid = false
	if e.cursors.Count() == 1 && !e.cursors.Get(0).HasSelection() {
		head := e.doc.Sanitize(e.cursors.Get(0).End)
		e.bracket, e.bracketValid = e.findMatchingBracket(head.Line, e.doc.ByteIndexR(head))
	}
}

// ============================================================================
// Undo / Redo
// ============================================================================

// Undo reverts up to steps edits and returns how many were reverted.
func (e *Engine) Undo(steps int) (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	n, err := e.history.Undo(e, max(steps, 1))
	e.cursorsChanged()
	e.logger.Debug("undo %d of %d steps", n, max(steps, 1))
	return n, err
}

// Redo reapplies up to steps undone edits and returns how many were
// reapplied.
func (e *Engine) Redo(steps int) (int, error) {
	if e.readOnly {
		return 0, ErrReadOnly
	}
	n, err := e.history.Redo(e, max(steps, 1))
	e.cursorsChanged()
	e.logger.Debug("redo %d of %d steps", n, max(steps, 1))
	return n, err
}

// CanUndo reports whether an edit can be undone.
func (e *Engine) CanUndo() bool {
	return !e.readOnly && e.history.CanUndo()
}

// CanRedo reports whether an undone edit can be reapplied.
func (e *Engine) CanRedo() bool {
	return !e.readOnly && e.history.CanRedo()
}

// UndoIndex returns the position in the undo history.
func (e *Engine) UndoIndex() int {
	return e.history.Index()
}

// History returns the undo history.
func (e *Engine) History() *history.History {
	return e.history
}
