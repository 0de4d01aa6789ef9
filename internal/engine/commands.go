package engine

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
)

// EnterCharacter types ch at every cursor, replacing any selections. A line
// feed splits the line, copying its leading blanks when auto-indent is on.
// A tab while a selection spans several lines indents the selected lines
// instead, or unindents them when shift is held.
func (e *Engine) EnterCharacter(ch rune, shift bool) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if ch == '\t' && e.cursors.AnyMultiLine() {
		return e.ChangeCurrentLinesIndentation(!shift)
	}
	if ch == 0 || !utf8.ValidRune(ch) {
		return nil
	}

	tx, err := e.begin("Type")
	if err != nil {
		return err
	}
	if e.cursors.AnyHasSelection() {
		e.deleteSelections(tx)
	}

	for i := e.cursors.Count() - 1; i >= 0; i-- {
		pos := e.doc.Sanitize(e.cursors.Get(i).End)
		var text string
		if ch == '\n' {
			text = "\n" + e.indentAt(pos)
		} else {
			text = string(ch)
		}
		end, _ := e.InsertTextAt(pos, text)
		tx.Add(text, pos, end)
		e.cursors.SetPosition(i, end, true)
		e.Colorize(pos.Line-1, 3)
	}
	e.commit(tx)
	return nil
}

// indentAt returns the leading blanks of pos's line that lie left of pos,
// or nothing when auto-indent is off.
func (e *Engine) indentAt(pos Coordinates) string {
	if !e.autoIndent {
		return ""
	}
	glyphs := e.doc.Line(pos.Line)
	limit := e.doc.ByteIndexR(pos)
	var sb strings.Builder
	for i := 0; i < limit && i < len(glyphs) && buffer.IsBlank(glyphs[i].Char); i++ {
		sb.WriteByte(glyphs[i].Char)
	}
	return sb.String()
}

// InsertText inserts text at every cursor, replacing any selections, as one
// undoable edit.
func (e *Engine) InsertText(text string) error {
	return e.insertAtCursors("Insert", text, nil)
}

// ReplaceSelection replaces every selection with text as one undoable
// edit. Cursors without a selection insert text at their head.
func (e *Engine) ReplaceSelection(text string) error {
	return e.insertAtCursors("Replace", text, nil)
}

// insertAtCursors deletes the selections and inserts text at every cursor.
// When parts is set, cursor i receives parts[i] instead.
func (e *Engine) insertAtCursors(description, text string, parts []string) error {
	tx, err := e.begin(description)
	if err != nil {
		return err
	}
	if e.cursors.AnyHasSelection() {
		e.deleteSelections(tx)
	}
	for i := e.cursors.Count() - 1; i >= 0; i-- {
		s := text
		if parts != nil {
			s = parts[i]
		}
		pos := e.doc.Sanitize(e.cursors.Get(i).End)
		end, lines := e.InsertTextAt(pos, s)
		tx.Add(s, pos, end)
		e.cursors.SetPosition(i, end, true)
		e.Colorize(pos.Line-1, lines+2)
	}
	e.commit(tx)
	return nil
}

// Backspace deletes the selections, or the glyph (or run, in word mode)
// left of every cursor. Nothing happens unless every cursor can move left.
func (e *Engine) Backspace(wordMode bool) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if e.cursors.AnyHasSelection() {
		return e.deleteSelected("Delete", nil)
	}

	before := e.cursors.Clone()
	e.MoveLeft(true, wordMode)
	if !e.cursors.AllHaveSelection() {
		if e.cursors.AnyHasSelection() {
			e.MoveRight(false, false)
		}
		return nil
	}
	return e.deleteSelected("Backspace", before)
}

// Delete deletes the selections, or the glyph (or run, in word mode) right
// of every cursor. Nothing happens unless every cursor can move right.
func (e *Engine) Delete(wordMode bool) error {
	if e.readOnly {
		return ErrReadOnly
	}
	if e.cursors.AnyHasSelection() {
		return e.deleteSelected("Delete", nil)
	}

	before := e.cursors.Clone()
	e.MoveRight(true, wordMode)
	if !e.cursors.AllHaveSelection() {
		if e.cursors.AnyHasSelection() {
			e.MoveLeft(false, false)
		}
		return nil
	}
	return e.deleteSelected("Delete", before)
}

// deleteSelected removes every selection as one undoable edit. A non-nil
// before replaces the recorded starting cursor state.
func (e *Engine) deleteSelected(description string, before *cursor.Set) error {
	tx, err := e.begin(description)
	if err != nil {
		return err
	}
	if before != nil {
		tx.SetBefore(before)
	}
	e.deleteSelections(tx)
	e.commit(tx)
	return nil
}

// ChangeCurrentLinesIndentation indents or unindents every line touched by
// a cursor. Indenting inserts a tab at the start of each non-empty line;
// unindenting removes leading blanks up to the first tab stop.
func (e *Engine) ChangeCurrentLinesIndentation(increase bool) error {
	description := "Unindent"
	if increase {
		description = "Indent"
	}
	tx, err := e.begin(description)
	if err != nil {
		return err
	}

	done := make(map[int]bool)
	for i := e.cursors.Count() - 1; i >= 0; i-- {
		for _, line := range e.cursors.Get(i).LineSpan() {
			if done[line] || line >= e.doc.LineCount() {
				continue
			}
			done[line] = true

			start := Coordinates{Line: line}
			if increase {
				if e.doc.LineLen(line) == 0 {
					continue
				}
				end, _ := e.InsertTextAt(start, "\t")
				tx.Add("\t", start, end)
				e.Colorize(line, 1)
				continue
			}

			glyphs := e.doc.Line(line)
			index, col := 0, 0
			for index < len(glyphs) && col < e.doc.TabSize() && buffer.IsBlank(glyphs[index].Char) {
				e.doc.Advance(line, &index, &col)
			}
			if index == 0 {
				continue
			}
			end := Coordinates{Line: line, Column: col}
			tx.Delete(e.doc.Text(start, end), start, end)
			_ = e.DeleteRange(start, end)
			e.Colorize(line, 1)
		}
	}
	e.commit(tx)
	return nil
}

// MoveUpCurrentLines moves every line touched by a cursor up by one, along
// with the cursors. Nothing happens if the first line is touched.
func (e *Engine) MoveUpCurrentLines() error {
	return e.moveCurrentLines(-1)
}

// MoveDownCurrentLines moves every line touched by a cursor down by one.
// Nothing happens if the last line is touched.
func (e *Engine) MoveDownCurrentLines() error {
	return e.moveCurrentLines(1)
}

func (e *Engine) moveCurrentLines(delta int) error {
	if e.readOnly {
		return ErrReadOnly
	}
	affected := e.touchedLines()
	if len(affected) == 0 {
		return nil
	}
	minLine, maxLine := affected[0], affected[len(affected)-1]
	if delta < 0 && minLine == 0 || delta > 0 && maxLine == e.doc.LineCount()-1 {
		return nil
	}

	tx, err := e.begin("Move lines")
	if err != nil {
		return err
	}
	first, last := min(minLine, minLine+delta), max(maxLine, maxLine+delta)
	start := Coordinates{Line: first}
	end := Coordinates{Line: last, Column: e.doc.LineMaxColumn(last)}
	tx.Delete(e.doc.Text(start, end), start, end)

	e.markEdited()
	if delta < 0 {
		for _, line := range affected {
			e.doc.SwapLines(line-1, line)
		}
	} else {
		for i := len(affected) - 1; i >= 0; i-- {
			e.doc.SwapLines(affected[i], affected[i]+1)
		}
	}
	e.cursors.ShiftLines(0, delta, nil)

	end = Coordinates{Line: last, Column: e.doc.LineMaxColumn(last)}
	tx.Add(e.doc.Text(start, end), start, end)
	e.Colorize(first, last-first+1)
	e.commit(tx)
	return nil
}

// touchedLines returns the sorted distinct lines touched by any cursor.
func (e *Engine) touchedLines() []int {
	seen := make(map[int]bool)
	var lines []int
	for _, c := range e.cursors.All() {
		for _, line := range c.LineSpan() {
			if !seen[line] && line < e.doc.LineCount() {
				seen[line] = true
				lines = append(lines, line)
			}
		}
	}
	slices.Sort(lines)
	return lines
}

// ToggleLineComment comments out every line touched by a cursor with the
// language's single-line comment, or removes the comment when every
// non-blank touched line already has one.
func (e *Engine) ToggleLineComment() error {
	if e.readOnly {
		return ErrReadOnly
	}
	def := e.colorizer.Language()
	if def == nil || def.SingleLineComment == "" {
		return nil
	}
	marker := def.SingleLineComment

	lines := e.touchedLines()
	add := false
	for _, line := range lines {
		index, ok := e.commentIndex(line, marker)
		if index >= 0 && !ok {
			add = true
			break
		}
	}

	tx, err := e.begin("Toggle comment")
	if err != nil {
		return err
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if add {
			start := Coordinates{Line: line}
			end, _ := e.InsertTextAt(start, marker+" ")
			tx.Add(marker+" ", start, end)
			e.Colorize(line, 1)
			continue
		}
		index, ok := e.commentIndex(line, marker)
		if !ok {
			continue
		}
		n := len(marker)
		if glyphs := e.doc.Line(line); index+n < len(glyphs) && glyphs[index+n].Char == ' ' {
			n++
		}
		start := Coordinates{Line: line, Column: e.doc.Column(line, index)}
		end := Coordinates{Line: line, Column: e.doc.Column(line, index+n)}
		tx.Delete(e.doc.Text(start, end), start, end)
		_ = e.DeleteRange(start, end)
		e.Colorize(line, 1)
	}
	e.commit(tx)
	return nil
}

// commentIndex returns the byte index of the first non-blank glyph of line
// and whether the comment marker starts there. The index is -1 for a blank
// line.
func (e *Engine) commentIndex(line int, marker string) (int, bool) {
	glyphs := e.doc.Line(line)
	index := 0
	for index < len(glyphs) && buffer.IsBlank(glyphs[index].Char) {
		index++
	}
	if index == len(glyphs) {
		return -1, false
	}
	for i := 0; i < len(marker); i++ {
		if index+i >= len(glyphs) || glyphs[index+i].Char != marker[i] {
			return index, false
		}
	}
	return index, true
}

// RemoveCurrentLines deletes every line holding a cursor, after deleting
// any selections.
func (e *Engine) RemoveCurrentLines() error {
	tx, err := e.begin("Remove lines")
	if err != nil {
		return err
	}
	if e.cursors.AnyHasSelection() {
		e.deleteSelections(tx)
	}
	for i, c := range e.cursors.All() {
		e.cursors.Put(i, cursor.At(Coordinates{Line: c.End.Line}))
	}
	e.cursorsChanged()

	for i := e.cursors.Count() - 1; i >= 0; i-- {
		line := e.cursors.Get(i).End.Line
		var start, end, after Coordinates
		switch {
		case line+1 < e.doc.LineCount():
			start, end = Coordinates{Line: line}, Coordinates{Line: line + 1}
			after = start
		case line > 0:
			start = Coordinates{Line: line - 1, Column: e.doc.LineMaxColumn(line - 1)}
			end = Coordinates{Line: line, Column: e.doc.LineMaxColumn(line)}
			after = Coordinates{Line: line - 1}
		default:
			start, end = Coordinates{Line: line}, Coordinates{Line: line, Column: e.doc.LineMaxColumn(line)}
			after = start
		}
		tx.Delete(e.doc.Text(start, end), start, end)
		_ = e.DeleteRange(start, end)
		e.cursors.Put(i, cursor.At(after))
		e.Colorize(start.Line, 1)
	}
	e.commit(tx)
	return nil
}
