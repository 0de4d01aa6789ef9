package engine

import (
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
)

// Cursors returns a copy of every cursor, top to bottom.
func (e *Engine) Cursors() []Cursor {
	return e.cursors.All()
}

// CursorCount returns the number of cursors.
func (e *Engine) CursorCount() int {
	return e.cursors.Count()
}

// CursorPosition returns the sanitized head of the current cursor.
func (e *Engine) CursorPosition() Coordinates {
	return e.doc.Sanitize(e.cursors.Get(-1).End)
}

// SetCursorPosition moves the head of cursor i to pos. A negative index
// selects the current cursor. With clearSelection the anchor follows.
func (e *Engine) SetCursorPosition(pos Coordinates, i int, clearSelection bool) {
	e.cursors.SetPosition(i, pos, clearSelection)
	e.cursorsChanged()
}

// SetSelection makes cursor i select [start, end). Both ends are clamped
// into the document. A negative index selects the current cursor.
func (e *Engine) SetSelection(start, end Coordinates, i int) {
	e.setSelection(start, end, i)
	e.cursorsChanged()
}

func (e *Engine) setSelection(start, end Coordinates, i int) {
	clamp := func(c Coordinates) Coordinates {
		if c.Before(Coordinates{}) {
			return Coordinates{}
		}
		if last := e.doc.End(); c.After(last) {
			return last
		}
		return c
	}
	e.cursors.Put(i, cursor.Span(clamp(start), clamp(end)))
}

// SelectAll selects the whole text with a single cursor.
func (e *Engine) SelectAll() {
	e.cursors.ClearSelections()
	e.cursors.ClearExtra()
	e.SetSelection(Coordinates{}, e.doc.End(), -1)
}

// SelectLine selects line with a single cursor.
func (e *Engine) SelectLine(line int) {
	e.cursors.ClearSelections()
	e.cursors.ClearExtra()
	e.SetSelection(Coordinates{Line: line}, Coordinates{Line: line, Column: e.doc.LineMaxColumn(line)}, -1)
}

// SelectRegion selects from a byte index on one line to a byte index on
// another with a single cursor.
func (e *Engine) SelectRegion(startLine, startIndex, endLine, endIndex int) {
	e.cursors.ClearSelections()
	e.cursors.ClearExtra()
	e.SetSelection(
		Coordinates{Line: startLine, Column: e.doc.Column(startLine, startIndex)},
		Coordinates{Line: endLine, Column: e.doc.Column(endLine, endIndex)},
		-1,
	)
}

// SelectWordAt selects the word under pos with the current cursor.
func (e *Engine) SelectWordAt(pos Coordinates) {
	pos = e.doc.Sanitize(pos)
	e.cursors.Put(-1, cursor.Span(e.findWordStart(pos), e.findWordEnd(pos)))
	e.cursorsChanged()
}

// AddCursorAt adds a caret at pos and makes it current. It returns the
// number of cursors after merging.
func (e *Engine) AddCursorAt(pos Coordinates) int {
	e.cursors.Add(cursor.At(e.doc.Sanitize(pos)))
	e.cursorsChanged()
	return e.cursors.Count()
}

// LastAddedCursor returns the index of the cursor added most recently.
func (e *Engine) LastAddedCursor() int {
	return e.cursors.LastAdded()
}

// ClearExtraCursors drops every cursor but the first.
func (e *Engine) ClearExtraCursors() {
	e.cursors.ClearExtra()
	e.cursorsChanged()
}

// ClearSelections collapses every selection onto its end.
func (e *Engine) ClearSelections() {
	e.cursors.ClearSelections()
	e.cursorsChanged()
}

// AnyCursorHasSelection reports whether any cursor selects text.
func (e *Engine) AnyCursorHasSelection() bool {
	return e.cursors.AnyHasSelection()
}

// AllCursorsHaveSelection reports whether every cursor selects text.
func (e *Engine) AllCursorsHaveSelection() bool {
	return e.cursors.AllHaveSelection()
}

// SelectNextOccurrenceOf makes the current cursor select the next
// occurrence of text after its head. It reports whether one was found.
func (e *Engine) SelectNextOccurrenceOf(text string, caseSensitive bool) bool {
	start, end, ok := e.findNextOccurrence(text, e.cursors.Get(-1).End, caseSensitive)
	if !ok {
		return false
	}
	e.SetSelection(start, end, -1)
	return true
}

// AddCursorForNextOccurrence adds a cursor selecting the next occurrence of
// the text selected by the most recently added cursor. It reports whether a
// cursor was added.
func (e *Engine) AddCursorForNextOccurrence(caseSensitive bool) bool {
	c := e.cursors.Get(e.cursors.LastAdded())
	if !c.HasSelection() {
		return false
	}
	text := e.doc.Text(c.SelectionStart(), c.SelectionEnd())
	start, end, ok := e.findNextOccurrence(text, c.SelectionEnd(), caseSensitive)
	if !ok {
		return false
	}
	e.cursors.Add(cursor.Span(start, end))
	e.setSelection(start, end, -1)
	e.cursorsChanged()
	return true
}

// SelectAllOccurrencesOf puts a cursor on every occurrence of text.
func (e *Engine) SelectAllOccurrencesOf(text string, caseSensitive bool) {
	e.cursors.ClearSelections()
	e.cursors.ClearExtra()
	if !e.SelectNextOccurrenceOf(text, caseSensitive) {
		return
	}
	first := e.cursors.Get(e.cursors.LastAdded()).End
	for {
		n := e.cursors.Count()
		if !e.AddCursorForNextOccurrence(caseSensitive) {
			return
		}
		if e.cursors.Get(e.cursors.LastAdded()).End == first || e.cursors.Count() == n {
			return
		}
	}
}

// findNextOccurrence searches for text starting at from, matching across
// line breaks and folding ASCII case unless caseSensitive is set. The search
// wraps to the top of the document and stops when it returns to from.
func (e *Engine) findNextOccurrence(text string, from Coordinates, caseSensitive bool) (Coordinates, Coordinates, bool) {
	if text == "" {
		return Coordinates{}, Coordinates{}, false
	}
	from = e.doc.Sanitize(from)
	fold := func(c byte) byte {
		if !caseSensitive && c >= 'A' && c <= 'Z' {
			return c - 'A' + 'a'
		}
		return c
	}

	lines := e.doc.LineCount()
	line, index := from.Line, e.doc.ByteIndexR(from)
	startLine, startIndex := line, index
	for {
		l, i, offset := line, index, 0
		for ; offset < len(text); offset++ {
			glyphs := e.doc.Line(l)
			if i == len(glyphs) {
				if text[offset] != '\n' || l+1 >= lines {
					break
				}
				l++
				i = 0
				continue
			}
			if fold(glyphs[i].Char) != fold(text[offset]) {
				break
			}
			i++
		}
		if offset == len(text) {
			return Coordinates{Line: line, Column: e.doc.Column(line, index)},
				Coordinates{Line: l, Column: e.doc.Column(l, i)}, true
		}

		if index == e.doc.LineLen(line) {
			if line == lines-1 {
				line = 0
			} else {
				line++
			}
			index = 0
		} else {
			index++
		}
		if line == startLine && index == startIndex {
			return Coordinates{}, Coordinates{}, false
		}
	}
}

// findWordStart returns the start of the run around from: a word, a run of
// white space or a run of one punctuation character.
func (e *Engine) findWordStart(from Coordinates) Coordinates {
	line := from.Line
	glyphs := e.doc.Line(line)
	index := e.doc.ByteIndexL(from)
	if index < 0 || index > len(glyphs) || len(glyphs) == 0 {
		return from
	}
	if index == len(glyphs) {
		index--
	}
	initial := glyphs[index].Char
	for e.doc.Move(&line, &index, true, true) {
		if !sameRun(initial, glyphs[index].Char) {
			e.doc.Move(&line, &index, false, true)
			break
		}
	}
	return Coordinates{Line: from.Line, Column: e.doc.Column(from.Line, index)}
}

// findWordEnd returns the end of the run starting at from.
func (e *Engine) findWordEnd(from Coordinates) Coordinates {
	line := from.Line
	glyphs := e.doc.Line(line)
	index := e.doc.ByteIndexL(from)
	if index < 0 || index >= len(glyphs) {
		return from
	}
	initial := glyphs[index].Char
	for e.doc.Move(&line, &index, false, true) {
		if index == len(glyphs) || !sameRun(initial, glyphs[index].Char) {
			break
		}
	}
	return Coordinates{Line: from.Line, Column: e.doc.Column(from.Line, index)}
}

// sameRun reports whether c continues a run that started with initial.
func sameRun(initial, c byte) bool {
	switch {
	case buffer.IsSpace(initial):
		return buffer.IsSpace(c)
	case buffer.IsWordChar(initial):
		return buffer.IsWordChar(c)
	default:
		return c == initial
	}
}
