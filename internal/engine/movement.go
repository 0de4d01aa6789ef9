package engine

// direction is a cursor movement direction.
type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
)

// moveCoords returns where a head at c lands after one step in dir. Left
// and right steps cross line ends; word mode jumps over runs.
func (e *Engine) moveCoords(c Coordinates, dir direction, wordMode bool, lines int) Coordinates {
	line, index := c.Line, e.doc.ByteIndexR(c)
	if index < 0 {
		return c
	}

	switch dir {
	case dirRight:
		if index >= e.doc.LineLen(line) {
			if line < e.doc.LineCount()-1 {
				return Coordinates{Line: line + 1}
			}
			return c
		}
		e.doc.Move(&line, &index, false, false)
		right := e.doc.Column(line, index)
		if wordMode {
			end := e.findWordEnd(c)
			end.Column = max(end.Column, right)
			return end
		}
		return Coordinates{Line: line, Column: right}

	case dirLeft:
		if index == 0 {
			if line > 0 {
				return Coordinates{Line: line - 1, Column: e.doc.LineMaxColumn(line - 1)}
			}
			return c
		}
		e.doc.Move(&line, &index, true, false)
		left := Coordinates{Line: line, Column: e.doc.Column(line, index)}
		if wordMode {
			return e.findWordStart(left)
		}
		return left

	case dirUp:
		return Coordinates{Line: max(0, line-lines), Column: c.Column}

	default:
		return Coordinates{Line: max(0, min(e.doc.LineCount()-1, line+lines)), Column: c.Column}
	}
}

// MoveUp moves every head up by amount lines, keeping its column. With
// selectText the anchors stay put.
func (e *Engine) MoveUp(amount int, selectText bool) {
	for i, c := range e.cursors.All() {
		e.cursors.SetPosition(i, e.moveCoords(c.End, dirUp, false, max(amount, 0)), !selectText)
	}
	e.cursorsChanged()
}

// MoveDown moves every head down by amount lines, keeping its column.
func (e *Engine) MoveDown(amount int, selectText bool) {
	for i, c := range e.cursors.All() {
		e.cursors.SetPosition(i, e.moveCoords(c.End, dirDown, false, max(amount, 0)), !selectText)
	}
	e.cursorsChanged()
}

// MoveLeft moves every head one glyph, or one run in word mode, to the
// left. Without selectText or wordMode an existing selection collapses to
// its start instead.
func (e *Engine) MoveLeft(selectText, wordMode bool) {
	if e.cursors.AnyHasSelection() && !selectText && !wordMode {
		for i, c := range e.cursors.All() {
			e.cursors.SetPosition(i, c.SelectionStart(), true)
		}
	} else {
		for i, c := range e.cursors.All() {
			pos := e.moveCoords(e.doc.Sanitize(c.End), dirLeft, wordMode, 1)
			e.cursors.SetPosition(i, pos, !selectText)
		}
	}
	e.cursorsChanged()
}

// MoveRight moves every head one glyph, or one run in word mode, to the
// right. Without selectText or wordMode an existing selection collapses to
// its end instead.
func (e *Engine) MoveRight(selectText, wordMode bool) {
	if e.cursors.AnyHasSelection() && !selectText && !wordMode {
		for i, c := range e.cursors.All() {
			e.cursors.SetPosition(i, c.SelectionEnd(), true)
		}
	} else {
		for i, c := range e.cursors.All() {
			pos := e.moveCoords(e.doc.Sanitize(c.End), dirRight, wordMode, 1)
			e.cursors.SetPosition(i, pos, !selectText)
		}
	}
	e.cursorsChanged()
}

// MoveTop moves every head to the start of the text.
func (e *Engine) MoveTop(selectText bool) {
	for i, n := 0, e.cursors.Count(); i < n; i++ {
		e.cursors.SetPosition(i, Coordinates{}, !selectText)
	}
	e.cursorsChanged()
}

// MoveBottom moves every head to the end of the text.
func (e *Engine) MoveBottom(selectText bool) {
	end := e.doc.End()
	for i, n := 0, e.cursors.Count(); i < n; i++ {
		e.cursors.SetPosition(i, end, !selectText)
	}
	e.cursorsChanged()
}

// MoveHome moves every head to the start of its line.
func (e *Engine) MoveHome(selectText bool) {
	for i, c := range e.cursors.All() {
		e.cursors.SetPosition(i, Coordinates{Line: c.End.Line}, !selectText)
	}
	e.cursorsChanged()
}

// MoveEnd moves every head to the end of its line.
func (e *Engine) MoveEnd(selectText bool) {
	for i, c := range e.cursors.All() {
		line := c.End.Line
		e.cursors.SetPosition(i, Coordinates{Line: line, Column: e.doc.LineMaxColumn(line)}, !selectText)
	}
	e.cursorsChanged()
}
