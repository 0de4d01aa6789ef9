package buffer

// TabSizeAtColumn returns the number of columns a tab starting at column
// spans.
func (d *Document) TabSizeAtColumn(column int) int {
	return d.tabSize - (column % d.tabSize)
}

// Advance moves the byte index i and the display column col past the glyph
// at i on line. The caller guarantees i is a valid index.
func (d *Document) Advance(line int, i, col *int) {
	c := d.lines[line][*i].Char
	*i += SequenceLength(c)
	if c == '\t' {
		*col = (*col/d.tabSize)*d.tabSize + d.tabSize
	} else {
		*col++
	}
}

// ByteIndexL returns the byte index of the glyph whose visual span contains
// c.Column, rounding a position inside a tab to the tab itself. It returns
// -1 if the line does not exist.
func (d *Document) ByteIndexL(c Coordinates) int {
	if c.Line < 0 || c.Line >= len(d.lines) {
		return -1
	}
	line := d.lines[c.Line]
	col, i := 0, 0
	tabColsLeft := 0
	for i < len(line) && col < c.Column {
		if line[i].Char == '\t' {
			if tabColsLeft == 0 {
				tabColsLeft = d.TabSizeAtColumn(col)
			}
			if tabColsLeft > 0 {
				tabColsLeft--
			}
		}
		col++
		if tabColsLeft == 0 {
			i += SequenceLength(line[i].Char)
		}
	}
	return i
}

// ByteIndexR returns the byte index of the first glyph starting at or after
// c.Column, rounding a position inside a tab past the tab. It returns -1 if
// the line does not exist.
func (d *Document) ByteIndexR(c Coordinates) int {
	if c.Line < 0 || c.Line >= len(d.lines) {
		return -1
	}
	col, i := 0, 0
	for i < len(d.lines[c.Line]) && col < c.Column {
		d.Advance(c.Line, &i, &col)
	}
	return i
}

// Column returns the display column at which the glyph at byte index lies.
func (d *Document) Column(line, index int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	col, i := 0, 0
	for i < index && i < len(d.lines[line]) {
		d.Advance(line, &i, &col)
	}
	return col
}

// LineMaxColumn returns the display width of line.
func (d *Document) LineMaxColumn(line int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	col := 0
	for i := 0; i < len(d.lines[line]); {
		d.Advance(line, &i, &col)
	}
	return col
}

// LineMaxColumnLimit returns the display width of line, or limit if the line
// is wider than limit.
func (d *Document) LineMaxColumnLimit(line, limit int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	col := 0
	for i := 0; i < len(d.lines[line]); {
		d.Advance(line, &i, &col)
		if col > limit {
			return limit
		}
	}
	return col
}

// End returns the coordinates just past the last glyph of the document.
func (d *Document) End() Coordinates {
	last := len(d.lines) - 1
	return Coordinates{Line: last, Column: d.LineMaxColumn(last)}
}

// Sanitize clamps c into the document and snaps a column that lands inside a
// tab to whichever edge of the tab is visually closer. It never fails.
func (d *Document) Sanitize(c Coordinates) Coordinates {
	var out Coordinates
	switch {
	case c.Line >= len(d.lines):
		out = d.End()
	case c.Line < 0:
		out = Coordinates{}
	default:
		out = Coordinates{Line: c.Line, Column: d.LineMaxColumnLimit(c.Line, max(c.Column, 0))}
	}

	index := d.ByteIndexL(out)
	line := d.lines[out.Line]
	if index > -1 && index < len(line) && line[index].Char == '\t' {
		left := d.Column(out.Line, index)
		right := d.Column(out.Line, d.ByteIndexR(out))
		if out.Column-left <= right-out.Column {
			out.Column = left
		} else {
			out.Column = right
		}
	}
	return out
}

// Move steps the byte index one code point left or right, crossing line
// boundaries unless lockLine is set. It reports whether a move happened.
func (d *Document) Move(line, index *int, left, lockLine bool) bool {
	if *line < 0 || *line >= len(d.lines) {
		return false
	}

	if left {
		if *index == 0 {
			if lockLine || *line == 0 {
				return false
			}
			*line--
			*index = len(d.lines[*line])
			return true
		}
		*index--
		for *index > 0 && IsContinuation(d.lines[*line][*index].Char) {
			*index--
		}
		return true
	}

	if *index >= len(d.lines[*line]) {
		if lockLine || *line == len(d.lines)-1 {
			return false
		}
		*line++
		*index = 0
		return true
	}
	n := SequenceLength(d.lines[*line][*index].Char)
	*index = min(*index+n, len(d.lines[*line]))
	return true
}
