package cursor

// Mapper converts between display columns and byte indices on a line.
type Mapper interface {
	ByteIndexR(c Coordinates) int
	Column(line, index int) int
}

// ShiftLines moves every cursor endpoint on or below line from by delta
// lines, clamping at line 0. Cursors for which skip returns true are left
// alone.
func (s *Set) ShiftLines(from, delta int, skip func(i int) bool) {
	for i := range s.cursors {
		if skip != nil && skip(i) {
			continue
		}
		c := &s.cursors[i]
		if c.End.Line >= from {
			c.End.Line = max(c.End.Line+delta, 0)
		}
		if c.Start.Line >= from {
			c.Start.Line = max(c.Start.Line+delta, 0)
		}
	}
}

// LineTracker keeps cursors that sit to the right of an in-line splice
// anchored to the same glyph. Call Before ahead of the splice and After once
// it has been applied. The zero value is ready to use and is reused across
// edits.
type LineTracker struct {
	line    int
	indices map[int]int
}

// Before records the byte index each affected cursor should land on once
// count glyphs have been inserted (or deleted) at column on line. Only
// cursors without a selection whose head is right of column are tracked.
func (t *LineTracker) Before(s *Set, m Mapper, line, column, count int, deleted bool) {
	if t.indices == nil {
		t.indices = make(map[int]int)
	}
	clear(t.indices)
	t.line = line

	if deleted {
		count = -count
	}
	for i, c := range s.cursors {
		if c.End.Line != line || c.End.Column <= column || c.HasSelection() {
			continue
		}
		t.indices[i] = m.ByteIndexR(Coordinates{Line: line, Column: c.End.Column}) + count
	}
}

// After moves every tracked cursor to the column of its recorded index.
// It reports whether any cursor head moved.
func (t *LineTracker) After(s *Set, m Mapper) bool {
	moved := false
	for i, index := range t.indices {
		if i >= len(s.cursors) {
			continue
		}
		pos := Coordinates{Line: t.line, Column: m.Column(t.line, index)}
		if s.SetPosition(i, pos, true) {
			moved = true
		}
	}
	clear(t.indices)
	return moved
}
