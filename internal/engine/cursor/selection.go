package cursor

// AnyHasSelection returns true if at least one cursor selects text.
func (s *Set) AnyHasSelection() bool {
	for _, c := range s.cursors {
		if c.HasSelection() {
			return true
		}
	}
	return false
}

// AllHaveSelection returns true if every cursor selects text.
func (s *Set) AllHaveSelection() bool {
	for _, c := range s.cursors {
		if !c.HasSelection() {
			return false
		}
	}
	return true
}

// AnyMultiLine returns true if a cursor's selection spans several lines.
func (s *Set) AnyMultiLine() bool {
	for _, c := range s.cursors {
		if c.MultiLine() {
			return true
		}
	}
	return false
}

// Selections returns the ranges of all non-empty selections in cursor order.
func (s *Set) Selections() []Range {
	var ranges []Range
	for _, c := range s.cursors {
		if c.HasSelection() {
			ranges = append(ranges, c.Selection())
		}
	}
	return ranges
}

// Bounds returns the smallest range covering every non-empty selection.
// Each endpoint is passed through sanitize first. The second result is
// false if no cursor selects text or the covered range is empty.
func (s *Set) Bounds(sanitize func(Coordinates) Coordinates) (Range, bool) {
	var out Range
	found := false
	for _, c := range s.cursors {
		if !c.HasSelection() {
			continue
		}
		start, end := c.SelectionStart(), c.SelectionEnd()
		if sanitize != nil {
			start, end = sanitize(start), sanitize(end)
		}
		if !found || start.Before(out.Start) {
			out.Start = start
		}
		if !found || out.End.Before(end) {
			out.End = end
		}
		found = true
	}
	if !found || !out.Start.Before(out.End) {
		return Range{}, false
	}
	return out, true
}

// LineSpan returns the lines touched by cursor c's selection, bottom to
// top. A selection that ends at column 0 of a line does not touch that
// line.
func (c Cursor) LineSpan() []int {
	start, end := c.SelectionStart(), c.SelectionEnd()
	lines := make([]int, 0, end.Line-start.Line+1)
	for line := end.Line; line >= start.Line; line-- {
		if (Coordinates{Line: line}) == end && end != start {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
