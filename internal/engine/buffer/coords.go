package buffer

import "fmt"

// Coordinates is a line and display-column position. Both are 0-indexed.
// Column counts visual cells, so a tab may span several columns.
type Coordinates struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the coordinates.
func (c Coordinates) String() string {
	return fmt.Sprintf("(%d:%d)", c.Line, c.Column)
}

// Compare returns -1 if c < other, 0 if c == other, 1 if c > other.
func (c Coordinates) Compare(other Coordinates) int {
	if c.Line < other.Line {
		return -1
	}
	if c.Line > other.Line {
		return 1
	}
	if c.Column < other.Column {
		return -1
	}
	if c.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if c comes before other.
func (c Coordinates) Before(other Coordinates) bool {
	return c.Compare(other) < 0
}

// After returns true if c comes after other.
func (c Coordinates) After(other Coordinates) bool {
	return c.Compare(other) > 0
}

// IsZero returns true if this is the origin (0:0).
func (c Coordinates) IsZero() bool {
	return c.Line == 0 && c.Column == 0
}

// MinCoords returns the earlier of two coordinates.
func MinCoords(a, b Coordinates) Coordinates {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxCoords returns the later of two coordinates.
func MaxCoords(a, b Coordinates) Coordinates {
	if b.After(a) {
		return b
	}
	return a
}

// Range is a span of coordinates. Start is inclusive, End is exclusive.
type Range struct {
	Start Coordinates
	End   Coordinates
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s)", r.Start, r.End)
}

// IsEmpty returns true if the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start does not come after End.
func (r Range) IsValid() bool {
	return !r.Start.After(r.End)
}

// Contains returns true if c lies within [Start, End).
func (r Range) Contains(c Coordinates) bool {
	return !c.Before(r.Start) && c.Before(r.End)
}

// ContainsRange returns true if other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return !other.Start.Before(r.Start) && !r.End.Before(other.End)
}

// Normalize returns the range with Start and End in order.
func (r Range) Normalize() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}
