package cursor

import (
	"fmt"

	"github.com/dshills/codepad/internal/engine/buffer"
)

// Coordinates is an alias for buffer.Coordinates for convenience.
type Coordinates = buffer.Coordinates

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Cursor is a caret with an optional selection.
// Start is the anchor where the selection began; End is the head that moves
// and where typing occurs. When Start == End there is no selection.
// Cursor is a value type.
type Cursor struct {
	Start Coordinates
	End   Coordinates
}

// At creates a cursor at c with no selection.
func At(c Coordinates) Cursor {
	return Cursor{Start: c, End: c}
}

// Span creates a cursor anchored at start with its head at end.
func Span(start, end Coordinates) Cursor {
	return Cursor{Start: start, End: end}
}

// SelectionStart returns the lower bound of the selection.
func (c Cursor) SelectionStart() Coordinates {
	return buffer.MinCoords(c.Start, c.End)
}

// SelectionEnd returns the upper bound of the selection.
func (c Cursor) SelectionEnd() Coordinates {
	return buffer.MaxCoords(c.Start, c.End)
}

// HasSelection returns true if the cursor selects any text.
func (c Cursor) HasSelection() bool {
	return c.Start != c.End
}

// Selection returns the selection as an ordered range.
func (c Cursor) Selection() Range {
	return Range{Start: c.SelectionStart(), End: c.SelectionEnd()}
}

// IsForward returns true if the head is at or after the anchor.
func (c Cursor) IsForward() bool {
	return !c.End.Before(c.Start)
}

// MultiLine returns true if the selection spans more than one line.
func (c Cursor) MultiLine() bool {
	return c.Start.Line != c.End.Line
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if !c.HasSelection() {
		return fmt.Sprintf("Cursor%s", c.End)
	}
	return fmt.Sprintf("Cursor%s->%s", c.Start, c.End)
}
