package buffer

import "strings"

// Listener receives structural changes made to a Document.
type Listener interface {
	// LinesInserted is called after count empty lines were inserted at index.
	LinesInserted(index, count int)

	// LinesRemoved is called after the lines [start, end) were removed.
	LinesRemoved(start, end int)

	// GlyphsChanging is called before count glyphs are inserted into or
	// deleted from line at the given display column.
	GlyphsChanging(line, column, count int, deleted bool)

	// GlyphsChanged is called after the splice announced by GlyphsChanging.
	GlyphsChanged(line int)
}

// Document is an ordered sequence of glyph lines. It always holds at least
// one line.
type Document struct {
	lines    []Line
	tabSize  int
	listener Listener
}

// New creates a document with a single empty line.
func New(opts ...Option) *Document {
	d := &Document{
		lines:   []Line{{}},
		tabSize: DefaultTabSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetListener replaces the change listener. A nil listener disables
// notification.
func (d *Document) SetListener(l Listener) {
	d.listener = l
}

// TabSize returns the tab size used for column math.
func (d *Document) TabSize() int {
	return d.tabSize
}

// SetTabSize sets the tab size, clamped to 1..8.
func (d *Document) SetTabSize(size int) {
	d.tabSize = ClampTabSize(size)
}

// LineCount returns the number of lines. It is always at least one.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the glyphs of line i, or nil if i is out of range.
// The returned slice aliases the document and must not be resized.
func (d *Document) Line(i int) Line {
	if i < 0 || i >= len(d.lines) {
		return nil
	}
	return d.lines[i]
}

// LineLen returns the byte length of line i.
func (d *Document) LineLen(i int) int {
	if i < 0 || i >= len(d.lines) {
		return 0
	}
	return len(d.lines[i])
}

// LineString returns the text of line i.
func (d *Document) LineString(i int) string {
	return d.Line(i).String()
}

// AppendLineBytes appends the text of line i to dst.
func (d *Document) AppendLineBytes(dst []byte, i int) []byte {
	return d.Line(i).AppendBytes(dst)
}

// SetText replaces the whole document. Carriage returns are dropped and the
// text is split on line feeds. No listener notification is sent.
func (d *Document) SetText(text string) {
	d.lines = d.lines[:0]
	d.lines = append(d.lines, Line{})
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\r':
		case '\n':
			d.lines = append(d.lines, Line{})
		default:
			last := len(d.lines) - 1
			d.lines[last] = append(d.lines[last], NewGlyph(c))
		}
	}
}

// SetLines replaces the whole document with the given lines. An empty slice
// produces a single empty line.
func (d *Document) SetLines(lines []string) {
	d.lines = make([]Line, 0, max(1, len(lines)))
	for _, s := range lines {
		d.lines = append(d.lines, LineFromString(s))
	}
	if len(d.lines) == 0 {
		d.lines = append(d.lines, Line{})
	}
}

// Lines returns the text of every line.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	for i, l := range d.lines {
		out[i] = l.String()
	}
	return out
}

// String returns the whole document joined with line feeds.
func (d *Document) String() string {
	var sb strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, g := range l {
			sb.WriteByte(g.Char)
		}
	}
	return sb.String()
}

// Text returns the text between start and end. Positions are resolved with
// right rounding and line breaks are emitted as '\n'. An empty string is
// returned unless start comes before end.
func (d *Document) Text(start, end Coordinates) string {
	if !start.Before(end) {
		return ""
	}

	lstart, lend := start.Line, end.Line
	istart := d.ByteIndexR(start)
	iend := d.ByteIndexR(end)

	size := 0
	for i := max(lstart, 0); i < lend && i < len(d.lines); i++ {
		size += len(d.lines[i])
	}

	var sb strings.Builder
	sb.Grow(size + size/8)
	for istart < iend || lstart < lend {
		if lstart < 0 || lstart >= len(d.lines) {
			break
		}
		line := d.lines[lstart]
		if istart < len(line) {
			sb.WriteByte(line[istart].Char)
			istart++
		} else {
			istart = 0
			lstart++
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// InsertLine inserts an empty line at index.
func (d *Document) InsertLine(index int) {
	if index < 0 || index > len(d.lines) {
		return
	}
	d.lines = append(d.lines, nil)
	copy(d.lines[index+1:], d.lines[index:])
	d.lines[index] = Line{}
	if d.listener != nil {
		d.listener.LinesInserted(index, 1)
	}
}

// RemoveLine removes the line at index. The last remaining line is never
// removed.
func (d *Document) RemoveLine(index int) {
	d.RemoveLines(index, index+1)
}

// RemoveLines removes the lines [start, end). If the removal would leave the
// document empty, the first line is kept and emptied instead.
func (d *Document) RemoveLines(start, end int) {
	start = max(start, 0)
	end = min(end, len(d.lines))
	if start >= end {
		return
	}
	if end-start >= len(d.lines) {
		d.lines[0] = d.lines[0][:0]
		start++
		if start >= end {
			return
		}
	}
	d.lines = append(d.lines[:start], d.lines[end:]...)
	if d.listener != nil {
		d.listener.LinesRemoved(start, end)
	}
}

// SwapLines exchanges lines a and b. No listener notification is sent.
func (d *Document) SwapLines(a, b int) {
	if a < 0 || b < 0 || a >= len(d.lines) || b >= len(d.lines) {
		return
	}
	d.lines[a], d.lines[b] = d.lines[b], d.lines[a]
}

// SpliceGlyphs inserts glyphs into line at byte index at.
func (d *Document) SpliceGlyphs(line, at int, glyphs []Glyph) {
	if line < 0 || line >= len(d.lines) || len(glyphs) == 0 {
		return
	}
	l := d.lines[line]
	at = min(max(at, 0), len(l))

	column := d.Column(line, at)
	if d.listener != nil {
		d.listener.GlyphsChanging(line, column, len(glyphs), false)
	}

	out := make(Line, 0, len(l)+len(glyphs))
	out = append(out, l[:at]...)
	out = append(out, glyphs...)
	out = append(out, l[at:]...)
	d.lines[line] = out

	if d.listener != nil {
		d.listener.GlyphsChanged(line)
	}
}

// EraseGlyphs removes the glyphs [from, to) from line. A negative to erases
// through the end of the line.
func (d *Document) EraseGlyphs(line, from, to int) {
	if line < 0 || line >= len(d.lines) {
		return
	}
	l := d.lines[line]
	if to < 0 || to > len(l) {
		to = len(l)
	}
	from = min(max(from, 0), to)

	column := d.Column(line, from)
	if d.listener != nil {
		d.listener.GlyphsChanging(line, column, to-from, true)
	}

	d.lines[line] = append(l[:from], l[to:]...)

	if d.listener != nil {
		d.listener.GlyphsChanged(line)
	}
}

// CloneGlyphs returns a copy of the glyphs [from, to) of line. A negative to
// copies through the end of the line.
func (d *Document) CloneGlyphs(line, from, to int) []Glyph {
	l := d.Line(line)
	if to < 0 || to > len(l) {
		to = len(l)
	}
	from = min(max(from, 0), to)
	out := make([]Glyph, to-from)
	copy(out, l[from:to])
	return out
}
