package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/codepad/internal/engine"
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/find"
	"github.com/dshills/codepad/internal/palette"
)

// cell is one drawn unit of a line: a grapheme cluster or a tab.
type cell struct {
	text   string
	index  int // byte index of the first glyph
	column int // document column of the first glyph
	x      int // screen offset from the line start
	width  int
	tab    bool
	ctrl   bool
}

// layoutLine splits a line into cells. Columns follow the document mapper;
// screen widths follow the terminal's grapheme widths. It returns the cells
// and the total width.
func layoutLine(doc *buffer.Document, line int) ([]cell, int) {
	s := doc.LineString(line)
	cells := make([]cell, 0, len(s))
	x, col, i := 0, 0, 0
	state := -1
	for i < len(s) {
		if s[i] == '\t' {
			w := doc.TabSizeAtColumn(col)
			cells = append(cells, cell{text: " ", index: i, column: col, x: x, width: w, tab: true})
			x += w
			doc.Advance(line, &i, &col)
			state = -1
			continue
		}

		var cluster string
		var width int
		cluster, _, width, state = uniseg.FirstGraphemeClusterInString(s[i:], state)
		c := cell{text: cluster, index: i, column: col, x: x, width: width}
		if isControl(cluster) {
			c.text = "?"
			c.ctrl = true
		}
		if c.width < 1 {
			c.width = 1
		}
		cells = append(cells, c)
		x += c.width

		end := i + len(cluster)
		for i < end {
			doc.Advance(line, &i, &col)
		}
	}
	return cells, x
}

func isControl(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r < 0x20 || r == 0x7f
}

// columnX returns the screen offset of a document column on a line.
func columnX(cells []cell, width, column int) int {
	for _, c := range cells {
		if c.column >= column {
			return c.x
		}
	}
	return width
}

// cellColumn returns the document column drawn at screen offset x.
func cellColumn(cells []cell, maxColumn, x int) int {
	for _, c := range cells {
		if x < c.x+c.width {
			return c.column
		}
	}
	return maxColumn
}

// gutterWidth returns the width of the line number gutter.
func gutterWidth(lines int) int {
	return len(strconv.Itoa(max(1, lines))) + 2
}

// textRows returns the number of rows available to the document.
func (ed *editor) textRows() int {
	_, h := ed.screen.Size()
	return max(1, h-1)
}

// screenToCoords maps a screen position to document coordinates.
func (ed *editor) screenToCoords(x, y int) (engine.Coordinates, bool) {
	if y < 0 || y >= ed.textRows() {
		return engine.Coordinates{}, false
	}
	doc := ed.engine.Document()
	line := ed.top + y
	if line >= doc.LineCount() {
		return doc.End(), true
	}
	gutter := gutterWidth(doc.LineCount())
	if x < gutter {
		return engine.Coordinates{Line: line}, true
	}
	cells, _ := layoutLine(doc, line)
	col := cellColumn(cells, doc.LineMaxColumn(line), x-gutter+ed.left)
	return engine.Coordinates{Line: line, Column: col}, true
}

// scrollToCursor keeps the main cursor inside the viewport after it moves.
func (ed *editor) scrollToCursor(textWidth, rows int) {
	pos := ed.engine.CursorPosition()
	if pos == ed.lastCursor {
		return
	}
	ed.lastCursor = pos

	if pos.Line < ed.top {
		ed.top = pos.Line
	}
	if pos.Line >= ed.top+rows {
		ed.top = pos.Line - rows + 1
	}
	cells, width := layoutLine(ed.engine.Document(), pos.Line)
	cx := columnX(cells, width, pos.Column)
	if cx < ed.left {
		ed.left = cx
	}
	if textWidth > 0 && cx >= ed.left+textWidth {
		ed.left = cx - textWidth + 1
	}
	ed.top = max(0, ed.top)
}

// draw renders the document and the status row.
func (ed *editor) draw() {
	e := ed.engine
	doc := e.Document()
	pal := e.Palette()
	w, h := ed.screen.Size()
	rows := max(1, h-1)
	gutter := gutterWidth(doc.LineCount())

	ed.screen.Fill(' ', pal.Style(palette.Default))
	ed.scrollToCursor(w-gutter, rows)

	cursors := e.Cursors()
	caret := e.CursorPosition()
	single := len(cursors) == 1 && !e.AnyCursorHasSelection()
	bracket, hasBracket := e.MatchingBracket()
	active := e.Find().Index()

	for row := 0; row < rows; row++ {
		line := ed.top + row
		if line >= doc.LineCount() {
			break
		}
		number := fmt.Sprintf("%*d ", gutter-1, line+1)
		ed.drawString(0, row, number, pal.Style(palette.LineNumber))

		current := single && line == caret.Line
		if current {
			fill := pal.Fill(pal.Get(palette.Default), pal.Get(palette.CurrentLineFill))
			for x := gutter; x < w; x++ {
				ed.screen.SetContent(x, row, ' ', nil, fill)
			}
		}

		glyphs := doc.Line(line)
		cells, width := layoutLine(doc, line)
		segs := e.FindHighlights(line)
		for _, c := range cells {
			sx := gutter + c.x - ed.left
			if sx < gutter || sx >= w {
				continue
			}
			fg := e.GlyphColor(glyphs[c.index])
			if c.ctrl {
				fg = pal.Get(palette.ControlCharacter)
			}
			pos := engine.Coordinates{Line: line, Column: c.column}

			style := pal.StyleFor(fg)
			if current {
				style = pal.Fill(fg, pal.Get(palette.CurrentLineFill))
			}
			if seg, ok := segmentAt(segs, c.column); ok {
				style = pal.Fill(fg, pal.FindHighlight(seg.Result == active))
			}
			if selected(cursors, pos) {
				style = pal.Fill(fg, pal.Get(palette.Selection))
			}
			if hasBracket && (pos == bracket || pos == caret) {
				style = style.Bold(true)
			}
			if isExtraCaret(cursors, caret, pos) {
				style = pal.Fill(fg, pal.Get(palette.Cursor))
			}
			ed.drawCell(sx, row, c, style)
		}

		// The line break itself can be selected, matched or hold a caret.
		end := engine.Coordinates{Line: line, Column: doc.LineMaxColumn(line)}
		sx := gutter + width - ed.left
		if sx >= gutter && sx < w {
			fg := pal.Get(palette.Default)
			switch {
			case isExtraCaret(cursors, caret, end):
				ed.screen.SetContent(sx, row, ' ', nil, pal.Fill(fg, pal.Get(palette.Cursor)))
			case line < doc.LineCount()-1 && selected(cursors, end):
				ed.screen.SetContent(sx, row, ' ', nil, pal.Fill(fg, pal.Get(palette.Selection)))
			default:
				for _, seg := range segs {
					if seg.PastLineEnd {
						ed.screen.SetContent(sx, row, ' ', nil, pal.Fill(fg, pal.FindHighlight(seg.Result == active)))
					}
				}
			}
		}
	}

	ed.drawStatus(w, h-1)

	if ed.mode == modeEdit {
		cells, width := layoutLine(doc, caret.Line)
		cx := gutter + columnX(cells, width, caret.Column) - ed.left
		cy := caret.Line - ed.top
		if cx >= gutter && cx < w && cy >= 0 && cy < rows {
			ed.screen.ShowCursor(cx, cy)
		} else {
			ed.screen.HideCursor()
		}
	}
	ed.screen.Show()
}

// drawStatus renders the status row or the active prompt.
func (ed *editor) drawStatus(w, y int) {
	e := ed.engine
	pal := e.Palette()
	style := pal.Fill(pal.Get(palette.Default), pal.Get(palette.CurrentLineEdge))
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, style)
	}

	f := e.Find()
	if ed.mode != modeEdit {
		label := "Find: "
		if ed.mode == modeReplace {
			label = "Replace: "
		}
		x := ed.drawString(0, y, label, style)
		x = ed.drawString(x, y, string(ed.prompt), style)
		ed.screen.ShowCursor(x, y)

		right := optionFlags(f.Options()) + " " + f.Counter()
		if msg := ed.statusMessage(); msg != "" {
			right = msg + "  " + right
		}
		ed.drawString(w-uniseg.StringWidth(right)-1, y, right, style)
		return
	}

	name := "[No Name]"
	if ed.path != "" {
		name = filepath.Base(ed.path)
	}
	if ed.Modified() {
		name += " [+]"
	}
	if e.ReadOnly() {
		name += " [RO]"
	}
	x := ed.drawString(0, y, " "+name, style)
	if msg := ed.statusMessage(); msg != "" {
		ed.drawString(x+2, y, msg, style)
	}

	pos := e.CursorPosition()
	right := fmt.Sprintf("Ln %d, Col %d", pos.Line+1, pos.Column+1)
	if n := e.CursorCount(); n > 1 {
		right = fmt.Sprintf("%d cursors  %s", n, right)
	}
	if def := e.Language(); def != nil {
		right = def.Name + "  " + right
	}
	if f.HasPattern() {
		right = f.Counter() + "  " + right
	}
	ed.drawString(w-uniseg.StringWidth(right)-1, y, right, style)
}

func optionFlags(o find.Options) string {
	flag := func(on bool, s string) string {
		if on {
			return "[" + s + "]"
		}
		return ""
	}
	return flag(o.CaseSensitive, "Aa") + flag(o.WholeWord, "W") + flag(o.UseRegex, ".*") +
		flag(o.SelectionOnly, "Sel")
}

// drawCell draws a cell at screen column x.
func (ed *editor) drawCell(x, y int, c cell, style tcell.Style) {
	if c.tab {
		for i := 0; i < c.width; i++ {
			ed.screen.SetContent(x+i, y, ' ', nil, style)
		}
		return
	}
	runes := []rune(c.text)
	ed.screen.SetContent(x, y, runes[0], runes[1:], style)
}

// drawString draws s starting at x and returns the column after it.
func (ed *editor) drawString(x, y int, s string, style tcell.Style) int {
	state := -1
	for s != "" {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		runes := []rune(cluster)
		ed.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(1, width)
	}
	return x
}

func segmentAt(segs []find.Segment, column int) (find.Segment, bool) {
	for _, s := range segs {
		if column >= s.StartColumn && column < s.EndColumn {
			return s, true
		}
	}
	return find.Segment{}, false
}

func selected(cursors []engine.Cursor, pos engine.Coordinates) bool {
	for _, c := range cursors {
		if c.HasSelection() && !pos.Before(c.SelectionStart()) && pos.Before(c.SelectionEnd()) {
			return true
		}
	}
	return false
}

// isExtraCaret reports whether a cursor other than the main one has its
// caret at pos. The main caret is the terminal cursor.
func isExtraCaret(cursors []engine.Cursor, caret, pos engine.Coordinates) bool {
	if pos == caret {
		return false
	}
	for _, c := range cursors {
		if c.End == pos {
			return true
		}
	}
	return false
}
