package engine

import (
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
	"github.com/dshills/codepad/internal/engine/find"
)

// Find returns the search engine of this editor.
func (e *Engine) Find() *find.Finder {
	return e.finder
}

// FindHighlights returns the search highlight segments on line.
func (e *Engine) FindHighlights(line int) []find.Segment {
	return e.finder.Highlights(line)
}

// Document returns the document. It must only be read; edits go through
// the engine so cursors, colors and search stay consistent.
func (e *Engine) Document() *buffer.Document {
	return e.doc
}

// SelectionBounds returns the range covering every selection.
func (e *Engine) SelectionBounds() (Range, bool) {
	return e.cursors.Bounds(e.doc.Sanitize)
}

// LastSelection returns the selection of the most recently added cursor.
func (e *Engine) LastSelection() (Range, bool) {
	c := e.cursors.Get(e.cursors.LastAdded())
	if !c.HasSelection() {
		return Range{}, false
	}
	return Range{Start: e.doc.Sanitize(c.SelectionStart()), End: e.doc.Sanitize(c.SelectionEnd())}, true
}

// Select collapses the cursors into one selecting [start, end).
func (e *Engine) Select(start, end Coordinates) {
	e.cursors.Reset(start)
	e.cursors.Put(0, cursor.Span(e.doc.Sanitize(start), e.doc.Sanitize(end)))
	e.cursorsChanged()
}

var _ find.Host = (*Engine)(nil)
