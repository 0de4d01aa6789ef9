// Package buffer provides the glyph document that backs the editor engine,
// together with the coordinate mapper used by every other component.
//
// The buffer package provides:
//
//   - Glyph: a single byte of text plus the style tags assigned by the colorizer
//   - Line: an ordered run of glyphs
//   - Document: an ordered sequence of lines that is never empty
//   - Coordinates: a (line, display column) position
//   - Conversion between display columns and byte indices
//
// Basic usage:
//
//	doc := buffer.New(buffer.WithTabSize(4))
//	doc.SetText("func main() {\n\treturn\n}")
//
//	// Byte index of the glyph under display column 6 on line 1
//	idx := doc.ByteIndexR(buffer.Coordinates{Line: 1, Column: 6})
//
//	// Pull a position out of the middle of a tab
//	c := doc.Sanitize(buffer.Coordinates{Line: 1, Column: 2})
//
// Columns:
//
// A column is visual, not byte based. Every code point advances the column by
// one regardless of its UTF-8 length; continuation bytes are skipped. A tab
// advances the column to the next multiple of the tab size, which is clamped
// to the range 1 through 8.
//
// Two byte-index conversions exist. ByteIndexL rounds a column inside a tab
// to the tab itself (the left boundary), which is what deletion and anchoring
// need. ByteIndexR rounds to the glyph after the tab (the right boundary),
// which is what cursor placement after a character needs.
//
// Change notification:
//
// Structural mutations report to an optional Listener so that the owner can
// shift cursors and invalidate caches. Glyph splices report both before and
// after the change, which lets a listener capture byte positions under the old
// layout and restore them under the new one.
//
// Thread Safety:
//
// A Document is owned by a single editor and is not safe for concurrent use.
package buffer
