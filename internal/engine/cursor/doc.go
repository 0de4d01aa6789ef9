// Package cursor provides multi-cursor and selection management.
//
// The cursor package handles:
//
//   - Single carets with an optional selection via the Cursor type
//   - Multi-cursor support with Set
//   - Sorting and overlap merging of cursors
//   - Cursor adjustment after line and glyph changes in the document
//
// Selection Model:
//
// A Cursor uses an anchor/head model where:
//   - Start: the anchor, where the selection began
//   - End: the head, where typing occurs
//
// Both are display Coordinates (line, visual column). When Start == End the
// cursor selects nothing. SelectionStart and SelectionEnd give the ordered
// bounds regardless of direction.
//
// Multi-Cursor Support:
//
// Set is never empty. The highest index is the current cursor and a
// separate index marks the cursor added most recently. After any change to
// cursor count or position the owner calls Sort and then Merge, which leaves
// cursors ordered top to bottom with no two selections overlapping:
//
//	s := cursor.NewSet()
//	s.Add(cursor.Span(a, b))
//	s.Sort()
//	s.Merge()
//
// Thread Safety:
//
// Cursor is a value type and safe for concurrent use. Set is not
// thread-safe and is owned by a single editor.
package cursor
