// Package engine provides the editing engine behind the codepad text widget.
//
// The engine package serves as the main facade, combining the glyph
// document, multi-cursor handling, undo/redo, incremental search and
// incremental syntax coloring into one API that a host drives with
// high-level commands.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: glyph lines, coordinates and the column/byte-index mapper
//   - cursor: cursors, the ordered cursor set, sort and merge
//   - history: undo records, transactions and the linear history
//   - find: literal and regex search with highlight segments and replace
//   - colorize: comment scan plus chunked token classification
//
// The Engine listens to the document. Every structural change shifts the
// cursors it affects and marks the neighboring lines for recoloring; every
// text change marks the search results stale.
//
// # Threading
//
// An Engine is not safe for concurrent use. Long running work is chunked:
// the host calls Tick once per frame and each call sorts cursors moved by
// edits, colors a bounded number of lines and advances the deferred search
// refresh.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("hello world"))
//
//	// Select "world" and replace it
//	e.SetSelection(engine.Coordinates{Column: 6}, engine.Coordinates{Column: 11}, -1)
//	e.InsertText("there") // "hello there"
//
//	// Undo the replacement; "world" is selected again
//	e.Undo(1)
//
// # Multi-Cursor Editing
//
//	e := engine.New(engine.WithContent("foo bar foo"))
//	e.SelectAllOccurrencesOf("foo", true)
//	e.InsertText("baz") // "baz bar baz"
//
// Each command is one undo record regardless of the number of cursors.
//
// # Search
//
//	f := e.Find()
//	f.SetPattern("bar")
//	f.FindNext(false)
//	f.SetReplacement("qux")
//	n, _ := f.ReplaceAll()
//
// # Configuration
//
// Configure the engine at creation time:
//
//	e := engine.New(
//	    engine.WithTabSize(4),
//	    engine.WithLanguage(def),
//	    engine.WithClipboard(clipboard.NewSystem()),
//	)
//
// Or from a loaded configuration file:
//
//	opts, err := engine.FromConfig(cfg, registry)
//	e := engine.New(opts...)
//
// # Read-Only Mode
//
// A read-only engine rejects editing commands with ErrReadOnly before
// anything changes. Movement, selection, copy and search keep working.
package engine
