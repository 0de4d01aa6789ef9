// Package history provides undo/redo functionality for the text editor engine.
//
// # Operations
//
// An Operation is a single text change: the text, the [Start, End) range it
// covers, and whether it was added or deleted. A Record groups the
// operations of one editing command with full snapshots of the cursor set
// taken before and after the command ran.
//
// # Replay
//
// Records do not touch the document directly. They replay through a
// Replayer, normally the editor engine:
//   - Undo walks operations in reverse; a Delete is undone by inserting its
//     text at Start and an Add by deleting [Start, End). The cursor state is
//     then restored from Before.
//   - Redo walks operations in order with their original meaning and then
//     restores After.
//
// Each replayed operation also asks the Replayer to recolor the touched
// lines plus one line of margin.
//
// # History
//
// History is a flat list of records with an index into it:
//
//	h := history.New(1000) // keep at most 1000 records
//
//	tx := h.Begin("Type", cursors)
//	tx.Add("x", start, end)
//	tx.Commit(cursors)
//
//	h.Undo(editor, 1)
//	h.Redo(editor, 1)
//
// Adding a record after an undo discards the redo tail. Undo and redo past
// either end of the history are no-ops.
//
// History is not thread-safe; it is owned by a single editor.
package history
