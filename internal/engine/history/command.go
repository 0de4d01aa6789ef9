package history

import (
	"errors"

	"github.com/dshills/codepad/internal/engine/cursor"
)

// Replayer applies recorded operations back onto an editor.
type Replayer interface {
	// InsertTextAt inserts text at the given position.
	InsertTextAt(at Coordinates, text string) (Coordinates, int)

	// DeleteRange removes the text between start and end.
	DeleteRange(start, end Coordinates) error

	// Colorize marks count lines starting at fromLine for re-tokenization.
	Colorize(fromLine, count int)

	// RestoreCursors replaces the live cursor state.
	RestoreCursors(state *cursor.Set)
}

// Undo replays the record's operations in reverse, inverting each one, and
// then restores the cursor state from before the edit.
func (r *Record) Undo(target Replayer) error {
	var errs []error
	for i := len(r.Operations) - 1; i >= 0; i-- {
		op := r.Operations[i]
		if op.IsNoop() {
			continue
		}
		switch op.Kind {
		case Delete:
			target.InsertTextAt(op.Start, op.Text)
		case Add:
			if err := target.DeleteRange(op.Start, op.End); err != nil {
				errs = append(errs, err)
			}
		}
		target.Colorize(op.Start.Line-1, op.LineSpan()+2)
	}
	if r.Before != nil {
		target.RestoreCursors(r.Before)
	}
	return errors.Join(errs...)
}

// Redo replays the record's operations in order and then restores the
// cursor state from after the edit.
func (r *Record) Redo(target Replayer) error {
	var errs []error
	for _, op := range r.Operations {
		if op.IsNoop() {
			continue
		}
		switch op.Kind {
		case Delete:
			if err := target.DeleteRange(op.Start, op.End); err != nil {
				errs = append(errs, err)
			}
		case Add:
			target.InsertTextAt(op.Start, op.Text)
		}
		target.Colorize(op.Start.Line-1, op.LineSpan()+1)
	}
	if r.After != nil {
		target.RestoreCursors(r.After)
	}
	return errors.Join(errs...)
}
