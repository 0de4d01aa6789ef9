package history

import "errors"

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrInvalidOperation = errors.New("history: operation range is inverted")
)

// History is a linear undo history with a redo tail.
//
// Records [0, Index) can be undone and records [Index, Len) can be redone.
// Adding a record discards the redo tail.
type History struct {
	records    []*Record
	index      int
	maxEntries int
}

// New creates a history that keeps at most maxEntries records. A
// non-positive value selects DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Add appends a record, discarding any records that could have been redone.
// When the history is full the oldest record is dropped.
func (h *History) Add(r *Record) {
	if r == nil {
		return
	}
	h.records = append(h.records[:h.index], r)
	h.index++
	h.trim()
}

// Undo reverts up to steps records and returns how many were reverted.
// Errors raised while replaying are joined and returned; the history still
// moves past the record.
func (h *History) Undo(target Replayer, steps int) (int, error) {
	var errs []error
	done := 0
	for h.CanUndo() && done < steps {
		h.index--
		if err := h.records[h.index].Undo(target); err != nil {
			errs = append(errs, err)
		}
		done++
	}
	return done, errors.Join(errs...)
}

// Redo reapplies up to steps records and returns how many were reapplied.
func (h *History) Redo(target Replayer, steps int) (int, error) {
	var errs []error
	done := 0
	for h.CanRedo() && done < steps {
		if err := h.records[h.index].Redo(target); err != nil {
			errs = append(errs, err)
		}
		h.index++
		done++
	}
	return done, errors.Join(errs...)
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.index < len(h.records)
}

// Index returns the position of the undo cursor.
func (h *History) Index() int {
	return h.index
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return len(h.records)
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	return h.index
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	return len(h.records) - h.index
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	clear(h.records)
	h.records = h.records[:0]
	h.index = 0
}

// PeekUndo returns info about the next undo record without applying it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	if !h.CanUndo() {
		return OperationInfo{}, false
	}
	return h.records[h.index-1].info(), true
}

// PeekRedo returns info about the next redo record without applying it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	if !h.CanRedo() {
		return OperationInfo{}, false
	}
	return h.records[h.index].info(), true
}

// UndoInfo returns info about every undoable record, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	result := make([]OperationInfo, h.index)
	for i, r := range h.records[:h.index] {
		result[i] = r.info()
	}
	return result
}

// SetMaxEntries changes the maximum number of records.
// If the history is larger, oldest records are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.maxEntries = max
	h.trim()
}

// MaxEntries returns the maximum number of records.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

func (h *History) trim() {
	if len(h.records) <= h.maxEntries {
		return
	}
	excess := len(h.records) - h.maxEntries
	clear(h.records[:excess])
	h.records = h.records[excess:]
	h.index = max(h.index-excess, 0)
}
