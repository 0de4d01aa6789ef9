package history

import "github.com/dshills/codepad/internal/engine/cursor"

// Transaction collects the operations of one editing command so they undo
// together. Usage:
//
//	tx := h.Begin("Paste", state)
//	tx.Delete(text, start, end)
//	tx.Add(text, start, end)
//	tx.Commit(state)
type Transaction struct {
	history     *History
	description string
	before      *cursor.Set
	ops         []Operation
	done        bool
}

// Begin starts a transaction. The cursor state is cloned immediately.
func (h *History) Begin(description string, before *cursor.Set) *Transaction {
	return &Transaction{
		history:     h,
		description: description,
		before:      before.Clone(),
	}
}

// Add records text inserted over [start, end).
func (t *Transaction) Add(text string, start, end Coordinates) {
	t.ops = append(t.ops, Operation{Text: text, Start: start, End: end, Kind: Add})
}

// Delete records text removed from [start, end).
func (t *Transaction) Delete(text string, start, end Coordinates) {
	t.ops = append(t.ops, Operation{Text: text, Start: start, End: end, Kind: Delete})
}

// Len returns the number of recorded operations.
func (t *Transaction) Len() int {
	return len(t.ops)
}

// Before returns the cursor state captured when the transaction began.
func (t *Transaction) Before() *cursor.Set {
	return t.before
}

// SetBefore replaces the captured starting cursor state.
func (t *Transaction) SetBefore(before *cursor.Set) {
	t.before = before.Clone()
}

// Commit adds the transaction to the history with the given final cursor
// state. A transaction without operations is dropped.
// Safe to call multiple times; only the first call has effect.
func (t *Transaction) Commit(after *cursor.Set) (*Record, error) {
	if t.done || len(t.ops) == 0 {
		t.done = true
		return nil, nil
	}
	t.done = true
	r, err := NewRecord(t.ops, t.before, after.Clone())
	if err != nil {
		return nil, err
	}
	r.Description = t.description
	t.history.Add(r)
	return r, nil
}

// Cancel discards the transaction without adding it to the history.
// Edits already applied still affect the document.
func (t *Transaction) Cancel() {
	t.done = true
}
