package history

import (
	"fmt"
	"time"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/cursor"
)

// Coordinates is an alias for buffer.Coordinates for convenience.
type Coordinates = buffer.Coordinates

// Kind tells whether an operation added or deleted text.
type Kind uint8

const (
	// Add records text inserted over [Start, End).
	Add Kind = iota
	// Delete records text removed from [Start, End).
	Delete
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Add:
		return "add"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Operation is one text change inside an undo record.
type Operation struct {
	Text  string
	Start Coordinates
	End   Coordinates
	Kind  Kind
}

// IsNoop returns true if the operation carries no text. Replay skips it.
func (op Operation) IsNoop() bool {
	return op.Text == ""
}

// LineSpan returns the number of lines the operation crosses.
func (op Operation) LineSpan() int {
	return op.End.Line - op.Start.Line
}

// Record is one undoable unit: an ordered list of operations plus the
// cursor state before and after they were applied.
type Record struct {
	Operations  []Operation
	Before      *cursor.Set
	After       *cursor.Set
	Description string
	Timestamp   time.Time
}

// NewRecord creates a record. It returns ErrInvalidOperation if any
// operation ends before it starts.
func NewRecord(ops []Operation, before, after *cursor.Set) (*Record, error) {
	for _, op := range ops {
		if op.End.Before(op.Start) {
			return nil, fmt.Errorf("%w: %s ends at %s before %s", ErrInvalidOperation, op.Kind, op.End, op.Start)
		}
	}
	return &Record{
		Operations: ops,
		Before:     before,
		After:      after,
		Timestamp:  time.Now(),
	}, nil
}

// OperationInfo provides read-only info about a record.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
	Operations  int
}

func (r *Record) info() OperationInfo {
	return OperationInfo{
		Description: r.Description,
		Timestamp:   r.Timestamp,
		Operations:  len(r.Operations),
	}
}
