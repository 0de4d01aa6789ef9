package cursor

import "slices"

// Set is a non-empty ordered collection of cursors.
//
// The highest index is the current cursor. LastAdded tracks the cursor that
// was added most recently; it is re-resolved by position whenever the set is
// sorted, since sorting invalidates indices.
type Set struct {
	cursors   []Cursor
	lastAdded int
}

// NewSet creates a set holding a single cursor at the origin.
func NewSet() *Set {
	return &Set{cursors: []Cursor{{}}}
}

// NewSetFrom creates a set from the given cursors. An empty slice produces a
// single cursor at the origin. The last cursor is considered last added.
func NewSetFrom(cursors ...Cursor) *Set {
	if len(cursors) == 0 {
		return NewSet()
	}
	s := &Set{cursors: slices.Clone(cursors)}
	s.lastAdded = len(s.cursors) - 1
	return s
}

// Count returns the number of cursors.
func (s *Set) Count() int {
	return len(s.cursors)
}

// Current returns the index of the current cursor.
func (s *Set) Current() int {
	return len(s.cursors) - 1
}

// Get returns the cursor at index i. A negative index selects the current
// cursor.
func (s *Set) Get(i int) Cursor {
	return s.cursors[s.index(i)]
}

// Put replaces the cursor at index i. A negative index selects the current
// cursor.
func (s *Set) Put(i int, c Cursor) {
	s.cursors[s.index(i)] = c
}

// All returns a copy of every cursor in order.
func (s *Set) All() []Cursor {
	return slices.Clone(s.cursors)
}

// Add appends c, making it both the current and the last added cursor.
// It returns the new cursor's index.
func (s *Set) Add(c Cursor) int {
	s.cursors = append(s.cursors, c)
	s.lastAdded = len(s.cursors) - 1
	return s.lastAdded
}

// LastAdded returns the index of the most recently added cursor, or 0 if
// that cursor no longer exists.
func (s *Set) LastAdded() int {
	if s.lastAdded >= len(s.cursors) || s.lastAdded < 0 {
		return 0
	}
	return s.lastAdded
}

// SetPosition moves the head of cursor i to pos. When clearSelection is set
// the anchor follows. It reports whether the head moved.
func (s *Set) SetPosition(i int, pos Coordinates, clearSelection bool) bool {
	c := &s.cursors[s.index(i)]
	if clearSelection {
		c.Start = pos
	}
	if c.End == pos {
		return false
	}
	c.End = pos
	return true
}

// ClearExtra drops every cursor except the first.
func (s *Set) ClearExtra() {
	s.cursors = s.cursors[:1]
}

// ClearSelections collapses every cursor onto its selection end.
func (s *Set) ClearSelections() {
	for i := range s.cursors {
		end := s.cursors[i].SelectionEnd()
		s.cursors[i] = At(end)
	}
}

// Reset replaces the set with a single cursor at c.
func (s *Set) Reset(c Coordinates) {
	s.cursors = append(s.cursors[:0], At(c))
	s.lastAdded = 0
}

// Sort orders cursors top to bottom by selection start. The sort is stable
// and the last added cursor is re-resolved by matching its head position.
func (s *Set) Sort() {
	head := s.cursors[s.LastAdded()].End
	slices.SortStableFunc(s.cursors, func(a, b Cursor) int {
		return a.SelectionStart().Compare(b.SelectionStart())
	})
	for i := len(s.cursors) - 1; i >= 0; i-- {
		if s.cursors[i].End == head {
			s.lastAdded = i
		}
	}
}

// Merge resolves overlapping cursors. The set must be sorted.
//
// Cursors are walked top to bottom and each is compared with the last one
// kept. A cursor starting inside the kept selection, or at the same
// position, is absorbed: the kept cursor grows to cover it, or is replaced
// when the newcomer contains it. Touching selections are kept. The last
// added index follows the cursor that absorbed it. It reports whether any
// cursor was removed.
func (s *Set) Merge() bool {
	if len(s.cursors) < 2 {
		return false
	}
	last := s.LastAdded()
	newLast := 0

	kept := s.cursors[:1]
	for i := 1; i < len(s.cursors); i++ {
		cur := s.cursors[i]
		k := &kept[len(kept)-1]
		kStart, kEnd := k.SelectionStart(), k.SelectionEnd()
		cStart, cEnd := cur.SelectionStart(), cur.SelectionEnd()

		if cStart != kStart && !cStart.Before(kEnd) {
			kept = append(kept, cur)
			if i == last {
				newLast = len(kept) - 1
			}
			continue
		}
		switch {
		case !kEnd.Before(cEnd):
		case cStart == kStart:
			*k = cur
		default:
			*k = Span(kStart, cEnd)
		}
		if i == last {
			newLast = len(kept) - 1
		}
	}

	removed := len(kept) < len(s.cursors)
	s.cursors = kept
	s.lastAdded = newLast
	return removed
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		cursors:   slices.Clone(s.cursors),
		lastAdded: s.lastAdded,
	}
}

// Restore overwrites s with the contents of other.
func (s *Set) Restore(other *Set) {
	s.cursors = append(s.cursors[:0], other.cursors...)
	s.lastAdded = other.lastAdded
}

// Equals returns true if two sets hold the same cursors in the same order.
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return false
	}
	return slices.Equal(s.cursors, other.cursors)
}

func (s *Set) index(i int) int {
	if i < 0 || i >= len(s.cursors) {
		return len(s.cursors) - 1
	}
	return i
}
