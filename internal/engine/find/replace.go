package find

// FocusResult makes result i active, wrapping i into range, and selects it
// with a single cursor. It returns false when there are no results.
func (f *Finder) FocusResult(i int) bool {
	f.EnsureUpToDate()
	n := len(f.results)
	if n == 0 {
		return false
	}
	f.index = (i%n + n) % n
	res := f.results[f.index]
	f.host.Select(res.Start, res.End)
	return true
}

// FindNext moves to the next result, or the previous one when backwards is
// set. Without wrap-around it stops at either end and sets a status
// message instead.
func (f *Finder) FindNext(backwards bool) {
	f.EnsureUpToDate()
	n := len(f.results)
	if n == 0 {
		f.setStatus(StatusNoMatches)
		return
	}

	i := f.index
	if i < 0 {
		i = 0
		if backwards {
			i = n - 1
		}
	} else {
		next := i + 1
		if backwards {
			next = i - 1
		}
		if !f.opts.WrapAround && (next < 0 || next >= n) {
			if backwards {
				f.setStatus(StatusReachedStart)
			} else {
				f.setStatus(StatusReachedEnd)
			}
			return
		}
		i = next
	}
	f.FocusResult(i)
	f.clearStatus()
}

// ReplaceCurrent replaces the active result and moves to the next result
// after the edit.
func (f *Finder) ReplaceCurrent() error {
	if !f.HasPattern() {
		f.setStatus(StatusNothingToReplace)
		return nil
	}
	f.EnsureUpToDate()
	if len(f.results) == 0 {
		f.setStatus(StatusNoMatches)
		return nil
	}
	if f.index < 0 || f.index >= len(f.results) {
		f.index = 0
	}

	cur := f.results[f.index]
	f.host.Select(cur.Start, cur.End)
	if err := f.host.ReplaceSelection(f.replacement); err != nil {
		return err
	}
	if f.opts.SelectionOnly {
		f.selRangeValid = false
	}

	f.MarkDirty(false)
	f.Refresh(false)
	if len(f.results) > 0 {
		cursor := f.host.CursorPosition()
		next := 0
		for i, r := range f.results {
			if !cursor.Before(r.Start) && cursor.Before(r.End) || !r.Start.Before(cursor) {
				next = i
				break
			}
		}
		f.FocusResult(next)
	} else {
		f.index = -1
		f.host.ClearSelections()
	}

	f.setStatus(StatusReplaced)
	return nil
}

// ReplaceAll replaces every result inside the search range and returns
// the number of replacements. Text produced by a replacement is never
// searched again: only results starting at or after the end of the last
// replacement are taken.
func (f *Finder) ReplaceAll() (int, error) {
	if !f.HasPattern() {
		f.setStatus(StatusNothingToReplace)
		return 0, nil
	}
	f.EnsureUpToDate()
	if len(f.results) == 0 {
		f.setStatus(StatusNoMatches)
		return 0, nil
	}

	doc := f.host.Document()
	active := false
	if f.opts.SelectionOnly {
		if r, ok := f.host.SelectionBounds(); ok {
			f.selRange, f.selRangeValid = r, true
		}
		active = f.selRangeValid
	}
	selStart, selEnd := doc.Sanitize(f.selRange.Start), doc.Sanitize(f.selRange.End)
	// Replacements before the end of the range move it; track it by its
	// distance from the end of the document.
	tail := len(f.text) - f.offsetOf(doc, selEnd)
	inRange := func(r Result) bool {
		return !active || !r.Start.Before(selStart) && !selEnd.Before(r.End)
	}

	count := 0
	// Distance from the end of the text to the end of the last replacement.
	resume := len(f.text)
	for {
		f.EnsureUpToDate()
		if active {
			selEnd = f.coordsOf(doc, len(f.text)-tail)
		}
		from := len(f.text) - resume
		target := -1
		for i, r := range f.results {
			if f.offsetOf(doc, r.Start) >= from && inRange(r) {
				target = i
				break
			}
		}
		if target < 0 {
			break
		}
		cur := f.results[target]
		resume = len(f.text) - f.offsetOf(doc, cur.End)

		f.host.Select(cur.Start, cur.End)
		if err := f.host.ReplaceSelection(f.replacement); err != nil {
			f.Refresh(false)
			return count, err
		}
		count++
		f.MarkDirty(false)
		if active {
			f.selRangeValid = false
		}
	}

	f.Refresh(false)
	if len(f.results) > 0 {
		f.FocusResult(0)
	} else {
		f.index = -1
		f.host.ClearSelections()
	}

	if count == 0 {
		f.setStatus(StatusNoMatches)
		return 0, nil
	}
	f.setStatus(statusReplacedN(count))
	return count, nil
}
