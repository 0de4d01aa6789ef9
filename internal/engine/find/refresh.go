package find

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/regex"
)

// Refresh recomputes every result. With preserveSelection set, a result
// matching the last selection becomes active; otherwise the first result
// at or after the cursor does.
func (f *Finder) Refresh(preserveSelection bool) {
	f.dirty = false
	f.refreshPending = false
	f.refreshTimer = 0
	f.generation = f.host.Generation()
	f.refreshed = true
	f.results = f.results[:0]
	clear(f.highlights)
	f.index = -1

	if !f.HasPattern() {
		return
	}

	doc := f.host.Document()
	f.flatten(doc)

	var rangeStart, rangeEnd buffer.Coordinates
	valid := false
	if f.opts.SelectionOnly {
		if r, ok := f.host.SelectionBounds(); ok {
			rangeStart, rangeEnd, valid = r.Start, r.End, true
		} else if f.selRangeValid {
			rangeStart, rangeEnd, valid = f.selRange.Start, f.selRange.End, true
		}
		if valid {
			rangeStart, rangeEnd = doc.Sanitize(rangeStart), doc.Sanitize(rangeEnd)
			f.selRange = buffer.Range{Start: rangeStart, End: rangeEnd}
		}
	}
	f.selRangeValid = valid
	if !valid {
		rangeStart, rangeEnd = buffer.Coordinates{}, doc.End()
	}

	from := f.offsetOf(doc, rangeStart)
	to := min(f.offsetOf(doc, rangeEnd), len(f.text))
	if from > to {
		from, to = to, from
	}

	var preserved buffer.Range
	havePreserved := false
	if preserveSelection {
		preserved, havePreserved = f.host.LastSelection()
	}

	wholeWord := f.opts.WholeWord && !f.opts.UseRegex
	if f.opts.UseRegex {
		if !f.searchRegex(doc, from, to) {
			return
		}
	} else {
		f.searchLiteral(doc, from, to, wholeWord)
	}

	if len(f.results) == 0 {
		return
	}
	f.index = f.chooseIndex(doc, preserved, havePreserved)
}

// flatten joins the document lines into f.text and records where each line
// starts.
func (f *Finder) flatten(doc *buffer.Document) {
	f.text = f.text[:0]
	f.offsets = f.offsets[:0]
	for i := 0; i < doc.LineCount(); i++ {
		if i > 0 {
			f.text = append(f.text, '\n')
		}
		f.offsets = append(f.offsets, len(f.text))
		f.text = doc.AppendLineBytes(f.text, i)
	}
}

// offsetOf maps coordinates to an offset into the flattened text.
func (f *Finder) offsetOf(doc *buffer.Document, c buffer.Coordinates) int {
	c = doc.Sanitize(c)
	index := min(max(doc.ByteIndexR(c), 0), doc.LineLen(c.Line))
	return f.offsets[c.Line] + index
}

// coordsOf maps an offset into the flattened text back to coordinates.
func (f *Finder) coordsOf(doc *buffer.Document, offset int) buffer.Coordinates {
	offset = min(max(offset, 0), len(f.text))
	line := sort.SearchInts(f.offsets, offset+1) - 1
	line = min(max(line, 0), len(f.offsets)-1)
	index := min(offset-f.offsets[line], doc.LineLen(line))
	return buffer.Coordinates{Line: line, Column: doc.Column(line, index)}
}

func (f *Finder) isWholeWord(start, end, from, to int) bool {
	before := start == from || start == 0 || !buffer.IsWordChar(f.text[start-1])
	after := end >= to || end >= len(f.text) || !buffer.IsWordChar(f.text[end])
	return before && after
}

func (f *Finder) searchLiteral(doc *buffer.Document, from, to int, wholeWord bool) {
	haystack, needle := f.text, []byte(f.pattern)
	if !f.opts.CaseSensitive {
		haystack = asciiLower(haystack)
		needle = asciiLower(needle)
	}

	for pos := from; pos < to; {
		found := bytes.Index(haystack[pos:], needle)
		if found < 0 {
			break
		}
		start := pos + found
		end := start + len(needle)
		if start >= to || end > to {
			break
		}
		if wholeWord && !f.isWholeWord(start, end, from, to) {
			pos = start + 1
			continue
		}
		f.addResult(doc, start, end)
		pos = end
	}
}

// searchRegex runs the pattern over [from, to). It reports false and sets
// the status when the pattern does not compile.
func (f *Finder) searchRegex(doc *buffer.Document, from, to int) bool {
	re, err := f.compile()
	if err != nil {
		f.logger.Warn("invalid find pattern %q: %v", f.pattern, err)
		f.setStatus(StatusInvalidRegex)
		return false
	}
	text := string(f.text)
	for _, m := range re.FindAll(text, from, to) {
		if m.Len() == 0 {
			continue
		}
		f.addResult(doc, m.Start, m.End)
	}
	return true
}

func (f *Finder) compile() (regex.Regexp, error) {
	var flags regex.Flags
	if !f.opts.CaseSensitive {
		flags |= regex.IgnoreCase
	}
	key := fmt.Sprintf("%s/%d/%s", f.engine.Name(), flags, f.pattern)
	if f.compiled != nil && f.compiledKey == key {
		return f.compiled, nil
	}
	re, err := f.engine.Compile(f.pattern, flags)
	if err != nil {
		return nil, err
	}
	f.compiled, f.compiledKey = re, key
	return re, nil
}

// addResult records the match [start, end) and its highlight segments.
func (f *Finder) addResult(doc *buffer.Document, start, end int) {
	if start >= end {
		return
	}
	res := Result{Start: f.coordsOf(doc, start), End: f.coordsOf(doc, end)}
	f.results = append(f.results, res)
	idx := len(f.results) - 1

	first, last := res.Start.Line, res.End.Line
	if first == last {
		f.highlights[first] = append(f.highlights[first], Segment{res.Start.Column, res.End.Column, false, idx})
		return
	}
	f.highlights[first] = append(f.highlights[first], Segment{res.Start.Column, doc.LineMaxColumn(first), true, idx})
	for line := first + 1; line < last; line++ {
		f.highlights[line] = append(f.highlights[line], Segment{0, doc.LineMaxColumn(line), true, idx})
	}
	f.highlights[last] = append(f.highlights[last], Segment{0, res.End.Column, false, idx})
}

func (f *Finder) chooseIndex(doc *buffer.Document, preserved buffer.Range, havePreserved bool) int {
	if havePreserved {
		ps, pe := f.offsetOf(doc, preserved.Start), f.offsetOf(doc, preserved.End)
		for i, r := range f.results {
			if f.offsetOf(doc, r.Start) == ps && f.offsetOf(doc, r.End) == pe {
				return i
			}
		}
	}

	cursor := f.offsetOf(doc, f.host.CursorPosition())
	for i, r := range f.results {
		rs, re := f.offsetOf(doc, r.Start), f.offsetOf(doc, r.End)
		if rs <= cursor && cursor < re || cursor < rs {
			return i
		}
	}
	return 0
}

// asciiLower returns a copy of b with ASCII letters lowered. Other bytes
// are kept so offsets stay aligned with the original.
func asciiLower(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
