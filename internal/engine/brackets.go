package engine

var (
	openToClose = map[byte]byte{'(': ')', '[': ']', '{': '}'}
	closeToOpen = map[byte]byte{')': '(', ']': '[', '}': '{'}
)

// MatchingBracket returns the position of the bracket matching the one
// under the cursor. It is only set while a single cursor without a
// selection sits on a bracket that has a match.
func (e *Engine) MatchingBracket() (Coordinates, bool) {
	return e.bracket, e.bracketValid
}

// findMatchingBracket looks for the partner of the bracket at index on
// line, walking across lines and counting nested pairs.
func (e *Engine) findMatchingBracket(line, index int) (Coordinates, bool) {
	glyphs := e.doc.Line(line)
	if index < 0 || index >= len(glyphs) {
		return Coordinates{}, false
	}

	c := glyphs[index].Char
	var partner byte
	left := false
	if open, ok := closeToOpen[c]; ok {
		partner, left = open, true
	} else if closer, ok := openToClose[c]; ok {
		partner = closer
	} else {
		return Coordinates{}, false
	}

	depth := 1
	for e.doc.Move(&line, &index, left, false) {
		glyphs = e.doc.Line(line)
		if index >= len(glyphs) {
			continue
		}
		switch glyphs[index].Char {
		case partner:
			depth--
			if depth == 0 {
				return Coordinates{Line: line, Column: e.doc.Column(line, index)}, true
			}
		case c:
			depth++
		}
	}
	return Coordinates{}, false
}
