package colorize

import "github.com/dshills/codepad/internal/engine/buffer"

// ScanComments walks the whole document and sets the Comment,
// MultiLineComment and Preprocessor tags of every glyph.
//
// Strings open and close on '"'; a doubled quote or a backslash escapes the
// next byte. A block comment runs from its start delimiter to the end
// delimiter, possibly lines later. A line whose first non-blank byte is the
// preprocessor character is a preprocessor line, continued by a trailing
// backslash.
func (c *Colorizer) ScanComments() {
	def := c.def
	if def == nil {
		return
	}

	endLine := c.doc.LineCount()
	commentLine, commentIndex := endLine, 0

	var (
		inString      bool
		inLineComment bool
		inPreproc     bool
		firstChar     bool // nothing but blanks so far on this line
		concatenate   bool // previous line ended with a backslash
	)

	inBlock := func(line, index int) bool {
		return commentLine < line || commentLine == line && commentIndex <= index
	}

	for lineNo, index := 0, 0; lineNo < endLine; {
		line := c.doc.Line(lineNo)

		if index == 0 && !concatenate {
			inLineComment = false
			inPreproc = false
			firstChar = true
		}
		concatenate = false

		if len(line) == 0 {
			index = 0
			lineNo++
			continue
		}

		ch := line[index].Char
		if ch != def.PreprocChar && !buffer.IsSpace(ch) {
			firstChar = false
		}
		if index == len(line)-1 && ch == '\\' {
			concatenate = true
		}

		if inString {
			block := inBlock(lineNo, index)
			line[index].MultiLineComment = block
			line[index].Comment = false
			switch ch {
			case '"':
				if index+1 < len(line) && line[index+1].Char == '"' {
					line[index].Preprocessor = inPreproc
					index++
					line[index].MultiLineComment = block
					line[index].Comment = false
				} else {
					inString = false
				}
			case '\\':
				line[index].Preprocessor = inPreproc
				index++
				if index < len(line) {
					line[index].MultiLineComment = block
					line[index].Comment = false
				}
			}
		} else {
			if firstChar && def.PreprocChar != 0 && ch == def.PreprocChar {
				inPreproc = true
			}

			if ch == '"' && !inLineComment && !inBlock(lineNo, index) {
				inString = true
				line[index].MultiLineComment = false
				line[index].Comment = false
			} else {
				switch {
				case !inLineComment && matchAt(line, index, def.CommentStart):
					commentLine, commentIndex = lineNo, index
				case matchAt(line, index, def.SingleLineComment) && !inBlock(lineNo, index):
					inLineComment = true
				}

				line[index].MultiLineComment = inBlock(lineNo, index)
				line[index].Comment = inLineComment

				if matchEndingAt(line, index, def.CommentEnd) {
					commentLine, commentIndex = endLine, 0
				}
			}
		}

		if index < len(line) {
			line[index].Preprocessor = inPreproc
		}
		index += buffer.SequenceLength(ch)
		if index >= len(line) {
			index = 0
			lineNo++
		}
	}
}

// matchAt reports whether the text of line at index starts with delim.
func matchAt(line buffer.Line, index int, delim string) bool {
	if delim == "" || index+len(delim) > len(line) {
		return false
	}
	for i := 0; i < len(delim); i++ {
		if line[index+i].Char != delim[i] {
			return false
		}
	}
	return true
}

// matchEndingAt reports whether delim ends at the glyph at index.
func matchEndingAt(line buffer.Line, index int, delim string) bool {
	start := index + 1 - len(delim)
	if delim == "" || start < 0 {
		return false
	}
	return matchAt(line, start, delim)
}
