package buffer

import "github.com/dshills/codepad/internal/engine/token"

// Glyph is one byte of document text together with its style tags.
// A multi-byte code point occupies one glyph per byte; only the lead byte
// advances the display column.
type Glyph struct {
	Char  byte
	Class token.Class

	// Comment is set for glyphs inside a single-line comment.
	Comment bool
	// MultiLineComment is set for glyphs inside a block comment.
	MultiLineComment bool
	// Preprocessor is set for glyphs on a preprocessor line.
	Preprocessor bool
}

// NewGlyph returns an unstyled glyph for the byte c.
func NewGlyph(c byte) Glyph {
	return Glyph{Char: c, Class: token.Default}
}

// Line is an ordered run of glyphs.
type Line []Glyph

// LineFromString builds an unstyled line from s.
func LineFromString(s string) Line {
	line := make(Line, len(s))
	for i := 0; i < len(s); i++ {
		line[i] = NewGlyph(s[i])
	}
	return line
}

// String returns the text of the line.
func (l Line) String() string {
	return string(l.AppendBytes(make([]byte, 0, len(l))))
}

// AppendBytes appends the text of the line to dst.
func (l Line) AppendBytes(dst []byte) []byte {
	for _, g := range l {
		dst = append(dst, g.Char)
	}
	return dst
}

// SequenceLength returns the length of the UTF-8 sequence introduced by the
// lead byte c. Bytes that are not lead bytes count as a sequence of one.
func SequenceLength(c byte) int {
	switch {
	case c&0xFE == 0xFC:
		return 6
	case c&0xFC == 0xF8:
		return 5
	case c&0xF8 == 0xF0:
		return 4
	case c&0xF0 == 0xE0:
		return 3
	case c&0xE0 == 0xC0:
		return 2
	}
	return 1
}

// IsContinuation reports whether c is a UTF-8 continuation byte.
func IsContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// IsWordChar reports whether c belongs to a word. Any byte that starts a
// multi-byte sequence counts as a word character.
func IsWordChar(c byte) bool {
	return SequenceLength(c) > 1 ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_'
}

// IsSpace reports whether c is ASCII white space.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsBlank reports whether c is a space or a tab.
func IsBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
