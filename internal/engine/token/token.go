// Package token defines the style classes assigned to glyphs by the colorizer.
package token

import "strings"

// Class is the style class of a glyph. The numeric values index palettes,
// so the order of the constants is part of the palette layout.
type Class uint8

// Style classes produced by token classification.
const (
	Default Class = iota
	Keyword
	Number
	String
	CharLiteral
	Punctuation
	Preprocessor
	Identifier
	KnownIdentifier
	PreprocIdentifier
	Comment
	MultiLineComment

	// Count is the number of syntax classes.
	Count
)

var classNames = [Count]string{
	Default:           "default",
	Keyword:           "keyword",
	Number:            "number",
	String:            "string",
	CharLiteral:       "char",
	Punctuation:       "punctuation",
	Preprocessor:      "preprocessor",
	Identifier:        "identifier",
	KnownIdentifier:   "known-identifier",
	PreprocIdentifier: "preproc-identifier",
	Comment:           "comment",
	MultiLineComment:  "multiline-comment",
}

// String returns the name of the class.
func (c Class) String() string {
	if c < Count {
		return classNames[c]
	}
	return "unknown"
}

// IsComment reports whether the class is one of the comment classes.
func (c Class) IsComment() bool {
	return c == Comment || c == MultiLineComment
}

// Parse converts a class name into a Class. Underscores and hyphens are
// interchangeable and matching ignores case.
func Parse(name string) (Class, bool) {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	switch name {
	case "char-literal", "character":
		return CharLiteral, true
	case "known", "known-ident":
		return KnownIdentifier, true
	case "multi-line-comment", "block-comment":
		return MultiLineComment, true
	}
	for i, n := range classNames {
		if n == name {
			return Class(i), true
		}
	}
	return Default, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so classes can be
// written by name in TOML and YAML files.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return &UnknownClassError{Name: string(text)}
	}
	*c = parsed
	return nil
}

// UnknownClassError is returned when a class name cannot be parsed.
type UnknownClassError struct {
	Name string
}

func (e *UnknownClassError) Error() string {
	return "token: unknown class " + `"` + e.Name + `"`
}
