// Package lang describes programming languages for syntax coloring.
//
// A Definition carries keyword sets, comment delimiters, an ordered list of
// token rules and an optional Tokenizer. Definitions are plain values: each
// editor holds its own reference and nothing here is process-global except
// the embedded builtin files.
package lang

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/codepad/internal/engine/token"
)

// Rule classifies text matching Pattern as Class. Rules are tried in order
// and must match at the current position.
type Rule struct {
	Pattern string      `toml:"pattern" yaml:"pattern"`
	Class   token.Class `toml:"class" yaml:"class"`
}

// Tokenizer finds the next token in text. Start and end are byte offsets
// into text; start may skip leading blanks. A false ok means the tokenizer
// has no opinion and the rules should be tried instead.
type Tokenizer interface {
	Tokenize(text string) (start, end int, class token.Class, ok bool)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) (int, int, token.Class, bool)

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) (int, int, token.Class, bool) {
	return f(text)
}

// Set is a set of words.
type Set map[string]struct{}

// NewSet builds a set from words.
func NewSet(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports whether w is in the set.
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Sorted returns the words in the set in order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// Definition describes one language.
type Definition struct {
	Name string

	Keywords           Set
	Identifiers        Set
	PreprocIdentifiers Set

	SingleLineComment string
	CommentStart      string
	CommentEnd        string
	PreprocChar       byte

	// CaseSensitive false means identifiers are compared after folding to
	// upper case; the word sets are stored folded.
	CaseSensitive bool

	Rules     []Rule
	Tokenizer Tokenizer

	// Extensions lists file name extensions, with the dot, that select
	// this language.
	Extensions []string

	// Source is the file the definition was loaded from, if any.
	Source string
}

// Fold returns the form of an identifier used for set lookups.
func (d *Definition) Fold(id string) string {
	if d.CaseSensitive {
		return id
	}
	return fold(id)
}

func fold(s string) string {
	// A Caser keeps state between calls so each call gets its own.
	return cases.Upper(language.Und).String(s)
}

// Classify promotes an identifier to a keyword class. Inside preprocessor
// lines only preprocessor identifiers are promoted.
func (d *Definition) Classify(id string, preprocessor bool) token.Class {
	id = d.Fold(id)
	if preprocessor {
		if d.PreprocIdentifiers.Has(id) {
			return token.PreprocIdentifier
		}
		return token.Identifier
	}
	switch {
	case d.Keywords.Has(id):
		return token.Keyword
	case d.Identifiers.Has(id):
		return token.KnownIdentifier
	case d.PreprocIdentifiers.Has(id):
		return token.PreprocIdentifier
	}
	return token.Identifier
}

// Words returns the completion vocabulary: keywords and known identifiers
// as written in the definition, sorted.
func (d *Definition) Words() []string {
	out := d.Keywords.Sorted()
	for _, w := range d.Identifiers.Sorted() {
		if !d.Keywords.Has(w) {
			out = append(out, w)
		}
	}
	return out
}

// normalize folds the word sets of a case-insensitive definition and fills
// nil sets.
func (d *Definition) normalize() {
	for _, s := range []*Set{&d.Keywords, &d.Identifiers, &d.PreprocIdentifiers} {
		if *s == nil {
			*s = Set{}
		}
		if d.CaseSensitive {
			continue
		}
		folded := make(Set, len(*s))
		for w := range *s {
			folded[fold(w)] = struct{}{}
		}
		*s = folded
	}
}

// HasComments reports whether the definition declares any comment syntax.
func (d *Definition) HasComments() bool {
	return d.SingleLineComment != "" || d.CommentStart != ""
}

// Key returns the lookup key for a language name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
