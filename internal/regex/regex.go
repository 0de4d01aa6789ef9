// Package regex abstracts the regular expression engine used by search and
// syntax coloring.
//
// Two engines are provided: Std wraps the standard library's RE2 engine and
// ECMA wraps github.com/dlclark/regexp2 in ECMAScript mode, which adds
// backtracking features such as lookaround and backreferences. Callers
// depend only on the Engine and Regexp interfaces.
//
// All offsets are byte offsets into the searched string.
package regex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is returned when a pattern fails to compile.
var ErrInvalidPattern = errors.New("regex: invalid pattern")

// ErrUnknownEngine is returned by ByName for an unsupported engine name.
var ErrUnknownEngine = errors.New("regex: unknown engine")

// Flags modify how a pattern is compiled.
type Flags uint8

const (
	// IgnoreCase makes matching case-insensitive.
	IgnoreCase Flags = 1 << iota
	// MultiLine makes ^ and $ match at line breaks.
	MultiLine
)

// Match is a half-open byte range [Start, End).
type Match struct {
	Start int
	End   int
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Regexp is a compiled pattern.
type Regexp interface {
	// FindAll returns every non-overlapping match inside s[start:end], in
	// order. Offsets are relative to s.
	FindAll(s string, start, end int) []Match

	// MatchPrefix reports the length of the match anchored at the start of
	// s, if any.
	MatchPrefix(s string) (int, bool)

	// String returns the source pattern.
	String() string
}

// Engine compiles patterns.
type Engine interface {
	Compile(pattern string, flags Flags) (Regexp, error)
	Name() string
}

// Engine names accepted by ByName.
const (
	NameRE2        = "re2"
	NameECMAScript = "ecmascript"
)

// ByName returns the engine with the given name. An empty name selects the
// standard library engine.
func ByName(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameRE2, "std":
		return Std{}, nil
	case NameECMAScript, "ecma", "js":
		return ECMA{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
}

// anchored wraps pattern so it only matches at the start of the input.
func anchored(pattern string) string {
	return `^(?:` + pattern + `)`
}

func clampRange(s string, start, end int) (int, int) {
	start = min(max(start, 0), len(s))
	end = min(max(end, start), len(s))
	return start, end
}
