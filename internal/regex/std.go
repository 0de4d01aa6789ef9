package regex

import (
	"fmt"
	"regexp"
)

// Std compiles patterns with the standard library RE2 engine.
type Std struct{}

// Name returns the engine name.
func (Std) Name() string { return NameRE2 }

// Compile compiles pattern with flags.
func (Std) Compile(pattern string, flags Flags) (Regexp, error) {
	prefix := ""
	if flags&IgnoreCase != 0 {
		prefix += "i"
	}
	if flags&MultiLine != 0 {
		prefix += "m"
	}
	src := pattern
	if prefix != "" {
		src = "(?" + prefix + ")" + pattern
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	head, err := regexp.Compile(anchored(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &stdRegexp{pattern: pattern, re: re, head: head}, nil
}

type stdRegexp struct {
	pattern string
	re      *regexp.Regexp
	head    *regexp.Regexp
}

func (r *stdRegexp) FindAll(s string, start, end int) []Match {
	start, end = clampRange(s, start, end)
	locs := r.re.FindAllStringIndex(s[start:end], -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, len(locs))
	for i, loc := range locs {
		out[i] = Match{Start: start + loc[0], End: start + loc[1]}
	}
	return out
}

func (r *stdRegexp) MatchPrefix(s string) (int, bool) {
	loc := r.head.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

func (r *stdRegexp) String() string {
	return r.pattern
}
