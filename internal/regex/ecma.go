package regex

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single ECMAScript match so a pathological
// backtracking pattern cannot stall the editor.
const MatchTimeout = 250 * time.Millisecond

// ECMA compiles patterns with regexp2 in ECMAScript mode.
type ECMA struct{}

// Name returns the engine name.
func (ECMA) Name() string { return NameECMAScript }

// Compile compiles pattern with flags.
func (ECMA) Compile(pattern string, flags Flags) (Regexp, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if flags&IgnoreCase != 0 {
		opts |= regexp2.IgnoreCase
	}
	if flags&MultiLine != 0 {
		opts |= regexp2.Multiline
	}

	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	head, err := regexp2.Compile(anchored(pattern), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	re.MatchTimeout = MatchTimeout
	head.MatchTimeout = MatchTimeout
	return &ecmaRegexp{pattern: pattern, re: re, head: head}, nil
}

type ecmaRegexp struct {
	pattern string
	re      *regexp2.Regexp
	head    *regexp2.Regexp
}

func (r *ecmaRegexp) FindAll(s string, start, end int) []Match {
	start, end = clampRange(s, start, end)
	sub := s[start:end]
	offsets := runeOffsets(sub)

	var out []Match
	m, err := r.re.FindStringMatch(sub)
	for m != nil && err == nil {
		out = append(out, Match{
			Start: start + offsets[m.Index],
			End:   start + offsets[m.Index+m.Length],
		})
		m, err = r.re.FindNextMatch(m)
	}
	return out
}

func (r *ecmaRegexp) MatchPrefix(s string) (int, bool) {
	m, err := r.head.FindStringMatch(s)
	if err != nil || m == nil || m.Index != 0 {
		return 0, false
	}
	return runePrefixLen(s, m.Length), true
}

func (r *ecmaRegexp) String() string {
	return r.pattern
}

// runePrefixLen returns the byte length of the first n runes of s.
func runePrefixLen(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// runeOffsets maps rune indices of s to byte offsets, with one extra entry
// for len(s). regexp2 decodes invalid bytes to one rune each, as range does.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
