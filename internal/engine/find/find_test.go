package find

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/regex"
)

var errReadOnly = errors.New("read only")

// textHost is a minimal single-cursor editor over ASCII text without tabs,
// where columns equal byte indices.
type textHost struct {
	doc      *buffer.Document
	gen      uint64
	anchor   buffer.Coordinates
	head     buffer.Coordinates
	readOnly bool
}

func newHost(text string) *textHost {
	h := &textHost{doc: buffer.New()}
	h.doc.SetText(text)
	return h
}

func (h *textHost) Document() *buffer.Document { return h.doc }
func (h *textHost) Generation() uint64         { return h.gen }

func (h *textHost) SelectionBounds() (buffer.Range, bool) {
	r := buffer.Range{Start: buffer.MinCoords(h.anchor, h.head), End: buffer.MaxCoords(h.anchor, h.head)}
	return r, r.Start.Before(r.End)
}

func (h *textHost) LastSelection() (buffer.Range, bool) { return h.SelectionBounds() }

func (h *textHost) CursorPosition() buffer.Coordinates { return h.doc.Sanitize(h.head) }

func (h *textHost) Select(start, end buffer.Coordinates) {
	h.anchor, h.head = start, end
}

func (h *textHost) ClearSelections() { h.anchor = h.head }

func (h *textHost) offset(c buffer.Coordinates) int {
	off := 0
	for i := 0; i < c.Line; i++ {
		off += h.doc.LineLen(i) + 1
	}
	return off + c.Column
}

func (h *textHost) ReplaceSelection(text string) error {
	if h.readOnly {
		return errReadOnly
	}
	r, _ := h.SelectionBounds()
	full := h.doc.String()
	s, e := h.offset(r.Start), h.offset(r.End)
	updated := full[:s] + text + full[e:]
	h.doc.SetText(updated)

	before := updated[:s+len(text)]
	line := strings.Count(before, "\n")
	col := len(before) - (strings.LastIndexByte(before, '\n') + 1)
	h.head = buffer.Coordinates{Line: line, Column: col}
	h.anchor = h.head
	h.gen++
	return nil
}

func co(line, col int) buffer.Coordinates {
	return buffer.Coordinates{Line: line, Column: col}
}

func search(t *testing.T, host *textHost, pattern string, opts Options, fopts ...Option) *Finder {
	t.Helper()
	f := New(host, append([]Option{WithOptions(opts)}, fopts...)...)
	f.SetPattern(pattern)
	f.EnsureUpToDate()
	return f
}

func TestLiteralSearch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		opts    Options
		want    []Result
	}{
		{
			name:    "case insensitive",
			text:    "Foo bar foo",
			pattern: "foo",
			want:    []Result{{co(0, 0), co(0, 3)}, {co(0, 8), co(0, 11)}},
		},
		{
			name:    "case sensitive",
			text:    "Foo bar foo",
			pattern: "foo",
			opts:    Options{CaseSensitive: true},
			want:    []Result{{co(0, 8), co(0, 11)}},
		},
		{
			name:    "whole word",
			text:    "foofoo foo",
			pattern: "foo",
			opts:    Options{WholeWord: true},
			want:    []Result{{co(0, 7), co(0, 10)}},
		},
		{
			name:    "non overlapping",
			text:    "aaaa",
			pattern: "aa",
			want:    []Result{{co(0, 0), co(0, 2)}, {co(0, 2), co(0, 4)}},
		},
		{
			name:    "across lines",
			text:    "ab\ncd",
			pattern: "b\nc",
			want:    []Result{{co(0, 1), co(1, 1)}},
		},
		{
			name:    "no match",
			text:    "abc",
			pattern: "x",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := search(t, newHost(tt.text), tt.pattern, tt.opts)
			var got []Result
			got = append(got, f.Results()...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaseFoldingKeepsOffsets(t *testing.T) {
	// The dotted capital I lowers to a shorter sequence under Unicode rules.
	f := search(t, newHost("İx FOO"), "foo", Options{})
	want := []Result{{co(0, 3), co(0, 6)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRegexSearch(t *testing.T) {
	f := search(t, newHost("x1 y22\nz333"), `[0-9]+`, Options{UseRegex: true, WholeWord: true})
	if f.Options().WholeWord {
		t.Error("whole word should be cleared in regex mode")
	}
	want := []Result{{co(0, 1), co(0, 2)}, {co(0, 4), co(0, 6)}, {co(1, 1), co(1, 4)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRegexAnchorsMatchTextBounds(t *testing.T) {
	f := search(t, newHost("ab\nab"), `^a`, Options{UseRegex: true})
	want := []Result{{co(0, 0), co(0, 1)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("^ results mismatch (-want +got):\n%s", diff)
	}

	f = search(t, newHost("ab\nab"), `b$`, Options{UseRegex: true})
	want = []Result{{co(1, 1), co(1, 2)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("$ results mismatch (-want +got):\n%s", diff)
	}
}

func TestRegexSkipsEmptyMatches(t *testing.T) {
	f := search(t, newHost("abc"), `x*`, Options{UseRegex: true})
	if f.Count() != 0 {
		t.Errorf("Count() = %d, want 0", f.Count())
	}
}

func TestRegexEngines(t *testing.T) {
	host := newHost("foo bar")

	f := search(t, host, `(o)\1`, Options{UseRegex: true})
	if msg, _ := f.StatusMessage(); msg != StatusInvalidRegex.Message || f.Count() != 0 {
		t.Errorf("re2 backreference: status %q, count %d", msg, f.Count())
	}

	f = search(t, host, `(o)\1`, Options{UseRegex: true}, WithRegexEngine(regex.ECMA{}))
	want := []Result{{co(0, 1), co(0, 3)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("ecmascript results mismatch (-want +got):\n%s", diff)
	}
}

func TestHighlights(t *testing.T) {
	f := search(t, newHost("xab\ncd\nex"), "b\ncd\ne", Options{})
	if f.Count() != 1 {
		t.Fatalf("Count() = %d", f.Count())
	}
	want := map[int][]Segment{
		0: {{StartColumn: 2, EndColumn: 3, PastLineEnd: true}},
		1: {{StartColumn: 0, EndColumn: 2, PastLineEnd: true}},
		2: {{StartColumn: 0, EndColumn: 1}},
	}
	for line, segs := range want {
		if diff := cmp.Diff(segs, f.Highlights(line)); diff != "" {
			t.Errorf("line %d highlights mismatch (-want +got):\n%s", line, diff)
		}
	}
	if f.Highlights(3) != nil {
		t.Error("unexpected highlight past the last line")
	}
}

func TestFindNext(t *testing.T) {
	host := newHost("x x x")
	f := search(t, host, "x", Options{})

	f.FindNext(false)
	if f.Index() != 1 {
		t.Fatalf("Index() = %d, want 1", f.Index())
	}
	if r, _ := host.SelectionBounds(); r != (buffer.Range{Start: co(0, 2), End: co(0, 3)}) {
		t.Errorf("selection = %v", r)
	}
	f.FindNext(false)
	f.FindNext(false)
	if f.Index() != 0 {
		t.Errorf("Index() after wrap = %d, want 0", f.Index())
	}
	f.FindNext(true)
	if f.Index() != 2 {
		t.Errorf("Index() backwards wrap = %d, want 2", f.Index())
	}
	if f.Counter() != "3/3" {
		t.Errorf("Counter() = %q", f.Counter())
	}
}

func TestFindNextWithoutWrap(t *testing.T) {
	host := newHost("x x")
	f := search(t, host, "x", Options{})
	f.SetWrapAround(false)

	f.FocusResult(1)
	f.FindNext(false)
	if msg, _ := f.StatusMessage(); msg != "Reached end" {
		t.Errorf("status = %q, want Reached end", msg)
	}
	if f.Index() != 1 {
		t.Errorf("Index() = %d, want 1", f.Index())
	}

	f.FocusResult(0)
	f.FindNext(true)
	if msg, _ := f.StatusMessage(); msg != "Reached start" {
		t.Errorf("status = %q, want Reached start", msg)
	}
}

func TestFindNextNoMatches(t *testing.T) {
	f := search(t, newHost("abc"), "z", Options{})
	f.FindNext(false)
	if msg, d := f.StatusMessage(); msg != "No matches" || d != 2500*time.Millisecond {
		t.Errorf("status = %q, %v", msg, d)
	}
}

func TestInitialIndexFollowsCursor(t *testing.T) {
	host := newHost("a a a")
	host.head, host.anchor = co(0, 3), co(0, 3)
	f := search(t, host, "a", Options{})
	if f.Index() != 2 {
		t.Errorf("Index() = %d, want 2", f.Index())
	}

	host.Select(co(0, 2), co(0, 3))
	f.MarkDirty(false)
	f.EnsureUpToDate()
	if f.Index() != 1 {
		t.Errorf("Index() with selection = %d, want 1", f.Index())
	}
}

func TestReplaceAll(t *testing.T) {
	host := newHost("aaa")
	f := search(t, host, "a", Options{})
	f.SetReplacement("bb")

	n, err := f.ReplaceAll()
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ReplaceAll() = %d, want 3", n)
	}
	if got := host.doc.String(); got != "bbbbbb" {
		t.Errorf("text = %q, want bbbbbb", got)
	}
	if msg, _ := f.StatusMessage(); msg != "Replaced 3 matches" {
		t.Errorf("status = %q", msg)
	}
	if f.Count() != 0 || f.Index() != -1 {
		t.Errorf("Count() = %d, Index() = %d after replacing everything", f.Count(), f.Index())
	}
}

func TestReplaceAllSkipsReplacedText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		pattern     string
		replacement string
		regex       bool
		want        string
		wantN       int
	}{
		{"replacement contains pattern", "aaa", "a", "ba", false, "bababa", 3},
		{"replacement ends with pattern", "a", "a", "ab", false, "ab", 1},
		{"match spans into replacement", "abb", "ab", "a", false, "ab", 1},
		{"regex doubling", "axbx", "x+", "xx", true, "axxbxx", 2},
		{"regex with empty matches", "aab", "a*", "aa", true, "aab", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newHost(tt.text)
			f := search(t, host, tt.pattern, Options{UseRegex: tt.regex})
			f.SetReplacement(tt.replacement)

			n, err := f.ReplaceAll()
			if err != nil {
				t.Fatalf("ReplaceAll() error = %v", err)
			}
			if n != tt.wantN {
				t.Errorf("ReplaceAll() = %d, want %d", n, tt.wantN)
			}
			if got := host.doc.String(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceAllInSelection(t *testing.T) {
	host := newHost("aaa aaa")
	host.Select(co(0, 0), co(0, 3))
	f := New(host)
	if !f.SetSelectionOnly(true) {
		t.Fatal("SetSelectionOnly() = false")
	}
	f.SetPattern("a")
	f.SetReplacement("bb")

	n, err := f.ReplaceAll()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ReplaceAll() = %d, want 3", n)
	}
	if got := host.doc.String(); got != "bbbbbb aaa" {
		t.Errorf("text = %q", got)
	}
}

func TestReplaceCurrent(t *testing.T) {
	host := newHost("one two one")
	f := search(t, host, "one", Options{})
	f.SetReplacement("1")

	if f.Index() != 0 {
		t.Fatalf("Index() = %d", f.Index())
	}
	if err := f.ReplaceCurrent(); err != nil {
		t.Fatal(err)
	}
	if got := host.doc.String(); got != "1 two one" {
		t.Errorf("text = %q", got)
	}
	if f.Count() != 1 || f.Index() != 0 {
		t.Errorf("Count() = %d, Index() = %d", f.Count(), f.Index())
	}
	if r, _ := host.SelectionBounds(); r != (buffer.Range{Start: co(0, 6), End: co(0, 9)}) {
		t.Errorf("next result not selected: %v", r)
	}
	if msg, _ := f.StatusMessage(); msg != "Replaced" {
		t.Errorf("status = %q", msg)
	}
}

func TestReplaceErrors(t *testing.T) {
	host := newHost("abc")
	host.readOnly = true
	f := New(host)

	if err := f.ReplaceCurrent(); err != nil {
		t.Errorf("ReplaceCurrent() without pattern error = %v", err)
	}
	if msg, _ := f.StatusMessage(); msg != "Nothing to replace" {
		t.Errorf("status = %q", msg)
	}

	f.SetPattern("b")
	if err := f.ReplaceCurrent(); !errors.Is(err, errReadOnly) {
		t.Errorf("ReplaceCurrent() error = %v, want read only", err)
	}
	if _, err := f.ReplaceAll(); !errors.Is(err, errReadOnly) {
		t.Errorf("ReplaceAll() error = %v, want read only", err)
	}
	if host.doc.String() != "abc" {
		t.Errorf("text changed to %q", host.doc.String())
	}
}

func TestSelectionOnly(t *testing.T) {
	host := newHost("foo foo foo")
	f := New(host)

	if f.SetSelectionOnly(true) {
		t.Fatal("SetSelectionOnly(true) without selection should fail")
	}
	if msg, _ := f.StatusMessage(); msg != "Select text to limit search" {
		t.Errorf("status = %q", msg)
	}

	host.Select(co(0, 4), co(0, 11))
	if !f.SetSelectionOnly(true) {
		t.Fatal("SetSelectionOnly(true) = false")
	}
	f.SetPattern("foo")
	f.EnsureUpToDate()
	want := []Result{{co(0, 4), co(0, 7)}, {co(0, 8), co(0, 11)}}
	if diff := cmp.Diff(want, f.Results()); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	// The remembered range survives losing the selection.
	host.ClearSelections()
	f.MarkDirty(false)
	f.EnsureUpToDate()
	if f.Count() != 2 {
		t.Errorf("Count() after clearing selection = %d, want 2", f.Count())
	}

	f.SetSelectionOnly(false)
	f.EnsureUpToDate()
	if f.Count() != 3 {
		t.Errorf("Count() = %d, want 3", f.Count())
	}
}

func TestDeferredRefresh(t *testing.T) {
	host := newHost("abc abc")
	f := New(host, WithRefreshDelay(120*time.Millisecond))
	f.SetPattern("abc")

	f.Tick(50 * time.Millisecond)
	if !f.RefreshPending() || f.Count() != 0 {
		t.Fatalf("refresh ran early: pending %v, count %d", f.RefreshPending(), f.Count())
	}

	// Typing again restarts the countdown.
	f.SetPattern("ab")
	f.Tick(100 * time.Millisecond)
	if f.Count() != 0 {
		t.Fatal("countdown was not restarted")
	}

	f.Tick(30 * time.Millisecond)
	if f.RefreshPending() || f.Count() != 2 {
		t.Errorf("after delay: pending %v, count %d", f.RefreshPending(), f.Count())
	}
}

func TestGenerationTriggersRefresh(t *testing.T) {
	host := newHost("abc")
	f := search(t, host, "abc", Options{})

	host.Select(co(0, 0), co(0, 0))
	_ = host.ReplaceSelection("abc ")
	if !f.Dirty() {
		t.Error("Dirty() = false after the document changed")
	}
	f.Tick(time.Millisecond)
	if f.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.Count())
	}
}

func TestStatusCountdown(t *testing.T) {
	f := search(t, newHost("abc"), "(", Options{UseRegex: true})
	if msg, d := f.StatusMessage(); msg != "Invalid regex" || d != 3*time.Second {
		t.Fatalf("status = %q, %v", msg, d)
	}
	f.Tick(2 * time.Second)
	if msg, _ := f.StatusMessage(); msg == "" {
		t.Error("status cleared too early")
	}
	f.Tick(time.Second)
	if msg, _ := f.StatusMessage(); msg != "" {
		t.Errorf("status = %q, want cleared", msg)
	}
}

func TestEmptyPatternClearsResults(t *testing.T) {
	f := search(t, newHost("abc"), "b", Options{})
	if f.Count() != 1 {
		t.Fatal("expected a result")
	}
	f.SetPattern("")
	f.EnsureUpToDate()
	if f.Count() != 0 || f.Index() != -1 || f.Highlights(0) != nil {
		t.Error("results not cleared for empty pattern")
	}
}
