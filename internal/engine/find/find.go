package find

import (
	"time"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/logging"
	"github.com/dshills/codepad/internal/regex"
)

// DefaultRefreshDelay is how long a deferred refresh waits for more edits.
const DefaultRefreshDelay = 120 * time.Millisecond

// Host is the editor a Finder searches and edits.
type Host interface {
	// Document returns the searched document.
	Document() *buffer.Document

	// Generation changes whenever the document text changes.
	Generation() uint64

	// SelectionBounds returns the range covering every selection.
	SelectionBounds() (buffer.Range, bool)

	// LastSelection returns the selection of the most recently added
	// cursor, if any cursor selects text.
	LastSelection() (buffer.Range, bool)

	// CursorPosition returns the sanitized head of the current cursor.
	CursorPosition() buffer.Coordinates

	// Select collapses the editor to a single cursor selecting [start, end).
	Select(start, end buffer.Coordinates)

	// ClearSelections collapses every selection to its end.
	ClearSelections()

	// ReplaceSelection replaces the current selection with text as one
	// undoable edit.
	ReplaceSelection(text string) error
}

// Options control how the pattern is matched.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	UseRegex      bool
	WrapAround    bool
	SelectionOnly bool
}

// Result is one match.
type Result struct {
	Start buffer.Coordinates
	End   buffer.Coordinates
}

// Segment is the part of a result drawn on one line.
type Segment struct {
	StartColumn int
	EndColumn   int
	// PastLineEnd is set when the result continues on the next line.
	PastLineEnd bool
	// Result is the index of the result the segment belongs to.
	Result int
}

// Finder holds the search state of one editor.
type Finder struct {
	host   Host
	engine regex.Engine
	logger *logging.Logger

	pattern     string
	replacement string
	opts        Options

	results    []Result
	highlights map[int][]Segment
	index      int

	dirty          bool
	refreshPending bool
	refreshTimer   time.Duration
	refreshDelay   time.Duration
	generation     uint64
	refreshed      bool

	selRange      buffer.Range
	selRangeValid bool

	status      string
	statusTimer time.Duration

	compiled    regex.Regexp
	compiledKey string

	text    []byte
	offsets []int
}

// Option configures a Finder.
type Option func(*Finder)

// WithRegexEngine sets the engine used in regex mode.
func WithRegexEngine(e regex.Engine) Option {
	return func(f *Finder) {
		if e != nil {
			f.engine = e
		}
	}
}

// WithRefreshDelay sets the deferred refresh delay.
func WithRefreshDelay(d time.Duration) Option {
	return func(f *Finder) {
		if d >= 0 {
			f.refreshDelay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithOptions sets the initial match options.
func WithOptions(o Options) Option {
	return func(f *Finder) {
		f.opts = o
		if o.UseRegex {
			f.opts.WholeWord = false
		}
		f.opts.SelectionOnly = false
	}
}

// New creates a Finder for host.
func New(host Host, opts ...Option) *Finder {
	f := &Finder{
		host:         host,
		engine:       regex.Std{},
		logger:       logging.NullLogger,
		highlights:   make(map[int][]Segment),
		index:        -1,
		refreshDelay: DefaultRefreshDelay,
		opts:         Options{WrapAround: true},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Pattern returns the search pattern.
func (f *Finder) Pattern() string {
	return f.pattern
}

// SetPattern changes the search pattern. The refresh is deferred so typing
// a pattern does not search on every keystroke.
func (f *Finder) SetPattern(p string) {
	if p == f.pattern {
		return
	}
	f.pattern = p
	f.MarkDirty(true)
}

// HasPattern reports whether a non-empty pattern is set.
func (f *Finder) HasPattern() bool {
	return f.pattern != ""
}

// Replacement returns the replacement text.
func (f *Finder) Replacement() string {
	return f.replacement
}

// SetReplacement sets the replacement text.
func (f *Finder) SetReplacement(r string) {
	f.replacement = r
}

// Options returns the match options.
func (f *Finder) Options() Options {
	return f.opts
}

// SetCaseSensitive toggles case-sensitive matching.
func (f *Finder) SetCaseSensitive(on bool) {
	if f.opts.CaseSensitive != on {
		f.opts.CaseSensitive = on
		f.MarkDirty(false)
	}
}

// SetWholeWord toggles whole-word matching. It has no effect in regex
// mode, where word boundaries belong in the pattern.
func (f *Finder) SetWholeWord(on bool) {
	if f.opts.UseRegex {
		on = false
	}
	if f.opts.WholeWord != on {
		f.opts.WholeWord = on
		f.MarkDirty(false)
	}
}

// SetUseRegex toggles regex mode. Enabling it clears whole-word matching.
func (f *Finder) SetUseRegex(on bool) {
	if f.opts.UseRegex == on {
		return
	}
	f.opts.UseRegex = on
	if on {
		f.opts.WholeWord = false
	}
	f.MarkDirty(false)
}

// SetWrapAround toggles wrapping in FindNext.
func (f *Finder) SetWrapAround(on bool) {
	if f.opts.WrapAround != on {
		f.opts.WrapAround = on
		f.MarkDirty(false)
	}
}

// SetSelectionOnly limits the search to the current selection. Enabling it
// without a selection fails, sets a status message and returns false.
func (f *Finder) SetSelectionOnly(on bool) bool {
	if on == f.opts.SelectionOnly {
		return true
	}
	defer f.MarkDirty(false)
	if !on {
		f.opts.SelectionOnly = false
		f.selRangeValid = false
		return true
	}
	r, ok := f.host.SelectionBounds()
	if !ok {
		f.selRangeValid = false
		f.setStatus(StatusSelectText)
		return false
	}
	f.opts.SelectionOnly = true
	f.selRange = r
	f.selRangeValid = true
	return true
}

// SetRegexEngine replaces the regex engine.
func (f *Finder) SetRegexEngine(e regex.Engine) {
	if e == nil {
		return
	}
	f.engine = e
	f.compiled = nil
	f.compiledKey = ""
	f.MarkDirty(false)
}

// MarkDirty invalidates the results. With defer set the refresh waits for
// the refresh delay, restarting the countdown if one is already running.
func (f *Finder) MarkDirty(deferRefresh bool) {
	f.dirty = true
	if deferRefresh {
		f.refreshPending = true
		f.refreshTimer = f.refreshDelay
	} else {
		f.refreshPending = false
		f.refreshTimer = 0
	}
}

// Dirty reports whether the results are out of date.
func (f *Finder) Dirty() bool {
	return f.dirty || f.generation != f.host.Generation()
}

// RefreshPending reports whether a deferred refresh is counting down.
func (f *Finder) RefreshPending() bool {
	return f.refreshPending
}

// Tick advances the deferred refresh and the status message countdown by
// dt. Without a pending refresh the results are brought up to date.
func (f *Finder) Tick(dt time.Duration) {
	updated := false
	if f.refreshPending {
		f.refreshTimer = max(0, f.refreshTimer-dt)
		if f.refreshTimer <= 0 {
			f.refreshPending = false
			f.EnsureUpToDate()
			updated = true
		}
	}
	if !f.refreshPending && !updated {
		f.refreshTimer = 0
		f.EnsureUpToDate()
	}

	if f.statusTimer > 0 {
		f.statusTimer = max(0, f.statusTimer-dt)
		if f.statusTimer == 0 {
			f.status = ""
		}
	}
}

// EnsureUpToDate refreshes the results if the pattern, options or document
// changed since the last refresh.
func (f *Finder) EnsureUpToDate() {
	if !f.HasPattern() {
		if len(f.results) > 0 {
			f.results = f.results[:0]
			clear(f.highlights)
			f.index = -1
		}
		f.dirty = false
		return
	}
	if f.dirty || !f.refreshed || f.generation != f.host.Generation() {
		f.Refresh(true)
	}
}

// Results returns the current results. The slice is owned by the Finder.
func (f *Finder) Results() []Result {
	return f.results
}

// Count returns the number of results.
func (f *Finder) Count() int {
	return len(f.results)
}

// Index returns the index of the active result, or -1.
func (f *Finder) Index() int {
	return f.index
}

// Highlights returns the highlight segments on line, or nil.
func (f *Finder) Highlights(line int) []Segment {
	if !f.HasPattern() {
		return nil
	}
	return f.highlights[line]
}

// SelectionRange returns the remembered selection a selection-only search
// is limited to.
func (f *Finder) SelectionRange() (buffer.Range, bool) {
	return f.selRange, f.selRangeValid
}
