package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/codepad/internal/clipboard"
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/colorize"
	"github.com/dshills/codepad/internal/engine/cursor"
	"github.com/dshills/codepad/internal/engine/find"
	"github.com/dshills/codepad/internal/engine/history"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/logging"
	"github.com/dshills/codepad/internal/palette"
	"github.com/dshills/codepad/internal/regex"
)

// Re-export commonly used types for convenience.
type (
	// Coordinates is a (line, display column) position.
	Coordinates = buffer.Coordinates

	// Range is a span of coordinates.
	Range = buffer.Range

	// Cursor is an anchor and head pair.
	Cursor = cursor.Cursor
)

// Engine is the editing engine of one code editor. It owns the document,
// the cursors, the undo history, the colorizer and the search state.
//
// An Engine is not safe for concurrent use. The host calls it from one
// goroutine and drives background work through Tick.
type Engine struct {
	id     uuid.UUID
	logger *logging.Logger

	// Core components
	doc       *buffer.Document
	cursors   *cursor.Set
	history   *history.History
	colorizer *colorize.Colorizer
	finder    *find.Finder
	clipboard clipboard.Clipboard
	palette   *palette.Palette

	tracker      cursor.LineTracker
	generation   uint64
	cursorsDirty bool

	bracket      Coordinates
	bracketValid bool

	extraWords lang.Set

	// Configuration
	tabSize          int
	readOnly         bool
	autoIndent       bool
	maxUndoEntries   int
	language         *lang.Definition
	regexEngine      regex.Engine
	findRefreshDelay time.Duration
	findOptions      find.Options
	colorizeStep     int

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:               uuid.New(),
		logger:           logging.Default(),
		clipboard:        clipboard.NewMemory(),
		palette:          palette.Dark(),
		tabSize:          buffer.DefaultTabSize,
		autoIndent:       true,
		maxUndoEntries:   history.DefaultMaxEntries,
		regexEngine:      regex.Std{},
		findRefreshDelay: find.DefaultRefreshDelay,
		findOptions:      find.Options{WrapAround: true},
		colorizeStep:     colorize.DefaultLinesPerStep,
		extraWords:       lang.Set{},
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.WithComponent("engine").WithField("editor", e.id.String())
	e.doc = buffer.New(buffer.WithTabSize(e.tabSize), buffer.WithListener(e))
	e.cursors = cursor.NewSet()
	e.history = history.New(e.maxUndoEntries)
	e.colorizer = colorize.New(e.doc,
		colorize.WithRegexEngine(e.regexEngine),
		colorize.WithLinesPerStep(e.colorizeStep),
	)
	e.finder = find.New(e,
		find.WithRegexEngine(e.regexEngine),
		find.WithRefreshDelay(e.findRefreshDelay),
		find.WithLogger(e.logger),
		find.WithOptions(e.findOptions),
	)

	if e.language != nil {
		_ = e.SetLanguage(e.language)
	}
	if e.initContent != "" {
		e.SetText(e.initContent)
	}
	return e
}

// ID returns the instance id used in log fields.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *logging.Logger {
	return e.logger
}

// ============================================================================
// Configuration
// ============================================================================

// TabSize returns the tab size.
func (e *Engine) TabSize() int {
	return e.doc.TabSize()
}

// SetTabSize changes the tab size, clamped to 1..8. Cursors are pulled out
// of tab interiors.
func (e *Engine) SetTabSize(size int) {
	if buffer.ClampTabSize(size) == e.doc.TabSize() {
		return
	}
	e.doc.SetTabSize(size)
	for i, c := range e.cursors.All() {
		e.cursors.Put(i, cursor.Span(e.doc.Sanitize(c.Start), e.doc.Sanitize(c.End)))
	}
	e.cursorsChanged()
	e.finder.MarkDirty(false)
}

// ReadOnly reports whether editing commands are refused.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}

// SetReadOnly enables or disables read-only mode.
func (e *Engine) SetReadOnly(on bool) {
	e.readOnly = on
}

// AutoIndent reports whether new lines copy the indentation of the line
// they were split from.
func (e *Engine) AutoIndent() bool {
	return e.autoIndent
}

// SetAutoIndent enables or disables auto-indentation.
func (e *Engine) SetAutoIndent(on bool) {
	e.autoIndent = on
}

// ============================================================================
// Text Access
// ============================================================================

// SetText replaces the whole text. Carriage returns are dropped. The undo
// history is cleared and the text is recolored from the top.
func (e *Engine) SetText(text string) {
	e.doc.SetText(text)
	e.reset()
}

// SetTextLines replaces the whole text with the given lines.
func (e *Engine) SetTextLines(lines []string) {
	clean := make([]string, len(lines))
	for i, l := range lines {
		clean[i] = strings.ReplaceAll(l, "\r", "")
	}
	e.doc.SetLines(clean)
	e.reset()
}

func (e *Engine) reset() {
	e.generation++
	e.cursors.Reset(Coordinates{})
	e.history.Clear()
	e.colorizer.Invalidate(0, -1)
	e.finder.MarkDirty(false)
	e.cursorsChanged()
	e.logger.Debug("text replaced, %d lines", e.doc.LineCount())
}

// Text returns the whole text joined with line feeds.
func (e *Engine) Text() string {
	return e.doc.String()
}

// TextLines returns the text of every line.
func (e *Engine) TextLines() []string {
	return e.doc.Lines()
}

// TextRange returns the text between two positions.
func (e *Engine) TextRange(start, end Coordinates) string {
	return e.doc.Text(e.doc.Sanitize(start), e.doc.Sanitize(end))
}

// SelectedText returns the text selected by cursor i. A negative index
// selects the current cursor.
func (e *Engine) SelectedText(i int) string {
	c := e.cursors.Get(i)
	return e.TextRange(c.SelectionStart(), c.SelectionEnd())
}

// ClipboardText returns the selections of every cursor joined by line
// feeds, in cursor order.
func (e *Engine) ClipboardText() string {
	var sb strings.Builder
	for _, c := range e.cursors.All() {
		if !c.HasSelection() {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.TextRange(c.SelectionStart(), c.SelectionEnd()))
	}
	return sb.String()
}

// LineCount returns the number of lines. It is always at least one.
func (e *Engine) LineCount() int {
	return e.doc.LineCount()
}

// Line returns the glyphs of line i, or nil if i is out of range. The
// slice aliases the document and must not be modified.
func (e *Engine) Line(i int) buffer.Line {
	return e.doc.Line(i)
}

// LineText returns the text of line i.
func (e *Engine) LineText(i int) string {
	return e.doc.LineString(i)
}

// LineMaxColumn returns the display width of line i.
func (e *Engine) LineMaxColumn(i int) int {
	return e.doc.LineMaxColumn(i)
}

// Sanitize clamps c into the document and pulls it out of tab interiors.
func (e *Engine) Sanitize(c Coordinates) Coordinates {
	return e.doc.Sanitize(c)
}

// ============================================================================
// Document Listener
// ============================================================================

// LinesInserted shifts cursors below the inserted lines.
func (e *Engine) LinesInserted(index, count int) {
	e.cursors.ShiftLines(index, count, nil)
	// Pending lines below the insertion moved down with it.
	if _, hi := e.colorizer.DirtyRange(); hi > index {
		e.colorizer.Invalidate(index, hi-index+count)
	}
	e.colorizer.Invalidate(index-1, count+2)
	e.cursorsDirty = true
}

// LinesRemoved shifts cursors below the removed lines.
func (e *Engine) LinesRemoved(start, end int) {
	e.cursors.ShiftLines(start, start-end, nil)
	e.colorizer.Invalidate(start-1, 2)
	e.cursorsDirty = true
}

// GlyphsChanging records the cursors that must follow a splice.
func (e *Engine) GlyphsChanging(line, column, count int, deleted bool) {
	e.tracker.Before(e.cursors, e.doc, line, column, count, deleted)
}

// GlyphsChanged moves the cursors recorded by GlyphsChanging.
func (e *Engine) GlyphsChanged(line int) {
	if e.tracker.After(e.cursors, e.doc) {
		e.cursorsDirty = true
	}
	e.colorizer.Invalidate(line-1, 3)
}

// ============================================================================
// Host Loop
// ============================================================================

// Tick performs deferred work: it sorts and merges cursors moved by edits,
// classifies one chunk of dirty lines, advances the search refresh and
// counts down the search status message.
func (e *Engine) Tick(dt time.Duration) {
	if e.cursorsDirty {
		e.cursorsChanged()
	}
	e.colorizer.Step()
	e.finder.Tick(dt)
}

// Colorizing reports whether coloring work is still pending.
func (e *Engine) Colorizing() bool {
	return e.colorizer.Pending()
}

// FlushColors completes all pending coloring work.
func (e *Engine) FlushColors() {
	e.colorizer.Run()
}
