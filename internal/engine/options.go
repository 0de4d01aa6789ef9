package engine

import (
	"fmt"
	"time"

	"github.com/dshills/codepad/internal/clipboard"
	"github.com/dshills/codepad/internal/config"
	"github.com/dshills/codepad/internal/engine/find"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/logging"
	"github.com/dshills/codepad/internal/palette"
	"github.com/dshills/codepad/internal/regex"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithTabSize sets the tab size. It is clamped to 1..8.
func WithTabSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.tabSize = size
		}
	}
}

// WithReadOnly creates a read-only engine.
// Editing commands will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithAutoIndent controls whether a new line copies the leading blanks of
// the line it was split from.
func WithAutoIndent(on bool) Option {
	return func(e *Engine) {
		e.autoIndent = on
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithLogger sets the parent logger. The engine tags it with its component
// and instance id.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClipboard sets the clipboard used by Cut, Copy and Paste.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(e *Engine) {
		if c != nil {
			e.clipboard = c
		}
	}
}

// WithLanguage sets the language used for coloring and comments.
func WithLanguage(def *lang.Definition) Option {
	return func(e *Engine) {
		e.language = def
	}
}

// WithPalette sets the color palette.
func WithPalette(p *palette.Palette) Option {
	return func(e *Engine) {
		if p != nil {
			e.palette = p
		}
	}
}

// WithRegexEngine sets the regex engine used by the colorizer rules and by
// regex search.
func WithRegexEngine(r regex.Engine) Option {
	return func(e *Engine) {
		if r != nil {
			e.regexEngine = r
		}
	}
}

// WithFindRefreshDelay sets how long search results wait after an edit
// before they are recomputed.
func WithFindRefreshDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.findRefreshDelay = d
		}
	}
}

// WithFindOptions sets the initial search options.
func WithFindOptions(o find.Options) Option {
	return func(e *Engine) {
		e.findOptions = o
	}
}

// WithColorizeStep sets how many lines the colorizer classifies per Tick.
func WithColorizeStep(lines int) Option {
	return func(e *Engine) {
		if lines > 0 {
			e.colorizeStep = lines
		}
	}
}

// FromConfig maps a configuration to engine options. The editor language is
// looked up in langs; it is an error if the name is set but unknown.
func FromConfig(cfg *config.Config, langs *lang.Registry) ([]Option, error) {
	opts := []Option{
		WithTabSize(cfg.Editor.TabSize),
		WithAutoIndent(cfg.Editor.AutoIndent),
		WithMaxUndoEntries(cfg.Editor.MaxUndoEntries),
		WithPalette(cfg.Palette()),
		WithRegexEngine(cfg.RegexEngine()),
		WithFindRefreshDelay(cfg.RefreshDelay()),
		WithColorizeStep(cfg.Colorize.LinesPerStep),
		WithFindOptions(find.Options{
			CaseSensitive: cfg.Find.CaseSensitive,
			WholeWord:     cfg.Find.WholeWord,
			UseRegex:      cfg.Find.UseRegex,
			WrapAround:    cfg.Find.WrapAround,
		}),
	}
	if cfg.Editor.ReadOnly {
		opts = append(opts, WithReadOnly())
	}
	if cfg.Editor.Language != "" {
		if langs == nil {
			return nil, fmt.Errorf("language %q: %w", cfg.Editor.Language, lang.ErrUnknownLanguage)
		}
		def, err := langs.Get(cfg.Editor.Language)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLanguage(def))
	}
	return opts, nil
}
