package engine

import (
	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/palette"
	"github.com/dshills/codepad/internal/regex"
)

// Language returns the current language, or nil.
func (e *Engine) Language() *lang.Definition {
	return e.colorizer.Language()
}

// SetLanguage switches language and recolors the whole text. A nil
// definition turns coloring off. Token rules that fail to compile are
// skipped and reported in the returned error.
func (e *Engine) SetLanguage(def *lang.Definition) error {
	err := e.colorizer.SetLanguage(def)
	name := "none"
	if def != nil {
		name = def.Name
	}
	if err != nil {
		e.logger.Warn("language %s: %v", name, err)
	} else {
		e.logger.Debug("language set to %s", name)
	}
	return err
}

// SetRegexEngine replaces the regex engine used by token rules and regex
// search.
func (e *Engine) SetRegexEngine(r regex.Engine) error {
	if r == nil {
		return nil
	}
	e.regexEngine = r
	e.finder.SetRegexEngine(r)
	if err := e.colorizer.SetRegexEngine(r); err != nil {
		e.logger.Warn("regex engine %s: %v", r.Name(), err)
		return err
	}
	return nil
}

// Palette returns the color palette.
func (e *Engine) Palette() *palette.Palette {
	return e.palette
}

// SetPalette replaces the color palette.
func (e *Engine) SetPalette(p *palette.Palette) {
	if p != nil {
		e.palette = p
	}
}

// GlyphColor returns the display color of g under the current palette.
func (e *Engine) GlyphColor(g buffer.Glyph) palette.Color {
	return e.palette.GlyphColor(g, e.colorizer.Language() != nil)
}
