// Package palette holds the editor color palettes and resolves the color of
// a glyph from its style class and comment/preprocessor tags.
package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/token"
)

// ErrUnknownPalette is returned by ByName for an unregistered palette name.
var ErrUnknownPalette = errors.New("palette: unknown palette")

// Index selects one color slot of a palette. The first slots mirror the
// token classes so a class converts directly into an Index.
type Index int

// Palette slots.
const (
	Default Index = iota
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
	Background
	Cursor
	Selection
	ErrorMarker
	ControlCharacter
	Breakpoint
	LineNumber
	CurrentLineFill
	CurrentLineFillInactive
	CurrentLineEdge

	// Count is the number of slots in a palette.
	Count
)

// FromClass returns the slot holding the color of a token class.
func FromClass(c token.Class) Index {
	if c >= token.Count {
		return Default
	}
	return Index(c)
}

// Color is an RGB color with a separate alpha channel in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

// RGBA builds a color from a packed 0xRRGGBBAA value.
func RGBA(v uint32) Color {
	return Color{
		Color: colorful.Color{
			R: float64(v>>24&0xff) / 255,
			G: float64(v>>16&0xff) / 255,
			B: float64(v>>8&0xff) / 255,
		},
		A: float64(v&0xff) / 255,
	}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa". A missing alpha is opaque.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("palette: invalid alpha in %q: %w", s, err)
		}
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, fmt.Errorf("palette: invalid color %q: %w", s, err)
		}
		return Color{Color: c, A: float64(a) / 255}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("palette: invalid color %q: %w", s, err)
	}
	return Color{Color: c, A: 1}, nil
}

// Uint32 packs the color as 0xRRGGBBAA.
func (c Color) Uint32() uint32 {
	r, g, b := c.Clamped().RGB255()
	a := uint32(clamp01(c.A)*255 + 0.5)
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | a
}

// Hex formats the color as "#rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", c.Uint32())
}

// Average returns the channel-wise mean of c and other, alpha included.
func (c Color) Average(other Color) Color {
	return Color{
		Color: c.BlendRgb(other.Color, 0.5),
		A:     (c.A + other.A) / 2,
	}
}

// WithAlpha returns c with its alpha multiplied by factor.
func (c Color) WithAlpha(factor float64) Color {
	c.A = clamp01(c.A * factor)
	return c
}

// Over composites c over the opaque background bg.
func (c Color) Over(bg Color) Color {
	return Color{Color: bg.BlendRgb(c.Color, clamp01(c.A)), A: 1}
}

// TCell converts the color to a terminal true color, ignoring alpha.
func (c Color) TCell() tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Palette is a named, fixed set of colors.
type Palette struct {
	Name   string
	Colors [Count]Color
}

// Get returns the color of slot i, or the default color for an invalid slot.
func (p *Palette) Get(i Index) Color {
	if i < 0 || i >= Count {
		return p.Colors[Default]
	}
	return p.Colors[i]
}

// Set replaces the color of slot i.
func (p *Palette) Set(i Index, c Color) {
	if i >= 0 && i < Count {
		p.Colors[i] = c
	}
}

// GlyphColor resolves the display color of g. Without a language every
// glyph uses the default color.
func (p *Palette) GlyphColor(g buffer.Glyph, hasLanguage bool) Color {
	if !hasLanguage {
		return p.Colors[Default]
	}
	switch {
	case g.Comment:
		return p.Colors[Comment]
	case g.MultiLineComment:
		return p.Colors[MultiLineComment]
	}
	c := p.Colors[FromClass(g.Class)]
	if g.Preprocessor {
		c = c.Average(p.Colors[Preprocessor])
	}
	return c
}

// Find highlight opacity, as a fraction of the selection color's alpha.
const (
	findAlphaInactive = 0.35
	findAlphaActive   = 0.65
)

// FindHighlight returns the fill color of a search result. The active
// result is drawn stronger than the others.
func (p *Palette) FindHighlight(active bool) Color {
	if active {
		return p.Colors[Selection].WithAlpha(findAlphaActive)
	}
	return p.Colors[Selection].WithAlpha(findAlphaInactive)
}

// Style returns the tcell style drawing slot i over the palette background.
func (p *Palette) Style(i Index) tcell.Style {
	return p.StyleFor(p.Get(i))
}

// StyleFor returns a tcell style with foreground fg over the background.
// Translucent foregrounds are composited onto the background first.
func (p *Palette) StyleFor(fg Color) tcell.Style {
	bg := p.Colors[Background]
	return tcell.StyleDefault.
		Foreground(fg.Over(bg).TCell()).
		Background(bg.TCell())
}

// Fill returns a tcell style whose background is the overlay c composited
// onto the palette background, keeping fg as foreground.
func (p *Palette) Fill(fg, c Color) tcell.Style {
	bg := p.Colors[Background]
	return tcell.StyleDefault.
		Foreground(fg.Over(bg).TCell()).
		Background(c.Over(bg).TCell())
}

// Clone returns a copy that can be modified independently.
func (p *Palette) Clone() *Palette {
	cp := *p
	return &cp
}
