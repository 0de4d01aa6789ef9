package palette

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/token"
)

func TestRGBARoundTrip(t *testing.T) {
	for _, v := range []uint32{0xdcdfe4ff, 0x2060a080, 0x00000000, 0xffffff15} {
		if got := RGBA(v).Uint32(); got != v {
			t.Errorf("RGBA(%#08x).Uint32() = %#08x", v, got)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#e06c75", 0xe06c75ff, false},
		{"#2060a080", 0x2060a080, false},
		{" #ffffff30 ", 0xffffff30, false},
		{"#zzzzzz", 0, true},
		{"#ffffffzz", 0, true},
		{"red", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && c.Uint32() != tt.want {
				t.Errorf("ParseHex() = %s, want %#08x", c.Hex(), tt.want)
			}
		})
	}
}

func TestBuiltinPalettes(t *testing.T) {
	for _, name := range Names() {
		p, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q) error = %v", name, err)
		}
		if p.Name != name {
			t.Errorf("ByName(%q).Name = %q", name, p.Name)
		}
		if p.Get(Background).A != 1 {
			t.Errorf("%s background is not opaque", name)
		}
	}

	if got := Dark().Get(Keyword).Uint32(); got != 0xe06c75ff {
		t.Errorf("dark keyword = %#08x", got)
	}
	if _, err := ByName("RetroBlue"); err != nil {
		t.Errorf("ByName(RetroBlue) error = %v", err)
	}
	if _, err := ByName("solarized"); !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("ByName(solarized) error = %v, want ErrUnknownPalette", err)
	}
}

func TestByNameReturnsCopy(t *testing.T) {
	a, _ := ByName(NameDark)
	a.Set(Keyword, RGBA(0x000000ff))
	b, _ := ByName(NameDark)
	if b.Get(Keyword).Uint32() == 0x000000ff {
		t.Error("modifying a palette changed the builtin")
	}
}

func TestGlyphColor(t *testing.T) {
	p := Dark()
	tests := []struct {
		name        string
		glyph       buffer.Glyph
		hasLanguage bool
		want        Index
	}{
		{"no language", buffer.Glyph{Char: 'a', Class: token.Keyword}, false, Default},
		{"keyword", buffer.Glyph{Char: 'a', Class: token.Keyword}, true, Keyword},
		{"comment wins", buffer.Glyph{Char: 'a', Class: token.Keyword, Comment: true}, true, Comment},
		{"block comment", buffer.Glyph{Char: 'a', MultiLineComment: true}, true, MultiLineComment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.GlyphColor(tt.glyph, tt.hasLanguage)
			if got.Uint32() != p.Get(tt.want).Uint32() {
				t.Errorf("GlyphColor() = %s, want %s", got.Hex(), p.Get(tt.want).Hex())
			}
		})
	}
}

func TestGlyphColorPreprocessorBlend(t *testing.T) {
	p := &Palette{}
	p.Set(Number, RGBA(0x204060ff))
	p.Set(Preprocessor, RGBA(0x6080a0ff))

	got := p.GlyphColor(buffer.Glyph{Class: token.Number, Preprocessor: true}, true)
	if got.Uint32() != 0x406080ff {
		t.Errorf("blended color = %s, want #406080ff", got.Hex())
	}
}

func TestFindHighlight(t *testing.T) {
	p := Dark()
	sel := p.Get(Selection).A
	if a := p.FindHighlight(false).A; math.Abs(a-sel*0.35) > 1e-9 {
		t.Errorf("inactive alpha = %v", a)
	}
	if a := p.FindHighlight(true).A; math.Abs(a-sel*0.65) > 1e-9 {
		t.Errorf("active alpha = %v", a)
	}
}

func TestOver(t *testing.T) {
	bg := RGBA(0x000000ff)
	if got := RGBA(0xffffff00).Over(bg).Uint32(); got != 0x000000ff {
		t.Errorf("transparent over black = %#08x", got)
	}
	if got := RGBA(0xffffffff).Over(bg).Uint32(); got != 0xffffffff {
		t.Errorf("opaque over black = %#08x", got)
	}
}
