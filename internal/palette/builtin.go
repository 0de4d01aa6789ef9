package palette

import (
	"fmt"
	"slices"
	"strings"
)

// Names of the builtin palettes.
const (
	NameDark      = "dark"
	NameMariana   = "mariana"
	NameLight     = "light"
	NameRetroBlue = "retro-blue"
)

func build(name string, values [Count]uint32) *Palette {
	p := &Palette{Name: name}
	for i, v := range values {
		p.Colors[i] = RGBA(v)
	}
	return p
}

// Dark returns the default dark palette.
func Dark() *Palette {
	return build(NameDark, [Count]uint32{
		0xdcdfe4ff, 0xe06c75ff, 0xe5c07bff, 0x98c379ff, 0xe0a070ff, 0x6a7384ff,
		0x808040ff, 0xdcdfe4ff, 0x61afefff, 0xc678ddff, 0x3696a2ff, 0x3696a2ff,
		0x282c34ff, 0xe0e0e0ff, 0x2060a080, 0xff200080, 0xffffff15, 0x0080f040,
		0x7a8394ff, 0x00000040, 0x80808040, 0xa0a0a040,
	})
}

// Mariana returns a palette modeled on the Mariana color scheme.
func Mariana() *Palette {
	return build(NameMariana, [Count]uint32{
		0xffffffff, 0xc695c6ff, 0xf9ae58ff, 0x99c794ff, 0xe0a070ff, 0x5fb4b4ff,
		0x808040ff, 0xffffffff, 0x4dc69bff, 0xe0a0ffff, 0xa6acb9ff, 0xa6acb9ff,
		0x303841ff, 0xe0e0e0ff, 0x6e7a8580, 0xec5f6680, 0xffffff30, 0x0080f040,
		0xffffffb0, 0x4e5a6580, 0x4e5a6530, 0x4e5a65b0,
	})
}

// Light returns a palette for light backgrounds.
func Light() *Palette {
	return build(NameLight, [Count]uint32{
		0x404040ff, 0x060cffff, 0x008000ff, 0xa02020ff, 0x704030ff, 0x000000ff,
		0x606040ff, 0x404040ff, 0x106060ff, 0xa040c0ff, 0x205020ff, 0x205040ff,
		0xffffffff, 0x000000ff, 0x00006040, 0xff1000a0, 0x90909090, 0x0080f080,
		0x005050ff, 0x00000040, 0x80808040, 0x00000040,
	})
}

// RetroBlue returns a palette in the style of old DOS editors.
func RetroBlue() *Palette {
	return build(NameRetroBlue, [Count]uint32{
		0xffff00ff, 0x00ffffff, 0x00ff00ff, 0x008080ff, 0x008080ff, 0xffffffff,
		0x008000ff, 0xffff00ff, 0xffffffff, 0xff00ffff, 0x808080ff, 0x404040ff,
		0x000080ff, 0xff8000ff, 0x00ffff80, 0xff0000a0, 0xffffff30, 0x0080ff80,
		0x008080ff, 0x00000040, 0x80808040, 0x00000040,
	})
}

var builtins = map[string]func() *Palette{
	NameDark:      Dark,
	NameMariana:   Mariana,
	NameLight:     Light,
	NameRetroBlue: RetroBlue,
}

// Names returns the names of the builtin palettes, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ByName returns a fresh copy of the named builtin palette. Matching ignores
// case and treats "_" like "-".
func ByName(name string) (*Palette, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-"))
	if key == "retroblue" {
		key = NameRetroBlue
	}
	if fn, ok := builtins[key]; ok {
		return fn(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPalette, name)
}
