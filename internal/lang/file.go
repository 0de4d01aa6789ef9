package lang

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file.
type Format string

// Supported definition formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// file is the on-disk shape of a definition.
type file struct {
	Name          string   `toml:"name" yaml:"name"`
	CaseSensitive *bool    `toml:"case_sensitive" yaml:"case_sensitive"`
	Extensions    []string `toml:"extensions" yaml:"extensions"`

	Keywords           []string `toml:"keywords" yaml:"keywords"`
	Identifiers        []string `toml:"identifiers" yaml:"identifiers"`
	PreprocIdentifiers []string `toml:"preproc_identifiers" yaml:"preproc_identifiers"`

	Comment struct {
		Line       string `toml:"line" yaml:"line"`
		BlockStart string `toml:"block_start" yaml:"block_start"`
		BlockEnd   string `toml:"block_end" yaml:"block_end"`
	} `toml:"comment" yaml:"comment"`

	PreprocChar string `toml:"preproc_char" yaml:"preproc_char"`

	// Tokenizer is a builtin tokenizer name or a path to a Lua script,
	// relative to the definition file.
	Tokenizer string `toml:"tokenizer" yaml:"tokenizer"`

	Rules []Rule `toml:"rules" yaml:"rules"`
}

// Parse decodes a definition. Source names the data in errors and anchors
// relative tokenizer paths.
func Parse(data []byte, format Format, source string) (*Definition, error) {
	var f file
	var err error
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return f.definition(source)
}

func (f *file) definition(source string) (*Definition, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, &ParseError{Path: source, Message: "missing name"}
	}
	if len(f.PreprocChar) > 1 {
		return nil, &ParseError{Path: source, Message: fmt.Sprintf("preproc_char %q is not a single byte", f.PreprocChar)}
	}
	if (f.Comment.BlockStart == "") != (f.Comment.BlockEnd == "") {
		return nil, &ParseError{Path: source, Message: "block_start and block_end must be set together"}
	}

	d := &Definition{
		Name:               f.Name,
		Keywords:           NewSet(f.Keywords...),
		Identifiers:        NewSet(f.Identifiers...),
		PreprocIdentifiers: NewSet(f.PreprocIdentifiers...),
		SingleLineComment:  f.Comment.Line,
		CommentStart:       f.Comment.BlockStart,
		CommentEnd:         f.Comment.BlockEnd,
		CaseSensitive:      f.CaseSensitive == nil || *f.CaseSensitive,
		Rules:              f.Rules,
		Extensions:         f.Extensions,
		Source:             source,
	}
	if f.PreprocChar != "" {
		d.PreprocChar = f.PreprocChar[0]
	}

	if f.Tokenizer != "" {
		tk, err := resolveTokenizer(f.Tokenizer, source)
		if err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		d.Tokenizer = tk
	}

	d.normalize()
	return d, nil
}

func resolveTokenizer(name, source string) (Tokenizer, error) {
	if strings.EqualFold(filepath.Ext(name), ".lua") {
		path := name
		if !filepath.IsAbs(path) && source != "" {
			path = filepath.Join(filepath.Dir(source), path)
		}
		return LoadLuaTokenizer(path)
	}
	if tk, ok := tokenizers[Key(name)]; ok {
		return tk, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTokenizer, name)
}

// LoadFile reads and parses a definition file.
func LoadFile(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading language file %s: %w", path, err)
	}
	return Parse(data, format, path)
}
