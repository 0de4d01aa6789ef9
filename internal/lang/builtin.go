package lang

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Builtin parses the embedded definition for name, such as "c" or "sql".
// Each call returns a new Definition.
func Builtin(name string) (*Definition, error) {
	key := builtinKey(name)
	data, err := builtinFS.ReadFile(path.Join("builtin", key+".toml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return Parse(data, FormatTOML, "builtin/"+key+".toml")
}

// BuiltinNames returns the keys of the embedded definitions, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	return names
}

func builtinKey(name string) string {
	switch k := Key(name); k {
	case "c++", "cxx":
		return "cpp"
	default:
		return k
	}
}
