package lang

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/codepad/internal/engine/token"
)

func TestBuiltinDefinitions(t *testing.T) {
	names := BuiltinNames()
	want := []string{"c", "cpp", "glsl", "json", "lua", "python", "sql"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("BuiltinNames() mismatch (-want +got):\n%s", diff)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			d, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin(%q) error = %v", name, err)
			}
			if len(d.Keywords) == 0 {
				t.Error("no keywords")
			}
			if d.Tokenizer == nil && len(d.Rules) == 0 {
				t.Error("neither tokenizer nor rules")
			}
		})
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("cobol"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Builtin(cobol) error = %v, want ErrUnknownLanguage", err)
	}
	if d, err := Builtin("C++"); err != nil || d.Name != "C++" {
		t.Errorf("Builtin(C++) = %v, %v", d, err)
	}
}

func TestClassify(t *testing.T) {
	c, _ := Builtin("c")
	sql, _ := Builtin("sql")

	tests := []struct {
		name    string
		def     *Definition
		id      string
		preproc bool
		want    token.Class
	}{
		{"keyword", c, "while", false, token.Keyword},
		{"case sensitive miss", c, "While", false, token.Identifier},
		{"known identifier", c, "printf", false, token.KnownIdentifier},
		{"preproc identifier outside preproc", c, "include", false, token.PreprocIdentifier},
		{"keyword inside preproc", c, "while", true, token.Identifier},
		{"preproc identifier", c, "define", true, token.PreprocIdentifier},
		{"folded keyword", sql, "select", false, token.Keyword},
		{"folded known", sql, "Count", false, token.KnownIdentifier},
		{"plain", sql, "customers", false, token.Identifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.Classify(tt.id, tt.preproc); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := []byte(`
name: Ini
case_sensitive: false
extensions: [".ini"]
keywords: ["true", "false"]
comment:
  line: ";"
rules:
  - pattern: '\[[^\]]*\]'
    class: keyword
  - pattern: '[a-z]+'
    class: identifier
`)
	d, err := Parse(src, FormatYAML, "ini.yaml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.CaseSensitive {
		t.Error("expected case-insensitive definition")
	}
	if !d.Keywords.Has("TRUE") {
		t.Errorf("keywords not folded: %v", d.Keywords.Sorted())
	}
	want := []Rule{{Pattern: `\[[^\]]*\]`, Class: token.Keyword}, {Pattern: "[a-z]+", Class: token.Identifier}}
	if diff := cmp.Diff(want, d.Rules); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
	if d.SingleLineComment != ";" {
		t.Errorf("SingleLineComment = %q", d.SingleLineComment)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing name", `keywords = ["a"]`},
		{"bad class", "name = \"x\"\n[[rules]]\npattern = \"a\"\nclass = \"bogus\""},
		{"unknown field", "name = \"x\"\ncolour = 1"},
		{"half block comment", "name = \"x\"\n[comment]\nblock_start = \"/*\""},
		{"long preproc char", "name = \"x\"\npreproc_char = \"##\""},
		{"unknown tokenizer", "name = \"x\"\ntokenizer = \"fortran\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), FormatTOML, "test.toml")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Path != "test.toml" {
				t.Errorf("ParseError.Path = %q", pe.Path)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": FormatTOML, "b.YML": FormatYAML, "c.yaml": FormatYAML} {
		if got, err := FormatFromPath(path); err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := FormatFromPath("d.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatFromPath(d.json) error = %v", err)
	}
}

func TestTokenizeCStyle(t *testing.T) {
	tests := []struct {
		text  string
		start int
		end   int
		class token.Class
		ok    bool
	}{
		{`"a\"b" x`, 0, 6, token.String, true},
		{`  'x'`, 2, 5, token.CharLiteral, true},
		{`'\n'`, 0, 4, token.CharLiteral, true},
		{`foo_1(`, 0, 5, token.Identifier, true},
		{`0x1Fu;`, 0, 5, token.Number, true},
		{`3.5e-2f`, 0, 7, token.Number, true},
		{`0b101`, 0, 5, token.Number, true},
		{`42L`, 0, 3, token.Number, true},
		{`-7`, 0, 2, token.Number, true},
		{`{`, 0, 1, token.Punctuation, true},
		{"   ", 3, 3, token.Default, true},
		{`"open`, 0, 0, token.Default, false},
		{"@", 0, 0, token.Default, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			start, end, class, ok := TokenizeCStyle(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if start != tt.start || end != tt.end || class != tt.class {
				t.Errorf("TokenizeCStyle(%q) = %d, %d, %v; want %d, %d, %v",
					tt.text, start, end, class, tt.start, tt.end, tt.class)
			}
		})
	}
}

const numberScript = `
function tokenize(text)
  local s, e = string.find(text, "^%s*%d+")
  if s then return s, e, "number" end
  return nil
end
`

func TestLuaTokenizer(t *testing.T) {
	tk, err := NewLuaTokenizer(numberScript, "numbers.lua")
	if err != nil {
		t.Fatalf("NewLuaTokenizer() error = %v", err)
	}
	defer tk.Close()

	start, end, class, ok := tk.Tokenize("  42 x")
	if !ok || start != 0 || end != 4 || class != token.Number {
		t.Errorf("Tokenize() = %d, %d, %v, %v", start, end, class, ok)
	}
	if _, _, _, ok := tk.Tokenize("x"); ok {
		t.Error("expected no match")
	}
}

func TestLuaTokenizerErrors(t *testing.T) {
	if _, err := NewLuaTokenizer("x = 1", "empty.lua"); err == nil {
		t.Error("expected error for script without tokenize")
	}
	if _, err := NewLuaTokenizer("function (", "broken.lua"); err == nil {
		t.Error("expected syntax error")
	}

	tk, err := NewLuaTokenizer(`function tokenize(text) error("boom") end`, "boom.lua")
	if err != nil {
		t.Fatalf("NewLuaTokenizer() error = %v", err)
	}
	defer tk.Close()

	var got error
	tk.SetErrorHandler(func(err error) { got = err })
	if _, _, _, ok := tk.Tokenize("abc"); ok {
		t.Error("failing script should not match")
	}
	if got == nil {
		t.Error("error handler not called")
	}
}

func TestLuaTokenizerTimeout(t *testing.T) {
	tk, err := NewLuaTokenizer(`function tokenize(text) while true do end end`, "spin.lua")
	if err != nil {
		t.Fatalf("NewLuaTokenizer() error = %v", err)
	}
	defer tk.Close()
	tk.SetTimeout(20 * time.Millisecond)

	var got error
	tk.SetErrorHandler(func(err error) { got = err })
	if _, _, _, ok := tk.Tokenize("abc"); ok {
		t.Error("looping script should not match")
	}
	if !errors.Is(got, ErrTokenizerTimeout) {
		t.Errorf("reported error = %v, want ErrTokenizerTimeout", got)
	}
	if !tk.Disabled() {
		t.Error("tokenizer should be disabled after a timeout")
	}

	got = nil
	if _, _, _, ok := tk.Tokenize("abc"); ok {
		t.Error("disabled tokenizer should not match")
	}
	if got != nil {
		t.Errorf("disabled tokenizer ran the script again: %v", got)
	}
}

func TestLuaTokenizerLoadTimeout(t *testing.T) {
	_, err := NewLuaTokenizer(`while true do end
function tokenize(text) end`, "spin.lua")
	if !errors.Is(err, ErrTokenizerTimeout) {
		t.Errorf("NewLuaTokenizer() error = %v, want ErrTokenizerTimeout", err)
	}
}

func TestLuaSandbox(t *testing.T) {
	tk, err := NewLuaTokenizer(`
function tokenize(text)
  if dofile ~= nil or io ~= nil or os ~= nil then return 1, 1, "keyword" end
  return nil
end`, "sandbox.lua")
	if err != nil {
		t.Fatalf("NewLuaTokenizer() error = %v", err)
	}
	defer tk.Close()
	if _, _, _, ok := tk.Tokenize("x"); ok {
		t.Error("unsafe globals are reachable from tokenizer scripts")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry(t *testing.T) {
	r, err := NewBuiltinRegistry()
	if err != nil {
		t.Fatalf("NewBuiltinRegistry() error = %v", err)
	}
	if d, err := r.Get("python"); err != nil || d.Name != "Python" {
		t.Errorf("Get(python) = %v, %v", d, err)
	}
	if d, ok := r.ForPath("/src/main.CPP"); !ok || d.Name != "C++" {
		t.Errorf("ForPath(main.CPP) = %v, %v", d, ok)
	}
	if _, ok := r.ForPath("notes.txt"); ok {
		t.Error("ForPath(notes.txt) should not match")
	}

	r.Unregister("json")
	if _, err := r.Get("json"); !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("Get(json) after Unregister error = %v", err)
	}
	if _, ok := r.ForPath("a.json"); ok {
		t.Error("extension still mapped after Unregister")
	}
}

func TestRegistryLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ini.toml"), "name = \"INI\"\nextensions = [\".ini\"]\nkeywords = [\"on\"]")
	writeFile(t, filepath.Join(dir, "numbers.lua"), numberScript)
	writeFile(t, filepath.Join(dir, "num.yaml"), "name: Num\ntokenizer: numbers.lua\n")
	writeFile(t, filepath.Join(dir, "bad.toml"), "keywords = 1")
	writeFile(t, filepath.Join(dir, "README.md"), "ignored")

	r := NewRegistry()
	defs, err := r.LoadDir(dir)
	if err == nil {
		t.Error("expected error for bad.toml")
	}
	if len(defs) != 2 {
		t.Fatalf("loaded %d definitions, want 2", len(defs))
	}
	if diff := cmp.Diff([]string{"INI", "Num"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	num, _ := r.Get("num")
	if _, ok := num.Tokenizer.(*LuaTokenizer); !ok {
		t.Errorf("tokenizer = %T, want *LuaTokenizer", num.Tokenizer)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ini.toml")
	writeFile(t, path, "name = \"INI\"\nkeywords = [\"on\"]")

	r := NewRegistry()
	w, err := NewWatcher(r)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if d, err := r.Get("ini"); err != nil || !d.Keywords.Has("on") {
		t.Fatalf("Get(ini) = %v, %v", d, err)
	}

	writeFile(t, path, "name = \"INI\"\nkeywords = [\"off\"]")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-w.Changes():
			if c.Op == ChangeLoaded && c.Definition.Keywords.Has("off") {
				if d, _ := r.Get("ini"); !d.Keywords.Has("off") {
					t.Error("registry not updated")
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}
