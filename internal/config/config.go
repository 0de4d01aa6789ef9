package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/history"
	"github.com/dshills/codepad/internal/logging"
	"github.com/dshills/codepad/internal/palette"
	"github.com/dshills/codepad/internal/regex"
)

// Config holds every editor setting.
type Config struct {
	Editor    EditorConfig    `toml:"editor" yaml:"editor"`
	Find      FindConfig      `toml:"find" yaml:"find"`
	Colorize  ColorizeConfig  `toml:"colorize" yaml:"colorize"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Languages LanguagesConfig `toml:"languages" yaml:"languages"`
}

// EditorConfig holds the editing settings.
type EditorConfig struct {
	// TabSize is the width of a tab stop, clamped to 1..8.
	TabSize int `toml:"tab_size" yaml:"tab_size"`

	// AutoIndent copies the leading blanks of a line when Enter splits it.
	AutoIndent bool `toml:"auto_indent" yaml:"auto_indent"`

	// ReadOnly rejects every mutating command.
	ReadOnly bool `toml:"read_only" yaml:"read_only"`

	// MaxUndoEntries bounds the undo history.
	MaxUndoEntries int `toml:"max_undo_entries" yaml:"max_undo_entries"`

	// Language is the name of the language definition to colorize with.
	// Empty disables colorizing.
	Language string `toml:"language" yaml:"language"`

	// Palette is the name of a builtin palette.
	Palette string `toml:"palette" yaml:"palette"`
}

// FindConfig holds the initial find options.
type FindConfig struct {
	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWord     bool `toml:"whole_word" yaml:"whole_word"`
	UseRegex      bool `toml:"use_regex" yaml:"use_regex"`
	WrapAround    bool `toml:"wrap_around" yaml:"wrap_around"`

	// RefreshDelayMS is how long a deferred result refresh waits.
	RefreshDelayMS int `toml:"refresh_delay_ms" yaml:"refresh_delay_ms"`

	// RegexEngine is "re2" or "ecmascript".
	RegexEngine string `toml:"regex_engine" yaml:"regex_engine"`
}

// ColorizeConfig holds the colorizer settings.
type ColorizeConfig struct {
	// LinesPerStep is how many lines one colorize step classifies.
	LinesPerStep int `toml:"lines_per_step" yaml:"lines_per_step"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level" yaml:"level"`

	// Prefix is prepended to every log message.
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// LanguagesConfig lists extra language definition files.
type LanguagesConfig struct {
	// Paths are definition files or directories of them.
	Paths []string `toml:"paths" yaml:"paths"`

	// Watch reloads definitions when their files change.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabSize:        4,
			AutoIndent:     true,
			MaxUndoEntries: history.DefaultMaxEntries,
			Palette:        palette.NameDark,
		},
		Find: FindConfig{
			WrapAround:     true,
			RefreshDelayMS: 120,
			RegexEngine:    regex.NameRE2,
		},
		Colorize: ColorizeConfig{
			LinesPerStep: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Prefix: "codepad",
		},
	}
}

// Normalize clamps settings that have a natural range instead of failing.
func (c *Config) Normalize() {
	c.Editor.TabSize = buffer.ClampTabSize(c.Editor.TabSize)
	c.Find.RegexEngine = strings.ToLower(strings.TrimSpace(c.Find.RegexEngine))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate reports every setting with an unusable value.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Editor.MaxUndoEntries < 1 {
		add("editor.max_undo_entries", "must be at least 1", c.Editor.MaxUndoEntries)
	}
	if _, err := palette.ByName(c.Editor.Palette); err != nil {
		add("editor.palette", "unknown palette", c.Editor.Palette)
	}
	if c.Find.RefreshDelayMS < 0 {
		add("find.refresh_delay_ms", "must not be negative", c.Find.RefreshDelayMS)
	}
	if _, err := regex.ByName(c.Find.RegexEngine); err != nil {
		add("find.regex_engine", `must be "re2" or "ecmascript"`, c.Find.RegexEngine)
	}
	if c.Colorize.LinesPerStep < 1 {
		add("colorize.lines_per_step", "must be at least 1", c.Colorize.LinesPerStep)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "unknown level", c.Log.Level)
	}
	return errors.Join(errs...)
}

// RefreshDelay returns the find refresh delay.
func (c *Config) RefreshDelay() time.Duration {
	return time.Duration(c.Find.RefreshDelayMS) * time.Millisecond
}

// RegexEngine returns the configured regex engine, or the RE2 engine if the
// name is unknown.
func (c *Config) RegexEngine() regex.Engine {
	e, err := regex.ByName(c.Find.RegexEngine)
	if err != nil {
		return regex.Std{}
	}
	return e
}

// Palette returns a copy of the configured palette, or the dark palette if
// the name is unknown.
func (c *Config) Palette() *palette.Palette {
	p, err := palette.ByName(c.Editor.Palette)
	if err != nil {
		return palette.Dark()
	}
	return p
}

// LoggerConfig returns the logger configuration for the log section.
// A nil output selects the logger default.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Prefix: c.Log.Prefix,
	}
}
