// Package config loads the editor settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file (Load)
//  3. CODEPAD_* environment variables (ApplyEnv)
//
// A file looks like
//
//	[editor]
//	tab_size = 4
//	palette = "mariana"
//
//	[find]
//	regex_engine = "ecmascript"
//	refresh_delay_ms = 120
//
//	[languages]
//	paths = ["~/.config/codepad/languages"]
//	watch = true
//
// Unknown keys are rejected so typos surface as a ParseError instead of
// being silently ignored.
package config
