package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix starts every environment variable the editor reads.
const EnvPrefix = "CODEPAD_"

// ApplyEnv overrides settings from environ, a list of KEY=value pairs as
// returned by os.Environ. CODEPAD_EDITOR_TAB_SIZE=2 sets editor.tab_size.
// languages.paths takes a list separated by the OS path list separator.
func ApplyEnv(cfg *Config, environ []string) error {
	overrides := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := envToPath(name)
		if !ok {
			continue
		}
		m, _ := overrides[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			overrides[section] = m
		}
		if section == "languages" && key == "paths" {
			m[key] = filepath.SplitList(value)
		} else {
			m[key] = parseValue(value)
		}
	}
	if len(overrides) == 0 {
		return nil
	}

	// Round-trip through TOML so overrides get the same strict decoding as a
	// config file.
	data, err := toml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encoding environment overrides: %w", err)
	}
	if err := decode(cfg, data, FormatTOML, "environment"); err != nil {
		return err
	}
	cfg.Normalize()
	return cfg.Validate()
}

// envToPath converts CODEPAD_EDITOR_TAB_SIZE to ("editor", "tab_size").
func envToPath(env string) (section, key string, ok bool) {
	name := strings.ToLower(strings.TrimPrefix(env, EnvPrefix))
	section, key, ok = strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return "", "", false
	}
	return section, key, true
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
