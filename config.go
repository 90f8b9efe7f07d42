package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ---------------------------------------------------------------------------
// Keybinding overrides (TOML-based)
// ---------------------------------------------------------------------------

type keybindingConfig struct {
	Scope  string   `toml:"scope"`
	Action string   `toml:"action"`
	Keys   []string `toml:"keys"`
}

// keybindingsFile is the top-level TOML structure.
type keybindingsFile struct {
	Bindings []keybindingConfig `toml:"binding"`
}

const keybindingsHeader = `# svmxplorer keybindings
# Each [[binding]] replaces the keys of one action in one scope.
# Scopes: plot, controls, global, command, help.

`

// keybindingsPath returns the keybindings file under the user config dir,
// honouring XDG_CONFIG_HOME.
func keybindingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "svmxplorer", "keybindings.toml"), nil
}

// loadKeybindings applies the overrides at path to r. A missing file is
// created from r's current bindings.
func loadKeybindings(path string, r *KeyRegistry) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return writeKeybindings(path, r)
	}
	if err != nil {
		return fmt.Errorf("read keybindings: %w", err)
	}
	items, err := parseKeybindings(data)
	if err != nil {
		return err
	}
	if err := r.ApplyKeybindingConfig(items); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func parseKeybindings(data []byte) ([]keybindingConfig, error) {
	var f keybindingsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keybindings.toml: %w", err)
	}
	return f.Bindings, nil
}

func renderKeybindings(r *KeyRegistry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(keybindingsHeader)
	if err := toml.NewEncoder(&buf).Encode(keybindingsFile{Bindings: r.ExportKeybindingConfig()}); err != nil {
		return nil, fmt.Errorf("encode keybindings.toml: %w", err)
	}
	return buf.Bytes(), nil
}

func writeKeybindings(path string, r *KeyRegistry) error {
	data, err := renderKeybindings(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write keybindings.toml: %w", err)
	}
	return nil
}
