package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadKeybindingsSeedsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := keybindingsPath()
	if err != nil {
		t.Fatalf("keybindingsPath: %v", err)
	}

	if err := loadKeybindings(path, NewKeyRegistry()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read seeded file: %v", err)
	}
	if !strings.Contains(string(raw), "[[binding]]") || !strings.Contains(string(raw), `action = "place_a"`) {
		t.Fatalf("expected seeded defaults in keybindings.toml, got:\n%s", raw)
	}

	// The seeded file must load back cleanly.
	r := NewKeyRegistry()
	if err := loadKeybindings(path, r); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if b := r.Lookup("a", scopePlot); b == nil || b.Action != actionPlaceA {
		t.Fatal("defaults changed after reload")
	}
}

func TestLoadKeybindingsAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	kb := `
[[binding]]
scope = "plot"
action = "place_b"
keys = ["x", "B"]

[[binding]]
scope = "global"
action = "quit"
keys = ["ctrl+q"]
`
	if err := os.WriteFile(path, []byte(kb), 0o644); err != nil {
		t.Fatalf("write keybindings.toml: %v", err)
	}
	r := NewKeyRegistry()
	if err := loadKeybindings(path, r); err != nil {
		t.Fatalf("loadKeybindings: %v", err)
	}
	if b := r.Lookup("B", scopePlot); b == nil || b.Action != actionPlaceB {
		t.Fatal("B should place class B")
	}
	if b := r.Lookup("q", scopePlot); b != nil {
		t.Fatalf("q should be unbound, got %q", b.Action)
	}
	if b := r.Lookup("ctrl+q", scopeControls); b == nil || b.Action != actionQuit {
		t.Fatal("ctrl+q should quit")
	}
}

func TestLoadKeybindingsRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":   "[[binding]\nscope = 1",
		"conflict": "[[binding]]\nscope = \"plot\"\naction = \"place_a\"\nkeys = [\"b\"]\n",
		"scope":    "[[binding]]\nscope = \"nope\"\naction = \"quit\"\nkeys = [\"x\"]\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keybindings.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := loadKeybindings(path, NewKeyRegistry()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
