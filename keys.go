package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal   = "global"
	scopePlot     = "plot"
	scopeControls = "controls"
	scopeCommand  = "command"
	scopeHelp     = "help"
)

// scopeOrder is the order scopes appear in the help overlay and exports.
var scopeOrder = []string{scopePlot, scopeControls, scopeGlobal, scopeCommand, scopeHelp}

const (
	actionQuit        Action = "quit"
	actionFocus       Action = "focus"
	actionClear       Action = "clear"
	actionHelp        Action = "help"
	actionCommandMode Action = "command_mode"
	actionMove        Action = "move"
	actionPlaceA      Action = "place_a"
	actionPlaceB      Action = "place_b"
	actionNavigate    Action = "navigate"
	actionAdjust      Action = "adjust"
	actionActivate    Action = "activate"
	actionConfirm     Action = "confirm"
	actionClose       Action = "close"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Plot focus: crosshair and point placement.
	reg(scopePlot, actionMove, []string{"hjkl", "h", "j", "k", "l", "left", "down", "up", "right"}, "move")
	reg(scopePlot, actionPlaceA, []string{"a"}, "add A")
	reg(scopePlot, actionPlaceB, []string{"b"}, "add B")

	// Controls focus: select and step widgets.
	reg(scopeControls, actionNavigate, []string{"j/k", "j", "k", "up", "down"}, "select")
	reg(scopeControls, actionAdjust, []string{"h/l", "h", "l", "left", "right"}, "adjust")
	reg(scopeControls, actionActivate, []string{"enter", "space"}, "activate")

	// Global fallback lookup.
	reg(scopeGlobal, actionFocus, []string{"tab", "shift+tab"}, "focus")
	reg(scopeGlobal, actionClear, []string{"c"}, "clear")
	reg(scopeGlobal, actionCommandMode, []string{":"}, "command")
	reg(scopeGlobal, actionHelp, []string{"?"}, "help")
	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeCommand, actionConfirm, []string{"enter"}, "run")
	reg(scopeCommand, actionClose, []string{"esc", "ctrl+c"}, "cancel")

	reg(scopeHelp, actionClose, []string{"esc", "?", "q"}, "close")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil || len(b.Keys) == 0 {
		return
	}
	normKeys := normalizeKeyList(b.Keys)
	if len(normKeys) == 0 {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		if r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if b := r.LookupLocal(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.LookupLocal(keyName, scopeGlobal)
	}
	return nil
}

// LookupLocal resolves keyName in scope only.
func (r *KeyRegistry) LookupLocal(keyName, scope string) *Binding {
	if r == nil || keyName == "" || scope == "" {
		return nil
	}
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[normalizeKeyName(keyName)]
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		if len(b.Keys) == 0 {
			continue
		}
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// Uppercase stays distinct so shifted letters can bind separately.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

// ApplyKeybindingConfig replaces the keys of existing bindings. Unknown
// scopes or actions, duplicated entries and keys shared by two actions of one
// scope are errors.
func (r *KeyRegistry) ApplyKeybindingConfig(items []keybindingConfig) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("keybinding: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("keybinding scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("keybinding scope=%q action=%q: keys are required", scope, action)
		}

		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("keybinding scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("keybinding scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("keybinding scope=%q action=%q: duplicated entry", scope, action)
		}
		seenPair[p] = true
		target.Keys = keys
	}

	r.rebuildIndex()
	for _, scope := range r.scopes() {
		seen := make(map[string]Action)
		for _, b := range r.bindingsByScope[scope] {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("keybinding conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

func (r *KeyRegistry) ExportKeybindingConfig() []keybindingConfig {
	if r == nil {
		return nil
	}
	var out []keybindingConfig
	for _, scope := range r.scopes() {
		for _, b := range r.bindingsByScope[scope] {
			out = append(out, keybindingConfig{
				Scope:  scope,
				Action: string(b.Action),
				Keys:   append([]string(nil), b.Keys...),
			})
		}
	}
	return out
}

// scopes lists registered scopes, known ones first in scopeOrder.
func (r *KeyRegistry) scopes() []string {
	rank := make(map[string]int, len(scopeOrder))
	for i, s := range scopeOrder {
		rank[s] = i
	}
	out := make([]string, 0, len(r.bindingsByScope))
	for scope := range r.bindingsByScope {
		out = append(out, scope)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i]]
		rj, jok := rank[out[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return out[i] < out[j]
	})
	return out
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}
