package app

import (
	"testing"

	"github.com/treykane/paneboard/internal/config"
)

func newKeybindingModel(overrides map[string]string) *Model {
	m := &Model{}
	m.loadKeybindings(config.Config{Keybindings: overrides})
	return m
}

func TestDefaultKeybindings(t *testing.T) {
	m := newKeybindingModel(nil)
	cases := map[string]string{
		"v":         actionSplit,
		"ctrl+\\":   actionSplit,
		"x":         actionClosePane,
		"tab":       actionFocusNext,
		"t":         actionTOC,
		"L":         actionLockAll,
		" ":         actionScrollPageDown,
		">":         actionGrow,
		"unbound!!": "",
	}
	for key, want := range cases {
		if got := m.actionForKey(key); got != want {
			t.Fatalf("actionForKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestKeybindingOverrideReplacesDefaults(t *testing.T) {
	m := newKeybindingModel(map[string]string{
		actionSplit:  "S",
		"no.such.op": "z",
	})
	if got := m.actionForKey("S"); got != actionSplit {
		t.Fatalf("expected S to split, got %q", got)
	}
	if got := m.actionForKey("v"); got != "" {
		t.Fatalf("expected v to be unbound after the override, got %q", got)
	}
	if got := m.actionForKey("z"); got != "" {
		t.Fatalf("expected unknown action to be ignored, got %q", got)
	}
}

func TestKeybindingConflictPrefersOverride(t *testing.T) {
	m := newKeybindingModel(map[string]string{actionEditNote: "v"})
	if got := m.actionForKey("v"); got != actionEditNote {
		t.Fatalf("expected the override to win v, got %q", got)
	}
	if got := m.actionForKey("ctrl+\\"); got != actionSplit {
		t.Fatalf("expected split to keep its other key, got %q", got)
	}
}

func TestNormalizeKeyString(t *testing.T) {
	cases := map[string]string{
		"Ctrl+R": "ctrl+r",
		" L ":    "shift+l",
		" ":      " ",
		"":       "",
		"ENTER":  "enter",
		"?":      "?",
	}
	for in, want := range cases {
		if got := normalizeKeyString(in); got != want {
			t.Fatalf("normalizeKeyString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanizeKeyLabel(t *testing.T) {
	cases := map[string]string{
		"ctrl+r":  "Ctrl+R",
		"shift+l": "Shift+L",
		"pgdown":  "PgDn",
		" ":       "Space",
		"ctrl+\\": "Ctrl+\\",
	}
	for in, want := range cases {
		if got := humanizeKeyLabel(in); got != want {
			t.Fatalf("humanizeKeyLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
