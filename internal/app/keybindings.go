package app

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/treykane/paneboard/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Actions sit between physical key presses and behavior: a key is looked up
// in keyToAction and the resulting action is dispatched in handleBrowseKey.
// Users can override any assignment via the "keybindings" map in
// config.json. The editor and text prompts handle their own keys.
// ---------------------------------------------------------------------------

const (
	// actionCursorUp moves the selection in the focused list up.
	actionCursorUp = "cursor.up"
	// actionCursorDown moves the selection in the focused list down.
	actionCursorDown = "cursor.down"

	// actionOpen opens the selected sidebar category, note or TOC heading.
	actionOpen = "item.open"
	// actionBack clears a pane's selection, or returns it to its category.
	actionBack = "pane.back"

	actionEditNote    = "note.edit"
	actionNewNote     = "note.new"
	actionNewCategory = "category.new"
	actionDeleteNote  = "note.delete"

	// actionTOC shows the headings of the active pane in the TOC pane.
	actionTOC = "toc.open"
	// actionAI switches the active pane to the AI surface of its category.
	actionAI = "ai.open"

	actionSplit     = "pane.split"
	actionClosePane = "pane.close"
	// actionFocusNext cycles keyboard focus sidebar → panes left to right.
	actionFocusNext = "focus.next"
	actionFocusPrev = "focus.prev"
	// actionGrow and actionShrink move the active pane's right divider.
	actionGrow   = "pane.grow"
	actionShrink = "pane.shrink"

	actionScrollPageUp   = "preview.scroll.page_up"
	actionScrollPageDown = "preview.scroll.page_down"
	actionScrollHalfUp   = "preview.scroll.half_up"
	actionScrollHalfDown = "preview.scroll.half_down"

	// actionCopy copies the selected note content to the clipboard.
	actionCopy = "item.copy"
	// actionRefresh fires the host reload broadcast.
	actionRefresh = "app.refresh"
	// actionLockAll forgets every unlocked category.
	actionLockAll = "lock.all"
	actionHelp    = "help.toggle"
	actionQuit    = "app.quit"
)

// defaultActionKeys maps each action to its factory-default key bindings.
//
// Key strings use the Bubble Tea notation: "ctrl+", "alt+", "shift+"
// modifiers, named keys such as "enter" or "pgup", and single characters.
var defaultActionKeys = map[string][]string{
	actionCursorUp:       {"up", "k"},
	actionCursorDown:     {"down", "j"},
	actionOpen:           {"enter", "right", "l"},
	actionBack:           {"esc", "backspace", "left", "h"},
	actionEditNote:       {"e"},
	actionNewNote:        {"n"},
	actionNewCategory:    {"c"},
	actionDeleteNote:     {"d"},
	actionTOC:            {"t"},
	actionAI:             {"a"},
	actionSplit:          {"v", "ctrl+\\"},
	actionClosePane:      {"x"},
	actionFocusNext:      {"tab"},
	actionFocusPrev:      {"shift+tab"},
	actionGrow:           {">", "]"},
	actionShrink:         {"<", "["},
	actionScrollPageUp:   {"pgup"},
	actionScrollPageDown: {"pgdown", " "},
	actionScrollHalfUp:   {"ctrl+u"},
	actionScrollHalfDown: {"ctrl+d"},
	actionCopy:           {"y"},
	actionRefresh:        {"ctrl+r", "shift+r"},
	actionLockAll:        {"shift+l"},
	actionHelp:           {"?"},
	actionQuit:           {"q", "ctrl+c"},
}

// actionDescriptions feed the footer and the help panel.
var actionDescriptions = map[string]string{
	actionCursorUp:       "up",
	actionCursorDown:     "down",
	actionOpen:           "open",
	actionBack:           "back",
	actionEditNote:       "edit",
	actionNewNote:        "new note",
	actionNewCategory:    "new category",
	actionDeleteNote:     "delete",
	actionTOC:            "contents",
	actionAI:             "assistant",
	actionSplit:          "split",
	actionClosePane:      "close pane",
	actionFocusNext:      "next pane",
	actionFocusPrev:      "prev pane",
	actionGrow:           "widen",
	actionShrink:         "narrow",
	actionScrollPageUp:   "page up",
	actionScrollPageDown: "page down",
	actionScrollHalfUp:   "half up",
	actionScrollHalfDown: "half down",
	actionCopy:           "copy",
	actionRefresh:        "reload",
	actionLockAll:        "lock all",
	actionHelp:           "help",
	actionQuit:           "quit",
}

// loadKeybindings initializes the key↔action maps from the defaults, then
// layers cfg.Keybindings on top. An override replaces the action's whole
// default key set. Unknown actions are logged and ignored.
func (m *Model) loadKeybindings(cfg config.Config) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}
	for action, key := range cfg.Keybindings {
		m.applyKeybindingOverride(action, key)
	}
	m.rebuildActionKeyIndex()
}

// applyKeybindingOverride updates a single action's key binding.
func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex constructs the reverse lookup map (keyToAction).
// Overridden actions claim their key first, then actions in name order; a
// key claimed twice keeps its first owner and the conflict is logged.
func (m *Model) rebuildActionKeyIndex() {
	m.keyToAction = map[string]string{}
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool {
		io, jo := m.isOverridden(actions[i]), m.isOverridden(actions[j])
		if io != jo {
			return io
		}
		return actions[i] < actions[j]
	})
	for _, action := range actions {
		for _, key := range m.keyForAction[action] {
			if key == "" {
				continue
			}
			if existing, ok := m.keyToAction[key]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[key] = action
		}
	}
}

func (m *Model) isOverridden(action string) bool {
	return !slices.Equal(m.keyForAction[action], defaultActionKeys[action])
}

// normalizeKeyString converts a user-provided key string into the canonical
// lowercase form used by the keybinding maps. A single uppercase letter
// becomes "shift+<letter>" because Bubble Tea reports shifted letters as
// uppercase runes.
//
//	normalizeKeyString("Ctrl+R") → "ctrl+r"
//	normalizeKeyString(" L ")    → "shift+l"
func normalizeKeyString(key string) string {
	if key == " " {
		return key
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey looks up the action bound to the given key string.
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		label := humanizeKeyLabel(key)
		if label == "" || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

func (m *Model) primaryActionKey(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return keys[0]
}

// binding exposes an action as a bubbles key.Binding for the help view.
func (m *Model) binding(action string) key.Binding {
	keys := m.keyForAction[action]
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(m.actionKeyLabels(action), "/"), actionDescriptions[action]),
	)
}

// helpKeys adapts the action tables to help.KeyMap.
type helpKeys struct {
	m *Model
}

func (h helpKeys) ShortHelp() []key.Binding {
	return h.m.bindings(actionOpen, actionBack, actionSplit, actionClosePane, actionTOC, actionFocusNext, actionHelp, actionQuit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.m.bindings(actionCursorUp, actionCursorDown, actionOpen, actionBack, actionScrollPageUp, actionScrollPageDown),
		h.m.bindings(actionEditNote, actionNewNote, actionNewCategory, actionDeleteNote, actionCopy, actionAI),
		h.m.bindings(actionSplit, actionClosePane, actionFocusNext, actionFocusPrev, actionGrow, actionShrink),
		h.m.bindings(actionTOC, actionRefresh, actionLockAll, actionHelp, actionQuit),
	}
}

func (m *Model) bindings(actions ...string) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, action := range actions {
		if len(m.keyForAction[action]) == 0 {
			continue
		}
		out = append(out, m.binding(action))
	}
	return out
}

func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		" ":         "Space",
		"backspace": "Backspace",
	}
	if label, ok := special[normalized]; ok {
		return label
	}
	parts := strings.Split(normalized, "+")
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		case "":
			parts[i] = "+"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = strings.ToUpper(part)
			} else {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
