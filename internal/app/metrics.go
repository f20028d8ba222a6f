package app

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type noteMetrics struct {
	words int
	chars int
	lines int
}

// activeNoteText is what the focused pane is working on: the editor buffer
// while editing, otherwise the note shown in the viewer.
func (m *Model) activeNoteText() string {
	if m.focusSidebar {
		return ""
	}
	_, st, ok := m.pane(m.snap.ActiveID)
	if !ok || st == nil {
		return ""
	}
	if st.editKey != "" {
		return st.editor.Value()
	}
	if st.note != nil {
		return st.note.Content
	}
	return ""
}

func computeNoteMetrics(content string) noteMetrics {
	if content == "" {
		return noteMetrics{}
	}
	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines++
	}
	return noteMetrics{
		words: len(strings.Fields(content)),
		chars: utf8.RuneCountInString(content),
		lines: lines,
	}
}

func (m *Model) noteMetricsSummary() string {
	content := m.activeNoteText()
	if strings.TrimSpace(content) == "" {
		return ""
	}
	metrics := computeNoteMetrics(content)
	return fmt.Sprintf("W:%d C:%d L:%d", metrics.words, metrics.chars, metrics.lines)
}
