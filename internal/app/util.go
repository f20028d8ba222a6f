package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// truncate fits a string to the given terminal width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "")
}

func truncateWithEllipsis(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return ansi.Truncate(value, width-1, "") + "…"
}

// truncatePlain cuts unstyled text (titles, category names) by display cells.
func truncatePlain(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// wrap breaks plain text to width, keeping at least one line.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	return strings.Split(wordwrap.String(s, width), "\n")
}

// padBlock fits content into exactly width x height cells, blank-filling
// so stale text from the previous frame is overwritten.
func padBlock(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	src := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(src) {
			line = truncate(src[i], width)
		}
		out[i] = line + strings.Repeat(" ", max(0, width-lipgloss.Width(line)))
	}
	return strings.Join(out, "\n")
}

func clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
