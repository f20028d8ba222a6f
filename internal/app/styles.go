package app

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"
)

var (
	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	inactivePane   = paneStyle.Copy().BorderForeground(lipgloss.Color("238"))
	previewPane    = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	editPane       = paneStyle.Copy().BorderForeground(lipgloss.Color("204"))
	tocPane        = paneStyle.Copy().BorderForeground(lipgloss.Color("108"))
	selectedStyle  = lipgloss.NewStyle().Reverse(true)
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("58")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	crumbStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	editStatus     = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	warnStatus     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	lockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))

	editorFenceLine = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	editorCodeLine  = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
)

// paneFrame picks the border for a pane: edit and TOC panes keep their own
// colour, anything else is only coloured while active.
func paneFrame(active, editing, toc bool) lipgloss.Style {
	switch {
	case editing:
		if active {
			return editPane
		}
		return editPane.Copy().BorderForeground(lipgloss.Color("132"))
	case toc:
		return tocPane
	case active:
		return previewPane
	default:
		return inactivePane
	}
}

// swatch renders a category colour preset as a small block.
func swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

// applyEditorTheme styles a pane editor. Focused and blurred editors share
// gutter colours; only the text and cursor line differ.
func applyEditorTheme(editor *textarea.Model) {
	text := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("218"))
	theme := func(st textarea.Style, body, cursorLine, cursorNumber lipgloss.Style) textarea.Style {
		st.Base = text
		st.Text = body
		st.CursorLine = cursorLine
		st.CursorLineNumber = cursorNumber
		st.LineNumber = gutter
		st.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
		st.Placeholder = mutedStyle
		return st
	}

	focused, blurred := textarea.DefaultStyles()
	editor.FocusedStyle = theme(focused, text,
		text.Background(lipgloss.Color("53")), gutter.Bold(true))
	editor.BlurredStyle = theme(blurred, mutedStyle,
		lipgloss.NewStyle().Foreground(lipgloss.Color("246")), gutter)
	editor.Prompt = "│ "
	editor.EndOfBufferCharacter = ' '
	editor.ShowLineNumbers = true
}
