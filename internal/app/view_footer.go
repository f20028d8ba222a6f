package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatus draws the footer as exactly rows lines of the given width.
//
// The rows come from buildStatusRows and are padded with blank lines when
// fewer are needed. The whole footer takes the warning colour while a
// warning status is shown, the edit colour while a pane editor has focus,
// and the muted status colour otherwise. Each line gets a one-cell left
// margin and is truncated to fit.
func (m *Model) renderStatus(width, rows int) string {
	statusRows, _ := m.buildStatusRows(width, rows)
	style := statusStyle
	switch {
	case m.statusWarn:
		style = warnStatus
	case m.mode == modeEditNote:
		style = editStatus
	}
	for len(statusRows) < rows {
		statusRows = append(statusRows, "")
	}

	rendered := make([]string, 0, len(statusRows))
	for _, line := range statusRows {
		line = " " + truncate(line, max(0, width-1))
		rendered = append(rendered, style.Width(width).Render(line))
	}
	return strings.Join(rendered, "\n")
}

// buildStatusRows packs the footer segments into at most rowLimit rows and
// reports whether everything fit.
//
// Segments come in three groups, each prefixed on its first segment: the
// key hints ("Keys:"), the context of the active pane ("Context:") and the
// current status message ("Status:"). They are joined with " | " and flow
// onto the next row when the current one is full. A segment wider than the
// footer is cut with an ellipsis. Once the last row is full, the remaining
// text is appended and the row truncated, and fit is reported false. The
// layout uses that result to decide whether to give the footer another row.
func (m *Model) buildStatusRows(width, rowLimit int) ([]string, bool) {
	if width <= 0 || rowLimit <= 0 {
		return nil, true
	}

	help := m.statusHelpSegments()
	context := m.statusContextSegments()
	status := m.statusMessageSegment()

	segments := make([]string, 0, len(help)+len(context)+2)
	if len(help) > 0 {
		segments = append(segments, "Keys: "+help[0])
		segments = append(segments, help[1:]...)
	}
	if len(context) > 0 {
		segments = append(segments, "Context: "+context[0])
		segments = append(segments, context[1:]...)
	}
	if status != "" {
		segments = append(segments, "Status: "+status)
	}

	rows := make([]string, 1, rowLimit)
	rowIndex := 0
	fit := true
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segment := seg
		if lipgloss.Width(segment) > width {
			segment = truncateWithEllipsis(segment, width)
		}

		candidate := segment
		if rows[rowIndex] != "" {
			candidate = rows[rowIndex] + " | " + segment
		}
		if lipgloss.Width(candidate) <= width {
			rows[rowIndex] = candidate
			continue
		}
		if rowIndex+1 < rowLimit {
			rowIndex++
			rows = append(rows, segment)
			continue
		}

		fit = false
		if rows[rowIndex] == "" {
			rows[rowIndex] = truncateWithEllipsis(segment, width)
		} else {
			rows[rowIndex] = truncateWithEllipsis(rows[rowIndex]+" | "+segment, width)
		}
		break
	}
	return rows, fit
}

// statusHelpSegments lists the key hints for the current mode. Prompts and
// the editor have fixed hints; browsing uses the short help of the current
// key bindings, so user overrides show up in the footer.
func (m *Model) statusHelpSegments() []string {
	switch m.mode {
	case modeEditNote:
		return []string{"Ctrl+S save", "Esc cancel", "Ctrl+Z undo", "Ctrl+Y redo", "Ctrl+T contents", "Ctrl+N next pane"}
	case modeNewNote, modeNewCategory:
		return []string{"Enter create", "Esc cancel"}
	case modeUnlock:
		return []string{"Enter unlock", "Esc cancel"}
	case modeConfirmDelete:
		return []string{"y confirm delete", "n/Esc cancel"}
	}
	if m.showHelp {
		return []string{"any key closes help"}
	}
	bindings := helpKeys{m: m}.ShortHelp()
	segments := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, h.Key+" "+h.Desc)
	}
	return segments
}

// statusContextSegments describes the workspace: metrics of the note in the
// active pane, the pane count once there is more than one pane, and a
// spinner while catalog work is in flight.
func (m *Model) statusContextSegments() []string {
	parts := make([]string, 0, 3)
	if m.mode == modeBrowse || m.mode == modeEditNote {
		if metrics := m.noteMetricsSummary(); metrics != "" {
			parts = append(parts, metrics)
		}
	}
	if n := len(m.snap.Panes); n > 1 {
		parts = append(parts, fmt.Sprintf("%d panes", n))
	}
	if m.busy() {
		parts = append(parts, m.spinner.View()+" working")
	}
	return parts
}

func (m *Model) statusMessageSegment() string {
	return strings.TrimSpace(m.status)
}
