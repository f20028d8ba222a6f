// Package workspace implements the multi-pane workspace controller: an
// ordered list of independently navigable panes, their width ratios, split and
// close lifecycle, per-pane navigation state, focus, interactive resize, and
// the singleton table-of-contents pane.
//
// The package is pure state. Every intent on Controller takes the current
// Snapshot and produces the next one; nothing here renders, performs I/O, or
// returns errors. Operations that target a pane id which no longer exists are
// no-ops, so a late async result can never corrupt the workspace.
package workspace

import "github.com/google/uuid"

// PaneID identifies a pane for its whole lifetime.
type PaneID string

// NewPaneID returns a fresh random pane id.
func NewPaneID() PaneID {
	return PaneID("pane-" + uuid.NewString())
}

// View is the navigation state of a pane.
type View int

const (
	ViewCategory View = iota
	ViewNotes
	ViewBlank
	ViewTOC
	ViewAI
)

func (v View) String() string {
	switch v {
	case ViewCategory:
		return "category"
	case ViewNotes:
		return "notes"
	case ViewBlank:
		return "blank"
	case ViewTOC:
		return "toc"
	case ViewAI:
		return "ai"
	default:
		return "unknown"
	}
}

// ItemType names the kind of content object an ItemRef points at.
type ItemType string

const (
	ItemNote  ItemType = "note"
	ItemPDF   ItemType = "pdf"
	ItemImage ItemType = "image"
	ItemAI    ItemType = "ai"
)

// Mode is how a note is being opened.
type Mode string

const (
	ModeView   Mode = ""
	ModeEdit   Mode = "edit"
	ModeCreate Mode = "create"
)

// ItemRef references a content object shown or edited in a pane.
type ItemRef struct {
	Type       ItemType
	ID         string
	CategoryID string
	Title      string
	Mode       Mode
	// Script marks code-snippet notes, which always open in the editor.
	Script bool
}

func (r ItemRef) opensEditor() bool {
	return r.Mode == ModeEdit || r.Mode == ModeCreate || r.Script
}

// Heading is one entry of a table of contents.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// HeadingActivator is called when a TOC heading could not be located in any
// rendered pane.
type HeadingActivator func(headingID string)

// TOCData is the payload of the TOC pane.
type TOCData struct {
	Headings     []Heading
	SourcePaneID PaneID
	OnActivate   HeadingActivator
}

// Pane is one rectangular region of the workspace.
type Pane struct {
	ID             PaneID
	View           View
	ActiveCategory string
	SelectedItem   *ItemRef
	EditingNote    *ItemRef
	TOC            *TOCData
}

// clone copies the pane so the copy shares no pointers with the original.
func (p Pane) clone() Pane {
	out := p
	if p.SelectedItem != nil {
		item := *p.SelectedItem
		out.SelectedItem = &item
	}
	if p.EditingNote != nil {
		item := *p.EditingNote
		out.EditingNote = &item
	}
	if p.TOC != nil {
		toc := *p.TOC
		toc.Headings = append([]Heading(nil), p.TOC.Headings...)
		out.TOC = &toc
	}
	return out
}

// PanePatch is a shallow partial update. Nil pointer fields are left
// untouched; the Clear flags reset the matching optional field.
type PanePatch struct {
	View           *View
	ActiveCategory *string
	SelectedItem   *ItemRef
	ClearSelected  bool
	EditingNote    *ItemRef
	ClearEditing   bool
	TOC            *TOCData
	ClearTOC       bool
}

// IsZero reports whether applying the patch would change nothing.
func (p PanePatch) IsZero() bool {
	return p.View == nil && p.ActiveCategory == nil && p.SelectedItem == nil &&
		!p.ClearSelected && p.EditingNote == nil && !p.ClearEditing && p.TOC == nil && !p.ClearTOC
}

func (p PanePatch) apply(pane Pane) Pane {
	out := pane
	if p.View != nil {
		out.View = *p.View
	}
	if p.ActiveCategory != nil {
		out.ActiveCategory = *p.ActiveCategory
	}
	if p.ClearSelected {
		out.SelectedItem = nil
	}
	if p.SelectedItem != nil {
		item := *p.SelectedItem
		out.SelectedItem = &item
	}
	if p.ClearEditing {
		out.EditingNote = nil
	}
	if p.EditingNote != nil {
		item := *p.EditingNote
		out.EditingNote = &item
	}
	if p.ClearTOC {
		out.TOC = nil
	}
	if p.TOC != nil {
		toc := *p.TOC
		out.TOC = &toc
	}
	return out
}

func viewPtr(v View) *View       { return &v }
func stringPtr(s string) *string { return &s }
