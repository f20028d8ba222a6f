package workspace

// TOCOptions tunes OpenTOC.
type TOCOptions struct {
	// OnlyUpdate refreshes an existing TOC pane without focusing it and
	// never creates one. Editors use it for live refresh while typing.
	OnlyUpdate bool
}

// showHeadings enforces the single-TOC rule. It updates the existing TOC
// pane, or creates one right after the source pane, and decides focus.
func showHeadings(s Snapshot, newID PaneID, data TOCData, opts TOCOptions) Snapshot {
	data.Headings = append([]Heading(nil), data.Headings...)

	if idx := tocIndex(s.Panes); idx >= 0 {
		next := s.clone()
		toc := data
		next.Panes[idx].TOC = &toc
		if !opts.OnlyUpdate {
			next.ActiveID = next.Panes[idx].ID
		}
		return next
	}
	if opts.OnlyUpdate {
		return s
	}

	idx := indexOf(s.Panes, data.SourcePaneID)
	if idx < 0 {
		return s
	}
	toc := data
	pane := Pane{ID: newID, View: ViewTOC, TOC: &toc}
	return Snapshot{
		Panes:    insertAfter(s.Panes, data.SourcePaneID, pane),
		Ratios:   splitRatio(s.Ratios, idx),
		ActiveID: newID,
	}
}

// Anchor locates a rendered heading inside a pane.
type Anchor struct {
	PaneID    PaneID
	HeadingID string
	Line      int
}

// AnchorRegistry maps rendered headings to their position in each content
// pane. Content viewers register after every render; the TOC pane looks
// anchors up when a heading is activated.
type AnchorRegistry struct {
	byPane map[PaneID]map[string]int
}

// NewAnchorRegistry returns an empty registry.
func NewAnchorRegistry() *AnchorRegistry {
	return &AnchorRegistry{byPane: map[PaneID]map[string]int{}}
}

// Register replaces the anchors of a pane. headingID → rendered line.
func (r *AnchorRegistry) Register(pane PaneID, lines map[string]int) {
	if len(lines) == 0 {
		delete(r.byPane, pane)
		return
	}
	copied := make(map[string]int, len(lines))
	for id, line := range lines {
		copied[id] = line
	}
	r.byPane[pane] = copied
}

// Forget drops every anchor of a pane.
func (r *AnchorRegistry) Forget(pane PaneID) {
	delete(r.byPane, pane)
}

// Lookup finds headingID, searching panes in workspace order so the leftmost
// pane showing the heading wins. TOC panes never hold anchors.
func (r *AnchorRegistry) Lookup(panes []Pane, headingID string) (Anchor, bool) {
	for _, p := range panes {
		if p.View == ViewTOC {
			continue
		}
		line, ok := r.byPane[p.ID][headingID]
		if ok {
			return Anchor{PaneID: p.ID, HeadingID: headingID, Line: line}, true
		}
	}
	return Anchor{}, false
}

// prune forgets panes that are no longer part of the workspace.
func (r *AnchorRegistry) prune(panes []Pane) {
	for id := range r.byPane {
		if indexOf(panes, id) < 0 {
			delete(r.byPane, id)
		}
	}
}
