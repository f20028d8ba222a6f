package workspace

// The pane store is a set of copy-on-write helpers over an ordered pane list.
// None of them mutate their input; callers always get a fresh slice back.

// initialPanes returns the single pane every workspace starts with.
func initialPanes(id PaneID) []Pane {
	return []Pane{{ID: id, View: ViewCategory}}
}

// indexOf returns the position of id in panes, or -1.
func indexOf(panes []Pane, id PaneID) int {
	for i, p := range panes {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// getPane returns a copy of the pane with the given id.
func getPane(panes []Pane, id PaneID) (Pane, bool) {
	idx := indexOf(panes, id)
	if idx < 0 {
		return Pane{}, false
	}
	return panes[idx].clone(), true
}

// patchPane merges patch into the pane with the given id. Unknown ids return
// the list unchanged.
func patchPane(panes []Pane, id PaneID, patch PanePatch) []Pane {
	idx := indexOf(panes, id)
	if idx < 0 || patch.IsZero() {
		return panes
	}
	next := append([]Pane(nil), panes...)
	next[idx] = patch.apply(next[idx])
	return next
}

// insertAfter places pane immediately after anchor. An unknown anchor returns
// the list unchanged.
func insertAfter(panes []Pane, anchor PaneID, pane Pane) []Pane {
	idx := indexOf(panes, anchor)
	if idx < 0 {
		return panes
	}
	next := make([]Pane, 0, len(panes)+1)
	next = append(next, panes[:idx+1]...)
	next = append(next, pane)
	next = append(next, panes[idx+1:]...)
	return next
}

// removePane drops the pane with the given id unless it is the last one.
func removePane(panes []Pane, id PaneID) []Pane {
	idx := indexOf(panes, id)
	if idx < 0 || len(panes) <= 1 {
		return panes
	}
	next := make([]Pane, 0, len(panes)-1)
	next = append(next, panes[:idx]...)
	next = append(next, panes[idx+1:]...)
	return next
}

// tocIndex returns the position of the TOC pane, or -1.
func tocIndex(panes []Pane) int {
	for i, p := range panes {
		if p.View == ViewTOC {
			return i
		}
	}
	return -1
}
