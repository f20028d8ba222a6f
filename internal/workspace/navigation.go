package workspace

// NavRequest asks a pane to move to a view and/or show an item. Both fields
// are optional.
type NavRequest struct {
	View *View
	Item *ItemRef
}

// NavigateTo builds a request for a view change only.
func NavigateTo(v View) NavRequest {
	return NavRequest{View: &v}
}

// Open builds a request that shows item, optionally switching view too.
func Open(item ItemRef, view ...View) NavRequest {
	req := NavRequest{Item: &item}
	if len(view) > 0 {
		v := view[0]
		req.View = &v
	}
	return req
}

// Transition computes the patch that moves pane to the state requested by
// req. It is a pure function; the rules are evaluated in order:
//
//  1. AI items or the AI view switch to the AI surface for the item's
//     category (or the pane's current one) and drop selection and editor.
//  2. Items opened for edit or create, and script items, go to the editor.
//  3. Otherwise the requested view is applied, clearing the editor unless
//     it is Notes and the selection unless it is Category. A plain note item
//     becomes the selection and forces Category, where selections render.
//
// Any item category id becomes the pane's active category.
func Transition(pane Pane, req NavRequest) PanePatch {
	item := req.Item

	if (item != nil && item.Type == ItemAI) || (req.View != nil && *req.View == ViewAI) {
		category := pane.ActiveCategory
		if item != nil && item.CategoryID != "" {
			category = item.CategoryID
		}
		return PanePatch{
			View:           viewPtr(ViewAI),
			ActiveCategory: stringPtr(category),
			ClearSelected:  true,
			ClearEditing:   true,
			ClearTOC:       true,
		}
	}

	if item != nil && item.opensEditor() {
		patch := PanePatch{
			View:          viewPtr(ViewNotes),
			EditingNote:   item,
			ClearSelected: true,
			ClearTOC:      true,
		}
		if item.CategoryID != "" {
			patch.ActiveCategory = stringPtr(item.CategoryID)
		}
		return patch
	}

	var patch PanePatch
	if req.View != nil {
		v := *req.View
		patch.View = viewPtr(v)
		if v != ViewNotes {
			patch.ClearEditing = true
		}
		if v != ViewCategory {
			patch.ClearSelected = true
		}
		if v != ViewTOC {
			patch.ClearTOC = true
		}
	}
	if item != nil {
		patch.SelectedItem = item
		patch.ClearSelected = false
		if item.Type == ItemNote {
			patch.View = viewPtr(ViewCategory)
			patch.ClearEditing = true
			patch.ClearTOC = true
		}
		if item.CategoryID != "" {
			patch.ActiveCategory = stringPtr(item.CategoryID)
		}
	}
	return patch
}
