package workspace

import "github.com/treykane/paneboard/internal/logging"

var wsLog = logging.New("workspace")

// Snapshot is one consistent state of the workspace: the ordered panes, their
// width ratios (index-aligned, summing to 1), and the active pane id.
type Snapshot struct {
	Panes    []Pane
	Ratios   []float64
	ActiveID PaneID
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Panes:    make([]Pane, len(s.Panes)),
		Ratios:   append([]float64(nil), s.Ratios...),
		ActiveID: s.ActiveID,
	}
	for i, p := range s.Panes {
		out.Panes[i] = p.clone()
	}
	return out
}

// Pane returns a copy of the pane with the given id.
func (s Snapshot) Pane(id PaneID) (Pane, bool) {
	return getPane(s.Panes, id)
}

// Active returns the active pane, falling back to the first one.
func (s Snapshot) Active() Pane {
	if p, ok := getPane(s.Panes, s.ActiveID); ok {
		return p
	}
	return s.Panes[0].clone()
}

// Index returns the position of id, or -1.
func (s Snapshot) Index(id PaneID) int {
	return indexOf(s.Panes, id)
}

// TOCPane returns the TOC pane if one exists.
func (s Snapshot) TOCPane() (Pane, bool) {
	idx := tocIndex(s.Panes)
	if idx < 0 {
		return Pane{}, false
	}
	return s.Panes[idx].clone(), true
}

// ReloadSource is a host-wide refresh broadcast. Subscribe registers fn and
// returns the function that removes it.
type ReloadSource interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDGenerator replaces NewPaneID, mainly for deterministic tests.
func WithIDGenerator(next func() PaneID) Option {
	return func(c *Controller) {
		if next != nil {
			c.nextID = next
		}
	}
}

// Controller owns the workspace state and is the only thing allowed to
// change it. It is not safe for concurrent use; the UI event loop drives it.
type Controller struct {
	state   Snapshot
	drag    *DragSession
	anchors *AnchorRegistry
	nextID  func() PaneID

	unsubscribe func()
}

// New returns a controller holding the initial single-pane workspace.
func New(opts ...Option) *Controller {
	c := &Controller{
		anchors: NewAnchorRegistry(),
		nextID:  NewPaneID,
	}
	for _, opt := range opts {
		opt(c)
	}
	id := c.nextID()
	c.state = Snapshot{
		Panes:    initialPanes(id),
		Ratios:   []float64{1},
		ActiveID: id,
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return c.state.clone()
}

func (c *Controller) commit(next Snapshot) Snapshot {
	if indexOf(next.Panes, next.ActiveID) < 0 {
		next.ActiveID = next.Panes[0].ID
	}
	c.state = next
	c.anchors.prune(next.Panes)
	return c.Snapshot()
}

// Split copies the pane into a new pane right after it, halves its width
// and focuses the copy. A TOC pane is copied as a blank pane so the
// workspace keeps a single TOC.
func (c *Controller) Split(id PaneID) Snapshot {
	idx := indexOf(c.state.Panes, id)
	if idx < 0 {
		wsLog.Debug("split ignored for unknown pane", "pane", id)
		return c.Snapshot()
	}
	copied := c.state.Panes[idx].clone()
	copied.ID = c.nextID()
	if copied.View == ViewTOC {
		copied.View = ViewBlank
		copied.TOC = nil
	}
	return c.commit(Snapshot{
		Panes:    insertAfter(c.state.Panes, id, copied),
		Ratios:   splitRatio(c.state.Ratios, idx),
		ActiveID: copied.ID,
	})
}

// Close removes a pane and its width. Closing the last pane does nothing. If
// the closed pane was active, focus moves to the next sibling, else the
// previous one.
func (c *Controller) Close(id PaneID) Snapshot {
	idx := indexOf(c.state.Panes, id)
	if idx < 0 || len(c.state.Panes) <= 1 {
		return c.Snapshot()
	}
	active := c.state.ActiveID
	if active == id {
		switch {
		case idx+1 < len(c.state.Panes):
			active = c.state.Panes[idx+1].ID
		case idx > 0:
			active = c.state.Panes[idx-1].ID
		}
	}
	if c.drag != nil && (c.drag.left == id || c.drag.right == id) {
		c.drag = nil
	}
	return c.commit(Snapshot{
		Panes:    removePane(c.state.Panes, id),
		Ratios:   removeRatio(c.state.Ratios, idx),
		ActiveID: active,
	})
}

// Focus makes id the active pane.
func (c *Controller) Focus(id PaneID) Snapshot {
	if indexOf(c.state.Panes, id) < 0 || c.state.ActiveID == id {
		return c.Snapshot()
	}
	next := c.state.clone()
	next.ActiveID = id
	return c.commit(next)
}

// Navigate focuses the pane and applies the navigation state machine to it.
func (c *Controller) Navigate(id PaneID, req NavRequest) Snapshot {
	pane, ok := getPane(c.state.Panes, id)
	if !ok {
		wsLog.Debug("navigate ignored for unknown pane", "pane", id)
		return c.Snapshot()
	}
	patch := Transition(pane, req)
	if patch.View != nil && *patch.View == ViewTOC && pane.View != ViewTOC {
		// Only OpenTOC creates a TOC pane; leave this one as it is.
		patch = PanePatch{}
	}
	next := c.state.clone()
	next.ActiveID = id
	next.Panes = patchPane(next.Panes, id, patch)
	return c.commit(next)
}

// Patch merges a partial update into a pane without touching focus.
func (c *Controller) Patch(id PaneID, patch PanePatch) Snapshot {
	pane, ok := getPane(c.state.Panes, id)
	if !ok {
		return c.Snapshot()
	}
	if patch.View != nil && *patch.View == ViewTOC {
		// TOC panes are only created through OpenTOC.
		patch.View = nil
	}
	if patch.View != nil || pane.View != ViewTOC {
		// TOC data lives on the TOC pane only.
		patch.TOC = nil
		patch.ClearTOC = true
	}
	next := c.state.clone()
	next.Panes = patchPane(next.Panes, id, patch)
	return c.commit(next)
}

// BeginResize starts dragging the divider between panes divider and
// divider+1. It reports false, and starts nothing, when the container has
// no width or the divider does not exist.
func (c *Controller) BeginResize(divider int, pointerX, containerWidth float64) bool {
	session, ok := beginDrag(c.state.Panes, c.state.Ratios, divider, pointerX, containerWidth)
	if !ok {
		wsLog.Debug("resize rejected", "divider", divider, "container_width", containerWidth)
		return false
	}
	c.drag = session
	return true
}

// Dragging reports whether a resize is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// DragSession returns a copy of the active drag session.
func (c *Controller) DragSession() (DragSession, bool) {
	if c.drag == nil {
		return DragSession{}, false
	}
	out := *c.drag
	out.Baseline = append([]float64(nil), c.drag.Baseline...)
	return out, true
}

// PointerMove applies the pointer position to the active drag. Without a
// session, or once the session was invalidated, it changes nothing.
func (c *Controller) PointerMove(pointerX float64) Snapshot {
	if c.drag == nil {
		return c.Snapshot()
	}
	ratios, ok := c.drag.apply(c.state.Panes, c.state.Ratios, pointerX)
	if !ok {
		wsLog.Debug("drag invalidated", "divider", c.drag.DividerIndex)
		c.drag = nil
		return c.Snapshot()
	}
	next := c.state.clone()
	next.Ratios = ratios
	return c.commit(next)
}

// PointerUp ends the drag session.
func (c *Controller) PointerUp() Snapshot {
	c.drag = nil
	return c.Snapshot()
}

// OpenTOC shows headings from sourceID in the workspace TOC pane.
func (c *Controller) OpenTOC(sourceID PaneID, headings []Heading, onActivate HeadingActivator, opts TOCOptions) Snapshot {
	if indexOf(c.state.Panes, sourceID) < 0 {
		wsLog.Debug("toc ignored for unknown source", "pane", sourceID)
		return c.Snapshot()
	}
	data := TOCData{Headings: headings, SourcePaneID: sourceID, OnActivate: onActivate}
	if tocIndex(c.state.Panes) < 0 && !opts.OnlyUpdate {
		return c.commit(showHeadings(c.state, c.nextID(), data, opts))
	}
	return c.commit(showHeadings(c.state, "", data, opts))
}

// RegisterAnchors records where headings were rendered in a pane.
func (c *Controller) RegisterAnchors(id PaneID, lines map[string]int) {
	if indexOf(c.state.Panes, id) < 0 {
		return
	}
	c.anchors.Register(id, lines)
}

// ForgetAnchors drops a pane's anchors, e.g. when it stops showing content.
func (c *Controller) ForgetAnchors(id PaneID) {
	c.anchors.Forget(id)
}

// ActivateHeading resolves a TOC click. When some content pane rendered the
// heading, that pane is focused and its anchor returned so the view can
// scroll to and highlight it. Otherwise the TOC's fallback is invoked.
func (c *Controller) ActivateHeading(headingID string) (Anchor, bool) {
	if anchor, ok := c.anchors.Lookup(c.state.Panes, headingID); ok {
		c.Focus(anchor.PaneID)
		return anchor, true
	}
	if toc, ok := c.state.TOCPane(); ok && toc.TOC.OnActivate != nil {
		toc.TOC.OnActivate(headingID)
	}
	return Anchor{}, false
}

// Mount subscribes onReload to the host reload broadcast. Mounting again
// replaces the previous subscription.
func (c *Controller) Mount(src ReloadSource, onReload func()) {
	c.Unmount()
	if src == nil || onReload == nil {
		return
	}
	c.unsubscribe = src.Subscribe(onReload)
}

// Unmount drops the reload subscription.
func (c *Controller) Unmount() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
