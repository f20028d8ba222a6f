package workspace

import "math"

// MinRatio is the smallest share of the workspace width a pane may be split
// or dragged down to while it has at least one sibling.
const MinRatio = 0.2

// ratioTolerance is the slack allowed when checking that ratios sum to 1.
const ratioTolerance = 1e-9

func sumRatios(ratios []float64) float64 {
	total := 0.0
	for _, r := range ratios {
		total += r
	}
	return total
}

// normalize scales ratios so they sum to 1. An empty or degenerate input
// collapses to a single full-width entry.
func normalize(ratios []float64) []float64 {
	total := sumRatios(ratios)
	if len(ratios) == 0 || total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return []float64{1}
	}
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = r / total
	}
	return out
}

// splitRatio replaces the entry at index with two halves, each floored at
// MinRatio, and renormalizes. A pane already at the floor yields two panes
// slightly below it after renormalization; that is accepted.
func splitRatio(ratios []float64, index int) []float64 {
	if index < 0 || index >= len(ratios) {
		return ratios
	}
	w := ratios[index]
	left := math.Max(w/2, MinRatio)
	right := math.Max(w-left, MinRatio)
	next := make([]float64, 0, len(ratios)+1)
	next = append(next, ratios[:index]...)
	next = append(next, left, right)
	next = append(next, ratios[index+1:]...)
	return normalize(next)
}

// removeRatio drops the entry at index. Its share goes to the neighbour on
// the left (the pane it was split from), or the right one for the first
// entry, before renormalizing. Removing the last entry resets to [1].
func removeRatio(ratios []float64, index int) []float64 {
	if index < 0 || index >= len(ratios) {
		return ratios
	}
	freed := ratios[index]
	next := make([]float64, 0, len(ratios)-1)
	next = append(next, ratios[:index]...)
	next = append(next, ratios[index+1:]...)
	if len(next) == 0 {
		return []float64{1}
	}
	if index > 0 {
		next[index-1] += freed
	} else {
		next[0] += freed
	}
	return normalize(next)
}

// DragSession is the state captured on pointer-down over a divider. The
// divider at DividerIndex sits between panes DividerIndex and DividerIndex+1.
type DragSession struct {
	DividerIndex   int
	StartX         float64
	Baseline       []float64
	ContainerWidth float64

	left, right PaneID
	order       []PaneID
}

// beginDrag starts a drag over the given divider. It refuses when the
// container has no measurable width or the divider does not exist.
func beginDrag(panes []Pane, ratios []float64, divider int, pointerX, containerWidth float64) (*DragSession, bool) {
	if containerWidth <= 0 || math.IsNaN(containerWidth) {
		return nil, false
	}
	if divider < 0 || divider+1 >= len(panes) || len(ratios) != len(panes) {
		return nil, false
	}
	order := make([]PaneID, len(panes))
	for i, p := range panes {
		order[i] = p.ID
	}
	return &DragSession{
		DividerIndex:   divider,
		StartX:         pointerX,
		Baseline:       append([]float64(nil), ratios...),
		ContainerWidth: containerWidth,
		left:           panes[divider].ID,
		right:          panes[divider+1].ID,
		order:          order,
	}, true
}

// dragRatios is the resize math: convert the pointer delta to ratio space,
// move the divider between index and index+1 within the pair's combined
// share, clamp both sides to MinRatio, and renormalize.
func dragRatios(baseline []float64, index int, deltaPx, containerWidth float64) []float64 {
	deltaRatio := (deltaPx / containerWidth) * sumRatios(baseline)
	pairSum := baseline[index] + baseline[index+1]
	left := math.Max(MinRatio, math.Min(pairSum-MinRatio, baseline[index]+deltaRatio))
	next := append([]float64(nil), baseline...)
	next[index] = left
	next[index+1] = pairSum - left
	return normalize(next)
}

// apply computes the ratios for a pointer at pointerX. The second result is
// false once the session is no longer valid because one of its panes was
// closed or the pair stopped being adjacent.
//
// While the pane order is the one captured at drag start the math runs on the
// baseline. If an unrelated pane was split or closed mid-drag, the dragged
// pair keeps the left/right proportion the baseline math produces and the
// other panes keep their current shares.
func (d *DragSession) apply(panes []Pane, ratios []float64, pointerX float64) ([]float64, bool) {
	idx := indexOf(panes, d.left)
	if idx < 0 || idx+1 >= len(panes) || panes[idx+1].ID != d.right || len(ratios) != len(panes) {
		return ratios, false
	}
	dragged := dragRatios(d.Baseline, d.DividerIndex, pointerX-d.StartX, d.ContainerWidth)
	if d.sameOrder(panes) {
		return dragged, true
	}

	share := dragged[d.DividerIndex] / (dragged[d.DividerIndex] + dragged[d.DividerIndex+1])
	next := append([]float64(nil), ratios...)
	pairSum := next[idx] + next[idx+1]
	left := share * pairSum
	if pairSum >= 2*MinRatio {
		left = math.Max(MinRatio, math.Min(pairSum-MinRatio, left))
	}
	next[idx] = left
	next[idx+1] = pairSum - left
	return normalize(next), true
}

func (d *DragSession) sameOrder(panes []Pane) bool {
	if len(panes) != len(d.order) {
		return false
	}
	for i, p := range panes {
		if p.ID != d.order[i] {
			return false
		}
	}
	return true
}
