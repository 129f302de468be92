package live

import "github.com/charmbracelet/bubbles/viewport"

// DefaultScrollTolerance is how many lines above the bottom still count as tailing.
const DefaultScrollTolerance = 5

// scrollAnchor keeps the finished log pinned to the bottom while the operator
// is tailing it, and leaves it alone once they scroll into older entries.
type scrollAnchor struct {
	tolerance int
	follow    bool
}

func newScrollAnchor(tolerance int) scrollAnchor {
	if tolerance < 0 {
		tolerance = DefaultScrollTolerance
	}
	return scrollAnchor{tolerance: tolerance}
}

// capture records whether vp sits at the top or within tolerance of the
// bottom. Call it before the content changes.
func (a *scrollAnchor) capture(vp viewport.Model) bool {
	a.follow = shouldFollow(vp.YOffset, vp.TotalLineCount(), vp.Height, a.tolerance)
	return a.follow
}

// restore scrolls to the new bottom when the captured position was following.
func (a *scrollAnchor) restore(vp *viewport.Model) {
	if !a.follow {
		return
	}
	vp.GotoBottom()
}

// shouldFollow is the position test behind capture.
func shouldFollow(offset, total, height, tolerance int) bool {
	if offset <= 0 {
		return true
	}
	bottom := total - height
	if bottom < 0 {
		bottom = 0
	}
	return offset >= bottom-tolerance
}
