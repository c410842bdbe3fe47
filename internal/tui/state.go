package tui

import (
	"mdboard-tui/internal/model"
)

type view int

const (
	viewBoard view = iota
	viewPrompts
	viewDocuments
	viewActivity
)

var allViews = [4]view{viewBoard, viewPrompts, viewDocuments, viewActivity}

func (v view) label() string {
	switch v {
	case viewBoard:
		return "Board"
	case viewPrompts:
		return "Prompts"
	case viewDocuments:
		return "Documents"
	case viewActivity:
		return "Activity"
	}
	return "Board"
}

func (v view) next() view {
	return view((int(v) + 1) % len(allViews))
}

func (v view) prev() view {
	return view((int(v) + len(allViews) - 1) % len(allViews))
}

type focus int

const (
	focusContent focus = iota
	focusTabBar
)

type connState int

const (
	connConnecting connState = iota
	connConnected
	connDisconnected
)

func (c connState) String() string {
	switch c {
	case connConnected:
		return "connected"
	case connDisconnected:
		return "disconnected"
	}
	return "connecting"
}

// bottomScroll is the "jump to bottom" sentinel. The render layer clips
// scroll offsets to the actual content height, so any value past the
// longest plausible overlay works.
const bottomScroll = 1 << 20

// overlayState is the modal detail layer. At most one overlay is open
// at a time; while open it captures all key input.
type overlayState interface {
	// scrollRef exposes the overlay's scroll offset for the shared
	// scroll keys.
	scrollRef() *int
}

type taskOverlay struct {
	task     model.Task
	comments []model.Comment
	scroll   int
}

// resourceOverlay shows a prompt or document. rev selects which
// historical revision is displayed: -1 means the current body,
// otherwise an index into revisions (ordered oldest to newest).
type resourceOverlay struct {
	resource  model.Resource
	revisions []model.Revision
	rev       int
	scroll    int
	kind      model.ResourceKind
}

type helpOverlay struct {
	scroll int
}

func (o *taskOverlay) scrollRef() *int     { return &o.scroll }
func (o *resourceOverlay) scrollRef() *int { return &o.scroll }
func (o *helpOverlay) scrollRef() *int     { return &o.scroll }

// body returns the markdown currently selected for display: the live
// resource body, or the body of the revision under the cursor.
func (o *resourceOverlay) body() string {
	if o.rev >= 0 && o.rev < len(o.revisions) {
		return o.revisions[o.rev].Body
	}
	return o.resource.Body
}

// shiftRevision moves the revision cursor by delta. From the current
// body (-1), stepping toward older goes to the newest stored revision;
// stepping newer is a no-op. From a stored revision, walking past the
// newest end returns to the current body, and walking below the oldest
// clamps in place. Any cursor change resets the scroll offset.
func (o *resourceOverlay) shiftRevision(delta int) {
	if len(o.revisions) == 0 {
		return
	}

	next := o.rev
	switch {
	case o.rev < 0:
		if delta >= 0 {
			return
		}
		next = len(o.revisions) - 1
	default:
		next = o.rev + delta
		if next >= len(o.revisions) {
			next = -1
		} else if next < 0 {
			next = 0
		}
	}

	if next == o.rev {
		return
	}
	o.rev = next
	o.scroll = 0
}

// clampIndex keeps a selection index valid for a collection of length n.
func clampIndex(idx, n int) int {
	if n == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
