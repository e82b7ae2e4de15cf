package widget

// DragCounter turns the nested enter/leave events of a composite drop target
// into one stable "drag in progress" signal. Each nested element fires its own
// enter/leave pair, so a plain boolean would flicker whenever the pointer
// crosses an inner boundary; the depth only returns to zero once the pointer
// has left every element.
//
// Only Dragging is meant for rendering. The depth can drift if the platform
// drops events; Drop is the only point where it is resynchronized.
type DragCounter struct {
	depth    int
	dragging bool
}

// Enter records a drag entering a (possibly nested) element. items is the
// number of items the drag advertises.
func (d *DragCounter) Enter(items int) {
	d.depth++
	if items > 0 {
		d.dragging = true
	}
}

func (d *DragCounter) Leave() {
	d.depth--
	if d.depth == 0 {
		d.dragging = false
	}
}

// Over reports whether the platform's default "reject drop" behavior must be
// suppressed. It always is; without that the drop is never delivered.
func (d *DragCounter) Over() bool {
	return true
}

// Drop ends the gesture unconditionally.
func (d *DragCounter) Drop() {
	d.depth = 0
	d.dragging = false
}

func (d *DragCounter) Dragging() bool {
	return d.dragging
}
