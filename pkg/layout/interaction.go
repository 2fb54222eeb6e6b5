package layout

// Interaction commands. Pointer coordinates arrive in screen space and
// are inverted through the viewport before touching the simulation, so
// the engine stays agnostic to whatever surface renders it.
//
// Each node moves through an idle → dragging → idle state machine; at
// most one node is dragged at a time.

// dragReheatAlpha is the temperature a drag raises the simulation to
// so neighbors visibly react while a node is held.
const dragReheatAlpha = 0.3

// PointerDown begins a drag if the pointer hits a node's circle.
// It reports whether a drag started.
func (e *Engine) PointerDown(sx, sy float64) bool {
	x, y := e.viewport.Invert(sx, sy)
	i := e.hitTest(x, y)
	if i < 0 {
		return false
	}
	e.dragNode = i
	e.nodes[i].pinned = true
	e.nodes[i].pinX = x
	e.nodes[i].pinY = y
	e.nodes[i].x = x
	e.nodes[i].y = y
	e.nodes[i].vx = 0
	e.nodes[i].vy = 0
	e.Reheat(dragReheatAlpha)
	return true
}

// PointerMove updates the dragged node's pin to the pointer position.
// While dragging, the node's position is the pointer position exactly;
// forces never move it. A move without an active drag is a no-op.
func (e *Engine) PointerMove(sx, sy float64) {
	if e.dragNode < 0 {
		return
	}
	x, y := e.viewport.Invert(sx, sy)
	n := &e.nodes[e.dragNode]
	n.pinX = x
	n.pinY = y
	n.x = x
	n.y = y
	e.Reheat(dragReheatAlpha)
}

// PointerUp ends the drag. The node's pin is cleared and it rejoins
// the free simulation from wherever it was dropped.
func (e *Engine) PointerUp() {
	if e.dragNode < 0 {
		return
	}
	n := &e.nodes[e.dragNode]
	n.pinned = false
	n.vx = 0
	n.vy = 0
	e.dragNode = -1
}

// Dragging returns the id of the node currently being dragged.
func (e *Engine) Dragging() (string, bool) {
	if e.dragNode < 0 {
		return "", false
	}
	return e.graph.Nodes[e.dragNode].ID, true
}

// Click resolves the node under the pointer and emits it to the
// registered click handler. It reports whether a node was hit.
func (e *Engine) Click(sx, sy float64) bool {
	x, y := e.viewport.Invert(sx, sy)
	i := e.hitTest(x, y)
	if i < 0 {
		return false
	}
	if e.onClick != nil {
		e.onClick(e.graph.Nodes[i])
	}
	return true
}

// Pan shifts the viewport; rendering only, the simulation is untouched.
func (e *Engine) Pan(dx, dy float64) {
	e.viewport.Pan(dx, dy)
}

// Zoom scales the viewport around a screen focus point, clamped to the
// viewport's scale bounds.
func (e *Engine) Zoom(factor, fx, fy float64) {
	e.viewport.ZoomAt(factor, fx, fy)
}

// hitTest returns the index of the topmost node whose circle contains
// the world point, or -1. Later nodes draw on top, so iterate from the
// end.
func (e *Engine) hitTest(x, y float64) int {
	r := e.cfg.NodeRadius
	for i := len(e.nodes) - 1; i >= 0; i-- {
		dx := e.nodes[i].x - x
		dy := e.nodes[i].y - y
		if dx*dx+dy*dy <= r*r {
			return i
		}
	}
	return -1
}
