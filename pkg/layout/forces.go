package layout

// applyLinkForce pulls each linked pair toward the spring rest length.
// Stiffness is normalized by the smaller endpoint degree so highly
// connected nodes are not torn apart by their link count. Strength
// deliberately does not enter the force; it only weights rendering.
func (e *Engine) applyLinkForce() {
	for _, l := range e.links {
		s := &e.nodes[l.source]
		t := &e.nodes[l.target]

		dx := t.x - s.x
		dy := t.y - s.y
		d := dist(dx, dy)
		if d < distEpsilon {
			d = distEpsilon
			dx = distEpsilon
			dy = 0
		}

		minDeg := e.degree[l.source]
		if e.degree[l.target] < minDeg {
			minDeg = e.degree[l.target]
		}
		k := e.cfg.LinkStiffness / float64(minDeg)

		f := k * (d - e.cfg.LinkDistance) * e.alpha
		fx := f * dx / d
		fy := f * dy / d

		s.vx += fx * e.cfg.DT
		s.vy += fy * e.cfg.DT
		t.vx -= fx * e.cfg.DT
		t.vy -= fy * e.cfg.DT
	}
}

// applyChargeForce pushes every node pair apart with an inverse-square
// repulsion, approximated through the quadtree so the pass stays near
// O(n log n). Sufficiently distant subtrees act as a single body at
// their center of mass.
func (e *Engine) applyChargeForce(tree *quadtree) {
	for i := range e.nodes {
		n := &e.nodes[i]
		fx, fy := tree.repulsion(i, n.x, n.y, e.cfg.Charge, e.cfg.Theta)
		n.vx += fx * e.alpha * e.cfg.DT
		n.vy += fy * e.alpha * e.cfg.DT
	}
}

// applyCenterForce nudges the whole arrangement so its centroid drifts
// toward the world center. The shift is uniform, preserving relative
// geometry. It is suspended during a drag: recentering then would
// slide the graph under the pointer while the pin holds one node in
// place, distorting the neighborhood instead of anchoring it.
func (e *Engine) applyCenterForce() {
	if len(e.nodes) == 0 || e.dragNode >= 0 {
		return
	}
	cx, cy := e.centroid()
	sx := (e.cfg.Width/2 - cx) * e.cfg.CenterStrength
	sy := (e.cfg.Height/2 - cy) * e.cfg.CenterStrength
	for i := range e.nodes {
		e.nodes[i].x += sx
		e.nodes[i].y += sy
	}
}

// collide runs one pass of pairwise overlap correction: any two node
// circles closer than twice the node radius are displaced apart along
// their connecting axis. Candidate pairs come from the spatial index
// rebuilt from the positions the integration step just produced.
func (e *Engine) collide() {
	if len(e.nodes) < 2 {
		return
	}

	r := e.cfg.NodeRadius
	tree := e.buildTree()

	for i := range e.nodes {
		a := &e.nodes[i]
		tree.visitWithin(a.x, a.y, 2*r, func(j int) {
			if j <= i {
				return
			}
			b := &e.nodes[j]

			dx := b.x - a.x
			dy := b.y - a.y
			d := dist(dx, dy)
			if d >= 2*r {
				return
			}
			if d < distEpsilon {
				// Coincident circles: separate along a fixed
				// axis rather than dividing by zero.
				d = distEpsilon
				dx = distEpsilon
				dy = 0
			}

			overlap := 2*r - d
			ux := dx / d
			uy := dy / d

			switch {
			case a.pinned && b.pinned:
				// Both held by pointers; leave them.
			case a.pinned:
				b.x += ux * overlap
				b.y += uy * overlap
			case b.pinned:
				a.x -= ux * overlap
				a.y -= uy * overlap
			default:
				a.x -= ux * overlap / 2
				a.y -= uy * overlap / 2
				b.x += ux * overlap / 2
				b.y += uy * overlap / 2
			}
		})
	}
}
