package layout

// quadtree is the spatial index rebuilt each tick from current node
// positions. It serves two purposes: Barnes-Hut approximation of the
// all-pairs repulsion, and neighborhood enumeration for collision
// correction.
type quadtree struct {
	pts  []qpoint
	root *quadCell
}

type qpoint struct {
	x, y float64
}

type quadCell struct {
	x0, y0, x1, y1 float64

	// children is nil for leaves; points holds leaf members.
	children *[4]*quadCell
	points   []int

	mass       float64
	sumX, sumY float64
}

// maxQuadDepth stops subdivision for coincident points, which would
// otherwise split forever.
const maxQuadDepth = 32

// buildTree snapshots current positions into a fresh quadtree covering
// the square bounding box of all nodes.
func (e *Engine) buildTree() *quadtree {
	t := &quadtree{pts: make([]qpoint, len(e.nodes))}
	if len(e.nodes) == 0 {
		return t
	}

	minX, minY := e.nodes[0].x, e.nodes[0].y
	maxX, maxY := minX, minY
	for i := range e.nodes {
		t.pts[i] = qpoint{x: e.nodes[i].x, y: e.nodes[i].y}
		if t.pts[i].x < minX {
			minX = t.pts[i].x
		}
		if t.pts[i].x > maxX {
			maxX = t.pts[i].x
		}
		if t.pts[i].y < minY {
			minY = t.pts[i].y
		}
		if t.pts[i].y > maxY {
			maxY = t.pts[i].y
		}
	}

	size := maxX - minX
	if maxY-minY > size {
		size = maxY - minY
	}
	size++ // keep the max edge strictly inside

	t.root = &quadCell{x0: minX, y0: minY, x1: minX + size, y1: minY + size}
	for i := range t.pts {
		t.insert(t.root, i, 0)
	}
	return t
}

func (t *quadtree) insert(c *quadCell, i int, depth int) {
	p := t.pts[i]
	c.mass++
	c.sumX += p.x
	c.sumY += p.y

	if c.children == nil {
		if len(c.points) == 0 || depth >= maxQuadDepth {
			c.points = append(c.points, i)
			return
		}
		// Split the leaf and push its members down a level.
		moved := c.points
		c.points = nil
		c.children = &[4]*quadCell{}
		for _, j := range moved {
			t.insert(t.childFor(c, t.pts[j]), j, depth+1)
		}
	}

	t.insert(t.childFor(c, p), i, depth+1)
}

func (t *quadtree) childFor(c *quadCell, p qpoint) *quadCell {
	mx := (c.x0 + c.x1) / 2
	my := (c.y0 + c.y1) / 2
	qi := 0
	x0, y0, x1, y1 := c.x0, c.y0, mx, my
	if p.x >= mx {
		qi |= 1
		x0, x1 = mx, c.x1
	}
	if p.y >= my {
		qi |= 2
		y0, y1 = my, c.y1
	}
	if c.children[qi] == nil {
		c.children[qi] = &quadCell{x0: x0, y0: y0, x1: x1, y1: y1}
	}
	return c.children[qi]
}

// repulsion accumulates the inverse-square charge force on the point
// (x,y), skipping node index skip. Internal cells whose size-to-
// distance ratio falls under theta contribute as one body at their
// center of mass.
func (t *quadtree) repulsion(skip int, x, y, charge, theta float64) (float64, float64) {
	var fx, fy float64

	var walk func(c *quadCell)
	walk = func(c *quadCell) {
		if c == nil || c.mass == 0 {
			return
		}

		if c.children != nil {
			comX := c.sumX / c.mass
			comY := c.sumY / c.mass
			dx := x - comX
			dy := y - comY
			d := dist(dx, dy)
			size := c.x1 - c.x0
			if d > 0 && size/d < theta {
				if d < distEpsilon {
					d = distEpsilon
				}
				f := charge * c.mass / (d * d)
				fx += f * dx / d
				fy += f * dy / d
				return
			}
			for _, child := range c.children {
				walk(child)
			}
			return
		}

		for _, j := range c.points {
			if j == skip {
				continue
			}
			dx := x - t.pts[j].x
			dy := y - t.pts[j].y
			d := dist(dx, dy)
			if d < distEpsilon {
				// Coincident pair: push along a fixed axis
				// with the capped magnitude.
				d = distEpsilon
				dx = distEpsilon
				dy = 0
			}
			f := charge / (d * d)
			fx += f * dx / d
			fy += f * dy / d
		}
	}
	walk(t.root)

	return fx, fy
}

// visitWithin calls fn for every point whose position lies inside the
// axis-aligned square of half-extent r around (x,y). Callers do their
// own exact circle test.
func (t *quadtree) visitWithin(x, y, r float64, fn func(i int)) {
	var walk func(c *quadCell)
	walk = func(c *quadCell) {
		if c == nil || c.mass == 0 {
			return
		}
		if c.x1 < x-r || c.x0 > x+r || c.y1 < y-r || c.y0 > y+r {
			return
		}
		if c.children != nil {
			for _, child := range c.children {
				walk(child)
			}
			return
		}
		for _, j := range c.points {
			p := t.pts[j]
			if p.x < x-r || p.x > x+r || p.y < y-r || p.y > y+r {
				continue
			}
			fn(j)
		}
	}
	walk(t.root)
}
