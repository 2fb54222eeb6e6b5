// Package layout implements a force-directed graph layout engine. Given
// a GraphData it produces and continuously refines a 2D arrangement
// under a cooling schedule, with spring, charge, centering, and
// collision forces. The engine owns all positional state; callers read
// snapshots and drive interaction through pointer commands.
//
// An Engine is single-threaded by design: construction, ticking, and
// all commands must happen on one goroutine. No locking is performed.
package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"plexus/pkg/common"
)

// Config holds the simulation parameters. Zero values are replaced by
// the defaults from DefaultConfig.
type Config struct {
	// Width and Height define the world the centering force pulls
	// the graph centroid toward (Width/2, Height/2) and the region
	// initial positions are scattered over.
	Width  float64
	Height float64

	// LinkDistance is the spring rest length between linked nodes.
	LinkDistance float64
	// LinkStiffness scales the spring force before degree
	// normalization.
	LinkStiffness float64
	// Charge is the magnitude of the pairwise repulsion.
	Charge float64
	// CenterStrength scales the centroid correction per tick.
	CenterStrength float64
	// NodeRadius is the node circle radius used for collision
	// correction and pointer hit testing.
	NodeRadius float64
	// CollideIterations is the number of collision passes per tick.
	CollideIterations int

	// DT is the integration step.
	DT float64
	// Friction damps velocity each tick; 1 means no damping.
	Friction float64
	// AlphaDecay is the geometric cooling rate per tick.
	AlphaDecay float64
	// AlphaMin is the temperature below which ticking halts.
	AlphaMin float64
	// MaxTicks bounds Run for graphs that never converge; 0 means
	// no bound.
	MaxTicks int

	// Theta is the Barnes-Hut approximation threshold.
	Theta float64

	// Seed drives initial placement. Identical graph and seed give
	// identical layouts.
	Seed int64
}

// DefaultConfig returns the simulation defaults. AlphaDecay of 0.0228
// brings alpha from 1 under AlphaMin within 300 ticks.
func DefaultConfig() Config {
	return Config{
		Width:             800,
		Height:            600,
		LinkDistance:      150,
		LinkStiffness:     0.1,
		Charge:            400,
		CenterStrength:    0.1,
		NodeRadius:        60,
		CollideIterations: 2,
		DT:                1,
		Friction:          0.6,
		AlphaDecay:        0.0228,
		AlphaMin:          0.001,
		MaxTicks:          1000,
		Theta:             0.5,
		Seed:              1,
	}
}

// distEpsilon guards the repulsion and spring forces against the
// singularity of coincident nodes.
const distEpsilon = 1e-3

type nodeState struct {
	x, y   float64
	vx, vy float64

	pinned     bool
	pinX, pinY float64
}

type linkState struct {
	source, target int
	strength       float64
	label          string
}

// Engine simulates a force-directed layout for one GraphData. A new
// GraphData requires a new Engine; state is never diffed across graphs.
type Engine struct {
	cfg   Config
	graph *common.GraphData

	nodes  []nodeState
	links  []linkState
	index  map[string]int
	degree []int

	alpha float64
	ticks int

	viewport *Viewport
	dragNode int

	onFrame func(Frame)
	onClick func(common.Node)
	stopped bool
}

// New constructs an engine for the given graph. Link endpoints are
// resolved to node indices exactly once here; a dangling id or a
// malformed strength fails construction and no simulation is started.
// Initial positions are scattered deterministically from cfg.Seed.
func New(graph *common.GraphData, cfg Config) (*Engine, error) {
	applyDefaults(&cfg)

	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		graph:    graph,
		nodes:    make([]nodeState, len(graph.Nodes)),
		links:    make([]linkState, 0, len(graph.Links)),
		index:    make(map[string]int, len(graph.Nodes)),
		degree:   make([]int, len(graph.Nodes)),
		alpha:    1,
		viewport: NewViewport(),
		dragNode: -1,
	}

	for i := range graph.Nodes {
		e.index[graph.Nodes[i].ID] = i
	}

	for i := range graph.Links {
		l := &graph.Links[i]
		src, ok := e.index[l.Source.ID]
		if !ok {
			return nil, &common.DanglingLinkError{ID: l.Source.ID}
		}
		tgt, ok := e.index[l.Target.ID]
		if !ok {
			return nil, &common.DanglingLinkError{ID: l.Target.ID}
		}
		l.Source.Node = &graph.Nodes[src]
		l.Target.Node = &graph.Nodes[tgt]
		e.links = append(e.links, linkState{
			source:   src,
			target:   tgt,
			strength: l.Strength,
			label:    l.Label,
		})
		e.degree[src]++
		e.degree[tgt]++
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := range e.nodes {
		e.nodes[i].x = cfg.Width/4 + rng.Float64()*cfg.Width/2
		e.nodes[i].y = cfg.Height/4 + rng.Float64()*cfg.Height/2
	}

	return e, nil
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Width == 0 {
		cfg.Width = def.Width
	}
	if cfg.Height == 0 {
		cfg.Height = def.Height
	}
	if cfg.LinkDistance == 0 {
		cfg.LinkDistance = def.LinkDistance
	}
	if cfg.LinkStiffness == 0 {
		cfg.LinkStiffness = def.LinkStiffness
	}
	if cfg.Charge == 0 {
		cfg.Charge = def.Charge
	}
	if cfg.CenterStrength == 0 {
		cfg.CenterStrength = def.CenterStrength
	}
	if cfg.NodeRadius == 0 {
		cfg.NodeRadius = def.NodeRadius
	}
	if cfg.CollideIterations == 0 {
		cfg.CollideIterations = def.CollideIterations
	}
	if cfg.DT == 0 {
		cfg.DT = def.DT
	}
	if cfg.Friction == 0 {
		cfg.Friction = def.Friction
	}
	if cfg.AlphaDecay == 0 {
		cfg.AlphaDecay = def.AlphaDecay
	}
	if cfg.AlphaMin == 0 {
		cfg.AlphaMin = def.AlphaMin
	}
	if cfg.Theta == 0 {
		cfg.Theta = def.Theta
	}
}

// Alpha returns the current simulation temperature.
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// Ticks returns the number of steps taken so far.
func (e *Engine) Ticks() int {
	return e.ticks
}

// Converged reports whether the cooling schedule has run out.
func (e *Engine) Converged() bool {
	return e.alpha < e.cfg.AlphaMin
}

// Reheat raises the simulation temperature so the layout visibly
// reacts to a change, e.g. a drag. It never lowers alpha.
func (e *Engine) Reheat(alpha float64) {
	if alpha > e.alpha {
		e.alpha = alpha
	}
}

// Step advances the simulation by one tick and reports whether the
// simulation is still hot. Once alpha falls below AlphaMin, Step
// becomes a no-op returning false.
func (e *Engine) Step() bool {
	if e.alpha < e.cfg.AlphaMin {
		return false
	}

	tree := e.buildTree()
	e.applyLinkForce()
	e.applyChargeForce(tree)
	e.integrate()
	for i := 0; i < e.cfg.CollideIterations; i++ {
		e.collide()
	}
	e.applyCenterForce()

	e.alpha *= 1 - e.cfg.AlphaDecay
	e.ticks++
	return true
}

func (e *Engine) integrate() {
	for i := range e.nodes {
		n := &e.nodes[i]
		if n.pinned {
			// Pinned nodes follow the pointer exactly; the
			// accumulated force is discarded but they still
			// pushed their neighbors this tick.
			n.x = n.pinX
			n.y = n.pinY
			n.vx = 0
			n.vy = 0
			continue
		}
		n.vx *= e.cfg.Friction
		n.vy *= e.cfg.Friction
		n.x += n.vx * e.cfg.DT
		n.y += n.vy * e.cfg.DT
	}
}

// RunTick is the per-frame unit of work for Run: one Step plus one
// frame callback. Exposed so callers with their own frame loop can
// drive the engine cooperatively.
func (e *Engine) RunTick() bool {
	if e.stopped {
		return false
	}
	active := e.Step()
	if e.onFrame != nil {
		e.onFrame(e.Frame(""))
	}
	if e.cfg.MaxTicks > 0 && e.ticks >= e.cfg.MaxTicks {
		return false
	}
	return active
}

// Run drives the simulation at the given frame interval until it
// converges, exhausts MaxTicks, is stopped, or the context is
// canceled. An interval of zero ticks as fast as possible, which is
// what batch layout jobs want.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	e.stopped = false

	if interval <= 0 {
		for e.RunTick() {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !e.RunTick() {
				return nil
			}
		}
	}
}

// Stop halts Run and detaches the frame callback. It must be called on
// teardown so a discarded engine does not keep a tick loop alive.
func (e *Engine) Stop() {
	e.stopped = true
	e.onFrame = nil
}

// OnFrame registers the per-frame callback invoked by Run and RunTick.
func (e *Engine) OnFrame(fn func(Frame)) {
	e.onFrame = fn
}

// OnNodeClick registers the handler that receives clicked nodes.
func (e *Engine) OnNodeClick(fn func(common.Node)) {
	e.onClick = fn
}

// Position is a read-only positional snapshot entry.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Positions returns the current node positions by graph order. The
// returned slice is a copy; the engine keeps ownership of live state.
func (e *Engine) Positions() []Position {
	out := make([]Position, len(e.nodes))
	for i := range e.nodes {
		out[i] = Position{
			ID: e.graph.Nodes[i].ID,
			X:  e.nodes[i].x,
			Y:  e.nodes[i].y,
		}
	}
	return out
}

// SetPositions restores previously computed positions, e.g. a stored
// layout snapshot, and leaves the simulation cold so nothing moves
// until the caller reheats it. Unknown ids are ignored.
func (e *Engine) SetPositions(positions []Position) {
	for _, p := range positions {
		i, ok := e.index[p.ID]
		if !ok {
			continue
		}
		e.nodes[i].x = p.X
		e.nodes[i].y = p.Y
		e.nodes[i].vx = 0
		e.nodes[i].vy = 0
	}
	e.alpha = 0
}

// Viewport returns the engine's pan/zoom transform. The transform only
// affects how snapshots map to screen space, never the simulation.
func (e *Engine) Viewport() *Viewport {
	return e.viewport
}

func (e *Engine) centroid() (float64, float64) {
	if len(e.nodes) == 0 {
		return 0, 0
	}
	var cx, cy float64
	for i := range e.nodes {
		cx += e.nodes[i].x
		cy += e.nodes[i].y
	}
	n := float64(len(e.nodes))
	return cx / n, cy / n
}

func dist(dx, dy float64) float64 {
	return math.Sqrt(dx*dx + dy*dy)
}
